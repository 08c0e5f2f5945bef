package http

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"edu-games/internal/app"
	"edu-games/internal/domain"
)

// LedgerHandler serves the player's ledger: GET reads it, DELETE resets it.
type LedgerHandler struct {
	ledger *app.ScoreLedger
	log    zerolog.Logger
}

func NewLedgerHandler(ledger *app.ScoreLedger, log zerolog.Logger) *LedgerHandler {
	return &LedgerHandler{ledger: ledger, log: log.With().Str("component", "ledger_http").Logger()}
}

type achievementView struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type ledgerView struct {
	domain.PlayerLedger
	Titles   []achievementView `json:"titles"`
	Degraded bool              `json:"degraded"`
}

func newLedgerView(l domain.PlayerLedger, degraded bool) ledgerView {
	titles := make([]achievementView, 0, len(l.Achievements))
	for _, id := range l.Achievements {
		titles = append(titles, achievementView{ID: id, Title: domain.AchievementTitle(id)})
	}
	return ledgerView{PlayerLedger: l, Titles: titles, Degraded: degraded}
}

func (h *LedgerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		view := newLedgerView(h.ledger.Load(r.Context()), h.ledger.Degraded())
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(view); err != nil {
			h.log.Error().Err(err).Msg("encode ledger")
		}
	case http.MethodDelete:
		h.ledger.Reset(r.Context())
		h.log.Info().Msg("ledger reset")
		w.WriteHeader(http.StatusNoContent)
	default:
		w.Header().Set("Allow", "GET, DELETE")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
