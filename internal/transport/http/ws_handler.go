package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"edu-games/internal/app"
	"edu-games/internal/domain"
)

// WSHandler bridges a rendering client to the play service. Each connection owns at most
// one live session; starting a new game abandons the previous one.
type WSHandler struct {
	service  *app.PlayService
	metrics  *Metrics
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.PlayService, metrics *Metrics, log zerolog.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		metrics: metrics,
		log:     log.With().Str("component", "ws").Logger(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type startPayload struct {
	GameID           string            `json:"gameId"`
	Difficulty       domain.Difficulty `json:"difficulty"`
	QuestionCount    int               `json:"questionCount"`
	OptionCount      int               `json:"optionCount"`
	MaxLives         int               `json:"maxLives"`
	PointsPerCorrect int               `json:"pointsPerCorrect"`
}

type answerPayload struct {
	Value string `json:"value"`
}

type questionPayload struct {
	SessionID string `json:"sessionId"`
	domain.Snapshot
}

type finishedPayload struct {
	Result domain.SessionResult `json:"result"`
	Ledger ledgerView           `json:"ledger"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and runs the start/answer loop.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.log.Warn().Err(err).Msg("ws write error")
				return
			}
		}
	}()

	c := &connection{handler: h, send: send}
	ctx := r.Context()
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "start":
			var payload startPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				c.fail("invalid start payload")
				continue
			}
			c.start(ctx, payload)
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				c.fail("invalid answer payload")
				continue
			}
			c.answer(ctx, payload.Value)
		default:
			c.fail("unsupported message type")
		}
	}

	c.abandon(context.WithoutCancel(ctx))
	close(send)
	<-writerDone
}

// connection is the per-socket state; only the read loop touches it.
type connection struct {
	handler   *WSHandler
	send      chan<- outboundMessage[any]
	sessionID string
	gameID    string
}

func (c *connection) start(ctx context.Context, p startPayload) {
	c.abandon(ctx)
	id, snap, err := c.handler.service.Start(ctx, domain.GameRequest{
		GameID:     p.GameID,
		Difficulty: p.Difficulty,
		Config: domain.SessionConfig{
			QuestionCount:    p.QuestionCount,
			PointsPerCorrect: p.PointsPerCorrect,
			MaxLives:         p.MaxLives,
			OptionCount:      p.OptionCount,
		},
	})
	if err != nil {
		c.fail(err.Error())
		return
	}
	c.sessionID, c.gameID = id, p.GameID
	c.handler.metrics.SessionsStarted.WithLabelValues(p.GameID).Inc()
	c.handler.metrics.ActiveSessions.Inc()
	c.handler.log.Debug().Str("session", id).Str("game", p.GameID).Msg("session started")
	c.send <- outboundMessage[any]{Type: "question", Payload: questionPayload{SessionID: id, Snapshot: snap}}
}

func (c *connection) answer(ctx context.Context, value string) {
	if c.sessionID == "" {
		c.fail(domain.ErrSessionNotFound.Error())
		return
	}
	res, snap, err := c.handler.service.Submit(ctx, c.sessionID, value)
	if err != nil {
		c.fail(err.Error())
		return
	}
	c.handler.metrics.observeAnswer(res.Outcome)
	c.send <- outboundMessage[any]{Type: "answerResult", Payload: res}

	if !snap.Status.Terminal() {
		c.send <- outboundMessage[any]{Type: "question", Payload: questionPayload{SessionID: c.sessionID, Snapshot: snap}}
		return
	}

	result, ledger, err := c.handler.service.Finish(ctx, c.sessionID)
	if err != nil {
		c.fail(err.Error())
		return
	}
	c.handler.metrics.SessionsEnded.WithLabelValues(c.gameID, string(snap.Status)).Inc()
	c.handler.metrics.ActiveSessions.Dec()
	c.sessionID, c.gameID = "", ""
	c.send <- outboundMessage[any]{Type: "finished", Payload: finishedPayload{
		Result: result,
		Ledger: newLedgerView(ledger, c.handler.service.Ledger().Degraded()),
	}}
}

func (c *connection) abandon(ctx context.Context) {
	if c.sessionID == "" {
		return
	}
	c.handler.service.Abandon(ctx, c.sessionID)
	c.handler.metrics.ActiveSessions.Dec()
	c.sessionID, c.gameID = "", ""
}

func (c *connection) fail(msg string) {
	c.send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: msg}}
}
