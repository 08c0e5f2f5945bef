package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"edu-games/internal/app"
	"edu-games/internal/domain"
	"edu-games/internal/infra/memory"
)

type testServer struct {
	*httptest.Server
	service *app.PlayService
	metrics *Metrics
	store   *memory.LedgerStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	topics := memory.NewTopicRepository(memory.NewStaticTopicLoader(map[string]domain.Topic{
		"shape-guess": {
			ID:    "shape-guess",
			Title: "Tebak Bentuk",
			Items: []domain.TopicItem{
				{Prompt: "Bentuk apa ini?", Visual: "⚪", Answer: "Lingkaran"},
				{Prompt: "Bentuk apa ini?", Visual: "⬛", Answer: "Persegi"},
				{Prompt: "Bentuk apa ini?", Visual: "🔺", Answer: "Segitiga"},
			},
		},
	}), time.Minute)
	store := memory.NewLedgerStore()
	ledger := app.NewScoreLedger(store, zerolog.Nop())
	service := app.NewPlayService(memory.NewSessionStore(), topics, ledger)
	metrics := NewMetrics()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", NewWSHandler(service, metrics, zerolog.Nop()).ServeWS)
	mux.Handle("/ledger", NewLedgerHandler(ledger, zerolog.Nop()))
	mux.Handle("/metrics", metrics.Handler())
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, service: service, metrics: metrics, store: store}
}

func dial(t *testing.T, srv *testServer) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func shapeAnswers() map[string]string {
	return map[string]string{"⚪": "Lingkaran", "⬛": "Persegi", "🔺": "Segitiga"}
}

func TestWebSocketPlaysToFinish(t *testing.T) {
	srv := newTestServer(t)
	conn := dial(t, srv)

	send(t, conn, "start", map[string]any{"gameId": "shape-guess", "questionCount": 2, "optionCount": 3, "maxLives": 3})

	var q questionPayload
	readInto(t, conn, "question", &q)
	if q.SessionID == "" || q.Total != 2 || len(q.Options) != 3 {
		t.Fatalf("unexpected question %+v", q)
	}

	// Miss the first question, answer the second.
	send(t, conn, "answer", map[string]any{"value": "Bintang"})
	var res domain.AnswerResult
	readInto(t, conn, "answerResult", &res)
	if res.Outcome != domain.OutcomeIncorrect || res.CorrectAnswer != shapeAnswers()[q.Visual] || res.LivesRemaining != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
	readInto(t, conn, "question", &q)

	send(t, conn, "answer", map[string]any{"value": shapeAnswers()[q.Visual]})
	readInto(t, conn, "answerResult", &res)
	if res.Outcome != domain.OutcomeCorrect || res.Status != domain.StatusWon {
		t.Fatalf("unexpected result %+v", res)
	}

	var done finishedPayload
	readInto(t, conn, "finished", &done)
	if done.Result.FinalScore != 10 || !done.Result.Completed || done.Result.Attempts != 2 {
		t.Fatalf("unexpected final result %+v", done.Result)
	}
	if done.Ledger.GamesPlayed != 1 || done.Ledger.GameScores["shape-guess"] != 10 {
		t.Fatalf("unexpected ledger %+v", done.Ledger)
	}

	if got := testutil.ToFloat64(srv.metrics.SessionsEnded.WithLabelValues("shape-guess", "won")); got != 1 {
		t.Fatalf("expected one finished session metric, got %v", got)
	}
	if got := testutil.ToFloat64(srv.metrics.Answers.WithLabelValues("incorrect")); got != 1 {
		t.Fatalf("expected one incorrect answer metric, got %v", got)
	}
	if got := testutil.ToFloat64(srv.metrics.ActiveSessions); got != 0 {
		t.Fatalf("expected no active sessions, got %v", got)
	}
}

func TestWebSocketReportsErrors(t *testing.T) {
	srv := newTestServer(t)
	conn := dial(t, srv)

	send(t, conn, "answer", map[string]any{"value": "Persegi"})
	var e errorPayload
	readInto(t, conn, "error", &e)
	if e.Message != domain.ErrSessionNotFound.Error() {
		t.Fatalf("unexpected error %q", e.Message)
	}

	send(t, conn, "start", map[string]any{"gameId": "dinosaurs", "questionCount": 1, "optionCount": 2})
	readInto(t, conn, "error", &e)
	if !strings.Contains(e.Message, domain.ErrUnknownGame.Error()) {
		t.Fatalf("expected unknown game, got %q", e.Message)
	}

	send(t, conn, "dance", nil)
	readInto(t, conn, "error", &e)
	if e.Message != "unsupported message type" {
		t.Fatalf("unexpected error %q", e.Message)
	}
}

func TestLedgerEndpoint(t *testing.T) {
	srv := newTestServer(t)
	srv.service.Ledger().Record(context.Background(), "color-mixing", 120, true, 1)

	resp, err := http.Get(srv.URL + "/ledger")
	if err != nil {
		t.Fatalf("get ledger: %v", err)
	}
	defer resp.Body.Close()
	var view ledgerView
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.TotalPoints != 120 || len(view.Titles) != 2 || view.Titles[0].Title != domain.AchievementTitle(domain.AchievementFirst100) {
		t.Fatalf("unexpected ledger view %+v", view)
	}

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/ledger", nil)
	del, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete ledger: %v", err)
	}
	del.Body.Close()
	if del.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", del.StatusCode)
	}
	if _, err := srv.store.Load(context.Background()); err == nil {
		t.Fatalf("expected stored ledger cleared")
	}

	post, err := http.Post(srv.URL+"/ledger", "application/json", nil)
	if err != nil {
		t.Fatalf("post ledger: %v", err)
	}
	post.Body.Close()
	if post.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", post.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	srv.metrics.SessionsStarted.WithLabelValues("math-adventure").Inc()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	defer resp.Body.Close()
	var body bytes.Buffer
	if _, err := body.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	if !strings.Contains(body.String(), `edu_games_sessions_started_total{game="math-adventure"} 1`) {
		t.Fatalf("metric missing from output")
	}
}

func send(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	if err := conn.WriteJSON(map[string]any{"type": typ, "payload": payload}); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

func readInto(t *testing.T, conn *websocket.Conn, expect string, dst any) {
	t.Helper()
	var msg struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if msg.Type != expect {
		t.Fatalf("expected type %s, got %s (%s)", expect, msg.Type, msg.Payload)
	}
	if err := json.Unmarshal(msg.Payload, dst); err != nil {
		t.Fatalf("decode %s payload: %v", expect, err)
	}
}
