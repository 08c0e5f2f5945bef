package memory

import (
	"testing"

	"edu-games/internal/app"
)

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()

	store.Put(&app.PlaySession{ID: "s1", GameID: "math-adventure"})
	session, ok := store.Get("s1")
	if !ok || session.GameID != "math-adventure" {
		t.Fatalf("expected session present, got %+v", session)
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 live session, got %d", store.Len())
	}

	store.Delete("s1")
	if _, ok := store.Get("s1"); ok {
		t.Fatalf("expected session removed")
	}
}
