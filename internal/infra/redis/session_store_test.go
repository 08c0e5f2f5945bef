package redis

import (
	"testing"
	"time"

	"edu-games/internal/app"
	miniredis "github.com/alicebob/miniredis/v2"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewSessionStore(newClient(mr), time.Minute)

	store.Put(&app.PlaySession{ID: "s1", GameID: "countries-flags"})
	if !mr.Exists("play:session:s1") {
		t.Fatalf("expected redis key to be set")
	}
	if got, _ := mr.Get("play:session:s1"); got != "countries-flags" {
		t.Fatalf("expected game id as marker value, got %q", got)
	}
	if _, ok := store.Get("s1"); !ok {
		t.Fatalf("expected session present locally")
	}

	store.Delete("s1")
	if mr.Exists("play:session:s1") {
		t.Fatalf("expected redis key to be removed")
	}
}
