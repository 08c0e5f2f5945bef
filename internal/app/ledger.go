package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"edu-games/internal/domain"
	"github.com/rs/zerolog"
)

// LedgerStore persists the single player ledger (memory, SQLite, Redis, Postgres).
type LedgerStore interface {
	// Load returns domain.ErrLedgerNotFound when nothing has been saved yet.
	Load(ctx context.Context) (domain.PlayerLedger, error)
	Save(ctx context.Context, ledger domain.PlayerLedger) error
	Clear(ctx context.Context) error
}

// ScoreLedger records finished sessions into the player's durable progress.
// Persistence failures never reach callers: unreadable data loads as an empty ledger until the
// process holds progress of its own. After that, a failed read or write switches the ledger to
// in-memory mode for the rest of the process so stale reads never overwrite stored history.
type ScoreLedger struct {
	store LedgerStore
	log   zerolog.Logger
	now   func() time.Time

	mu       sync.Mutex
	current  domain.PlayerLedger
	held     bool // current reflects a successful read or a recorded session
	degraded bool
}

func NewScoreLedger(store LedgerStore, log zerolog.Logger) *ScoreLedger {
	return NewScoreLedgerWithClock(store, log, time.Now)
}

// NewScoreLedgerWithClock is used by tests for deterministic LastPlayed values.
func NewScoreLedgerWithClock(store LedgerStore, log zerolog.Logger, now func() time.Time) *ScoreLedger {
	return &ScoreLedger{
		store:   store,
		log:     log.With().Str("component", "score_ledger").Logger(),
		now:     now,
		current: domain.EmptyLedger(),
	}
}

// Load returns the current ledger, or an empty one when storage is absent or unreadable.
func (l *ScoreLedger) Load(ctx context.Context) domain.PlayerLedger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadLocked(ctx).Clone()
}

// Record folds one finished session into the ledger, persists it and returns the new state.
// Negative scores count as 0 and attempts below 1 count as 1.
func (l *ScoreLedger) Record(ctx context.Context, gameID string, score int, completed bool, attempts int) domain.PlayerLedger {
	if score < 0 {
		score = 0
	}
	if attempts < 1 {
		attempts = 1
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.loadLocked(ctx).Clone()
	next.TotalPoints += score
	next.GamesPlayed++
	if best, ok := next.GameScores[gameID]; !ok || score > best {
		next.GameScores[gameID] = score
	}
	next.LastPlayed = l.now()

	for _, id := range EvaluateAchievements(next, score, completed, attempts) {
		if next.Unlock(id) {
			l.log.Info().Str("achievement", id).Str("game", gameID).Msg("achievement unlocked")
		}
	}

	l.current = next
	l.held = true
	l.persistLocked(ctx, func(ctx context.Context) error { return l.store.Save(ctx, next) })
	return next.Clone()
}

// Reset clears all progress back to the empty ledger.
func (l *ScoreLedger) Reset(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.current = domain.EmptyLedger()
	l.held = true
	l.persistLocked(ctx, l.store.Clear)
}

// Degraded reports whether the ledger has fallen back to in-memory mode.
func (l *ScoreLedger) Degraded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.degraded
}

// EvaluateAchievements lists every achievement the new ledger state qualifies for, including
// ones already unlocked; unlocking is idempotent.
func EvaluateAchievements(ledger domain.PlayerLedger, score int, completed bool, attempts int) []string {
	var ids []string
	if score >= 100 {
		ids = append(ids, domain.AchievementFirst100)
	}
	if ledger.TotalPoints >= 1000 {
		ids = append(ids, domain.AchievementScoreMaster)
	}
	if ledger.GamesPlayed >= 5 {
		ids = append(ids, domain.AchievementGameExplorer)
	}
	if completed && attempts == 1 {
		ids = append(ids, domain.AchievementPerfectGame)
	}
	return ids
}

func (l *ScoreLedger) loadLocked(ctx context.Context) domain.PlayerLedger {
	if l.degraded {
		return l.current
	}
	loaded, err := l.store.Load(ctx)
	switch {
	case err == nil:
		l.current = loaded
		l.held = true
	case errors.Is(err, domain.ErrLedgerNotFound):
		l.current = domain.EmptyLedger()
	case l.held:
		l.degraded = true
		l.log.Warn().Err(err).Msg("ledger store unreadable, keeping progress in memory only")
	default:
		l.log.Warn().Err(err).Msg("ledger unreadable, starting from empty")
		l.current = domain.EmptyLedger()
	}
	return l.current
}

func (l *ScoreLedger) persistLocked(ctx context.Context, op func(context.Context) error) {
	if l.degraded {
		return
	}
	if err := op(ctx); err != nil {
		l.degraded = true
		l.log.Warn().Err(err).Msg("ledger store unavailable, keeping progress in memory only")
	}
}
