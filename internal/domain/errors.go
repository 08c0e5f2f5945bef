package domain

import "errors"

var (
	// ErrInvalidConfig is returned when a session is started with unusable parameters.
	ErrInvalidConfig = errors.New("invalid session config")
	// ErrIllegalState indicates an operation was called in the wrong session state.
	// It always points at a caller bug.
	ErrIllegalState = errors.New("illegal session state")
	// ErrInsufficientDistractors is returned when a pool cannot fill every wrong-answer slot.
	ErrInsufficientDistractors = errors.New("not enough distinct distractors")
	// ErrInvalidQuestion indicates a generator produced a malformed question.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrSessionNotFound is returned when a session handle is unknown or already finished.
	ErrSessionNotFound = errors.New("play session not found")
	// ErrTopicNotFound indicates the topic content could not be loaded.
	ErrTopicNotFound = errors.New("topic not found")
	// ErrUnknownGame is returned when no question source exists for a game id.
	ErrUnknownGame = errors.New("unknown game")
	// ErrLedgerNotFound is returned by ledger stores when nothing has been persisted yet.
	ErrLedgerNotFound = errors.New("ledger not found")
	// ErrStoreUnavailable signals that persistence is disabled or unreachable.
	ErrStoreUnavailable = errors.New("ledger store unavailable")
	// ErrInvalidMove is returned for illegal puzzle moves or card flips.
	ErrInvalidMove = errors.New("invalid move")
)
