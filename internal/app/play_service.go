package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"edu-games/internal/domain"
	"github.com/google/uuid"
)

// GameMathAdventure is the arithmetic drill; every other game id names a content topic.
const GameMathAdventure = "math-adventure"

// SessionRepository abstracts where live play sessions are kept (in-memory, Redis, etc).
type SessionRepository interface {
	Put(session *PlaySession)
	Get(id string) (*PlaySession, bool)
	Delete(id string)
}

// TopicRepository loads content banks (from cache/backing store).
type TopicRepository interface {
	GetTopic(ctx context.Context, topicID string) (domain.Topic, error)
}

// PlaySession binds a quiz session to its handle and catalog game.
type PlaySession struct {
	ID        string
	GameID    string
	StartedAt time.Time
	Quiz      *QuizSession
}

// PlayService hosts independent quiz sessions for the rendering layer and hands finished
// ones to the score ledger.
type PlayService struct {
	sessions SessionRepository
	topics   TopicRepository
	ledger   *ScoreLedger
	newRand  func() *rand.Rand
	now      func() time.Time
}

func NewPlayService(sessions SessionRepository, topics TopicRepository, ledger *ScoreLedger) *PlayService {
	return NewPlayServiceWithRand(sessions, topics, ledger, func() *rand.Rand {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	})
}

// NewPlayServiceWithRand is test-only for reproducible question sets.
func NewPlayServiceWithRand(sessions SessionRepository, topics TopicRepository, ledger *ScoreLedger, newRand func() *rand.Rand) *PlayService {
	return &PlayService{
		sessions: sessions,
		topics:   topics,
		ledger:   ledger,
		newRand:  newRand,
		now:      time.Now,
	}
}

// Ledger exposes the score ledger for read-only views and resets.
func (s *PlayService) Ledger() *ScoreLedger {
	return s.ledger
}

// Start creates a session for req and returns its handle and first question.
func (s *PlayService) Start(ctx context.Context, req domain.GameRequest) (string, domain.Snapshot, error) {
	cfg := req.Config
	source, defaultPoints, err := s.sourceFor(ctx, req)
	if err != nil {
		return "", domain.Snapshot{}, err
	}
	if cfg.Points == nil && cfg.PointsPerCorrect == 0 {
		cfg.PointsPerCorrect = defaultPoints
	}

	quiz, err := StartSession(cfg, source, s.newRand())
	if err != nil {
		return "", domain.Snapshot{}, err
	}

	session := &PlaySession{
		ID:        uuid.NewString(),
		GameID:    req.GameID,
		StartedAt: s.now(),
		Quiz:      quiz,
	}
	s.sessions.Put(session)
	return session.ID, quiz.Snapshot(), nil
}

// Snapshot returns the current display state of a session.
func (s *PlayService) Snapshot(_ context.Context, id string) (domain.Snapshot, error) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return domain.Snapshot{}, domain.ErrSessionNotFound
	}
	return session.Quiz.Snapshot(), nil
}

// Submit grades an answer and returns the verdict plus the state to display next.
func (s *PlayService) Submit(_ context.Context, id, value string) (domain.AnswerResult, domain.Snapshot, error) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return domain.AnswerResult{}, domain.Snapshot{}, domain.ErrSessionNotFound
	}
	res, err := session.Quiz.Submit(value)
	if err != nil {
		return domain.AnswerResult{}, domain.Snapshot{}, err
	}
	return res, session.Quiz.Snapshot(), nil
}

// Finish records a terminal session in the ledger and forgets it, so a session is
// recorded at most once.
func (s *PlayService) Finish(ctx context.Context, id string) (domain.SessionResult, domain.PlayerLedger, error) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return domain.SessionResult{}, domain.PlayerLedger{}, domain.ErrSessionNotFound
	}
	result, err := session.Quiz.Result()
	if err != nil {
		return domain.SessionResult{}, domain.PlayerLedger{}, err
	}
	s.sessions.Delete(id)
	ledger := s.ledger.Record(ctx, session.GameID, result.FinalScore, result.Completed, result.Attempts)
	return result, ledger, nil
}

// Abandon drops a session without recording it.
func (s *PlayService) Abandon(_ context.Context, id string) {
	s.sessions.Delete(id)
}

func (s *PlayService) sourceFor(ctx context.Context, req domain.GameRequest) (QuestionSource, int, error) {
	if req.GameID == GameMathAdventure {
		difficulty := req.Difficulty
		if difficulty == "" {
			difficulty = domain.DifficultyEasy
		}
		source, err := NewArithmeticSource(difficulty, req.Config.OptionCount)
		if err != nil {
			return nil, 0, err
		}
		return source, DifficultyPoints(difficulty), nil
	}

	topic, err := s.topics.GetTopic(ctx, req.GameID)
	if errors.Is(err, domain.ErrTopicNotFound) {
		return nil, 0, fmt.Errorf("%w %q: %w", domain.ErrUnknownGame, req.GameID, err)
	}
	if err != nil {
		return nil, 0, err
	}
	source, err := NewTopicSource(topic, req.Config.OptionCount)
	if err != nil {
		return nil, 0, err
	}
	points := topic.Points
	if points <= 0 {
		points = DifficultyPoints(req.Difficulty)
	}
	return source, points, nil
}
