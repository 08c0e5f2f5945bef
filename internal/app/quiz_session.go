package app

import (
	"fmt"
	"math/rand"

	"edu-games/internal/domain"
)

// QuestionSource produces one question per call. Content is opaque to the session.
type QuestionSource interface {
	Next(rng *rand.Rand) (domain.Question, error)
}

// QuestionFunc adapts a plain function to QuestionSource.
type QuestionFunc func(rng *rand.Rand) (domain.Question, error)

func (f QuestionFunc) Next(rng *rand.Rand) (domain.Question, error) {
	return f(rng)
}

// QuizSession drives exactly one play-through of a generated question set.
// It is owned by a single caller and must not be shared across goroutines.
type QuizSession struct {
	cfg       domain.SessionConfig
	questions []domain.Question
	index     int
	score     int
	lives     int
	status    domain.Status
}

// NewQuizSession returns a session in the not-started state.
func NewQuizSession(cfg domain.SessionConfig) *QuizSession {
	return &QuizSession{cfg: cfg, status: domain.StatusNotStarted}
}

// StartSession builds and starts a session in one step.
func StartSession(cfg domain.SessionConfig, source QuestionSource, rng *rand.Rand) (*QuizSession, error) {
	s := NewQuizSession(cfg)
	if err := s.Start(source, rng); err != nil {
		return nil, err
	}
	return s, nil
}

// ValidateConfig reports ErrInvalidConfig for parameters a session cannot run with.
func ValidateConfig(cfg domain.SessionConfig) error {
	switch {
	case cfg.QuestionCount <= 0:
		return fmt.Errorf("%w: questionCount must be positive, got %d", domain.ErrInvalidConfig, cfg.QuestionCount)
	case cfg.OptionCount < 2:
		return fmt.Errorf("%w: optionCount must be at least 2, got %d", domain.ErrInvalidConfig, cfg.OptionCount)
	case cfg.MaxLives < 0:
		return fmt.Errorf("%w: maxLives must not be negative, got %d", domain.ErrInvalidConfig, cfg.MaxLives)
	case cfg.Points == nil && cfg.PointsPerCorrect <= 0:
		return fmt.Errorf("%w: pointsPerCorrect must be positive, got %d", domain.ErrInvalidConfig, cfg.PointsPerCorrect)
	}
	return nil
}

// Start generates the question set and moves the session to in-progress.
func (s *QuizSession) Start(source QuestionSource, rng *rand.Rand) error {
	if s.status != domain.StatusNotStarted {
		return fmt.Errorf("%w: start called in %s", domain.ErrIllegalState, s.status)
	}
	if err := ValidateConfig(s.cfg); err != nil {
		return err
	}

	questions := make([]domain.Question, 0, s.cfg.QuestionCount)
	for i := 0; i < s.cfg.QuestionCount; i++ {
		q, err := source.Next(rng)
		if err != nil {
			return fmt.Errorf("generate question %d: %w", i, err)
		}
		if err := q.Validate(); err != nil {
			return fmt.Errorf("generate question %d: %w", i, err)
		}
		if len(q.Options) != s.cfg.OptionCount {
			return fmt.Errorf("generate question %d: %w: %d options, want %d",
				i, domain.ErrInvalidQuestion, len(q.Options), s.cfg.OptionCount)
		}
		q.Options = append([]string(nil), q.Options...)
		questions = append(questions, q)
	}

	s.questions = questions
	s.index = 0
	s.score = 0
	s.lives = s.cfg.MaxLives
	s.status = domain.StatusInProgress
	return nil
}

// Submit grades value against the current question and advances the session.
func (s *QuizSession) Submit(value string) (domain.AnswerResult, error) {
	if s.status != domain.StatusInProgress {
		return domain.AnswerResult{}, fmt.Errorf("%w: submit called in %s", domain.ErrIllegalState, s.status)
	}

	q := s.questions[s.index]
	res := domain.AnswerResult{CorrectAnswer: q.Answer}
	if value == q.Answer {
		res.Outcome = domain.OutcomeCorrect
		res.Awarded = s.cfg.PointsFor(s.index)
		s.score += res.Awarded
	} else {
		res.Outcome = domain.OutcomeIncorrect
		if s.cfg.MaxLives > 0 {
			s.lives--
		}
	}

	switch {
	case s.cfg.MaxLives > 0 && s.lives == 0:
		s.status = domain.StatusLost
	case s.index == len(s.questions)-1:
		s.index = len(s.questions)
		s.status = domain.StatusWon
	default:
		s.index++
	}

	res.Score = s.score
	res.LivesRemaining = s.lives
	res.Status = s.status
	return res, nil
}

// Result returns the final tally; it is only valid once the session is terminal.
func (s *QuizSession) Result() (domain.SessionResult, error) {
	if !s.status.Terminal() {
		return domain.SessionResult{}, fmt.Errorf("%w: result called in %s", domain.ErrIllegalState, s.status)
	}
	return domain.SessionResult{
		FinalScore: s.score,
		Completed:  s.status == domain.StatusWon,
		Attempts:   s.cfg.MaxLives - s.lives + 1,
	}, nil
}

// MustResult is Result for callers that treat a non-terminal session as a bug.
func (s *QuizSession) MustResult() domain.SessionResult {
	res, err := s.Result()
	if err != nil {
		panic(err)
	}
	return res
}

// Current returns the question awaiting an answer.
func (s *QuizSession) Current() (domain.Question, error) {
	if s.status != domain.StatusInProgress {
		return domain.Question{}, fmt.Errorf("%w: no current question in %s", domain.ErrIllegalState, s.status)
	}
	q := s.questions[s.index]
	q.Options = append([]string(nil), q.Options...)
	return q, nil
}

// Snapshot renders the session for display without revealing the answer.
func (s *QuizSession) Snapshot() domain.Snapshot {
	snap := domain.Snapshot{
		Index:          s.index,
		Total:          len(s.questions),
		Score:          s.score,
		LivesRemaining: s.lives,
		MaxLives:       s.cfg.MaxLives,
		Status:         s.status,
	}
	if s.status == domain.StatusInProgress {
		q := s.questions[s.index]
		snap.Prompt = q.Prompt
		snap.Visual = q.Visual
		snap.Options = append([]string(nil), q.Options...)
	}
	return snap
}

func (s *QuizSession) Status() domain.Status { return s.status }

func (s *QuizSession) Score() int { return s.score }

func (s *QuizSession) LivesRemaining() int { return s.lives }

func (s *QuizSession) Index() int { return s.index }

// Config returns the parameters the session was created with.
func (s *QuizSession) Config() domain.SessionConfig { return s.cfg }
