package app_test

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"edu-games/internal/app"
	"edu-games/internal/domain"
)

// fixedSource yields questions whose correct answer is "right" among optionCount choices.
func fixedSource(optionCount int) app.QuestionSource {
	i := 0
	return app.QuestionFunc(func(_ *rand.Rand) (domain.Question, error) {
		i++
		options := []string{"right"}
		for j := 1; j < optionCount; j++ {
			options = append(options, fmt.Sprintf("wrong-%d-%d", i, j))
		}
		return domain.Question{
			Prompt:  fmt.Sprintf("q%d", i),
			Answer:  "right",
			Options: options,
		}, nil
	})
}

func startFixed(t *testing.T, cfg domain.SessionConfig) *app.QuizSession {
	t.Helper()
	s, err := app.StartSession(cfg, fixedSource(cfg.OptionCount), rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	return s
}

func submit(t *testing.T, s *app.QuizSession, value string) domain.AnswerResult {
	t.Helper()
	res, err := s.Submit(value)
	if err != nil {
		t.Fatalf("submit %q: %v", value, err)
	}
	return res
}

func TestMixedAnswersWin(t *testing.T) {
	s := startFixed(t, domain.SessionConfig{QuestionCount: 3, MaxLives: 3, PointsPerCorrect: 10, OptionCount: 4})

	if res := submit(t, s, "right"); res.Outcome != domain.OutcomeCorrect || res.Awarded != 10 {
		t.Fatalf("expected correct +10, got %+v", res)
	}
	res := submit(t, s, "wrong")
	if res.Outcome != domain.OutcomeIncorrect || res.CorrectAnswer != "right" {
		t.Fatalf("expected incorrect carrying answer, got %+v", res)
	}
	if res.LivesRemaining != 2 || res.Status != domain.StatusInProgress {
		t.Fatalf("expected 2 lives in progress, got %+v", res)
	}
	submit(t, s, "right")

	if s.Score() != 20 || s.LivesRemaining() != 2 || s.Status() != domain.StatusWon {
		t.Fatalf("expected score 20, 2 lives, won; got %d %d %s", s.Score(), s.LivesRemaining(), s.Status())
	}
	result, err := s.Result()
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	want := domain.SessionResult{FinalScore: 20, Completed: true, Attempts: 2}
	if result != want {
		t.Fatalf("expected %+v, got %+v", want, result)
	}
}

func TestLosingAllLivesEndsSessionImmediately(t *testing.T) {
	for _, count := range []int{3, 5} {
		t.Run(fmt.Sprintf("questions=%d", count), func(t *testing.T) {
			s := startFixed(t, domain.SessionConfig{QuestionCount: count, MaxLives: 3, PointsPerCorrect: 10, OptionCount: 4})

			submit(t, s, "nope")
			submit(t, s, "nope")
			res := submit(t, s, "nope")
			if res.LivesRemaining != 0 || res.Status != domain.StatusLost {
				t.Fatalf("expected lost with 0 lives after third miss, got %+v", res)
			}
			if s.Index() != 2 {
				t.Fatalf("expected session to stop at question 3, index=%d", s.Index())
			}
			if _, err := s.Submit("right"); !errors.Is(err, domain.ErrIllegalState) {
				t.Fatalf("expected illegal state after loss, got %v", err)
			}
			result := s.MustResult()
			if result.Completed || result.FinalScore != 0 || result.Attempts != 4 {
				t.Fatalf("unexpected result %+v", result)
			}
		})
	}
}

func TestNoLivesModeOnlyEndsByExhaustion(t *testing.T) {
	s := startFixed(t, domain.SessionConfig{QuestionCount: 4, MaxLives: 0, PointsPerCorrect: 5, OptionCount: 2})

	for i := 0; i < 3; i++ {
		res := submit(t, s, "nope")
		if res.Status != domain.StatusInProgress || res.LivesRemaining != 0 {
			t.Fatalf("answer %d: expected in progress without lives, got %+v", i, res)
		}
	}
	if res := submit(t, s, "nope"); res.Status != domain.StatusWon {
		t.Fatalf("expected won after exhausting questions, got %+v", res)
	}
	result := s.MustResult()
	if !result.Completed || result.Attempts != 1 || result.FinalScore != 0 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestWonExactlyAfterLastQuestion(t *testing.T) {
	const n = 6
	s := startFixed(t, domain.SessionConfig{QuestionCount: n, MaxLives: 2, PointsPerCorrect: 1, OptionCount: 4})
	for i := 0; i < n; i++ {
		if s.Status() != domain.StatusInProgress {
			t.Fatalf("ended early before answer %d: %s", i+1, s.Status())
		}
		submit(t, s, "right")
	}
	if s.Status() != domain.StatusWon || s.Index() != n {
		t.Fatalf("expected won with index %d, got %s/%d", n, s.Status(), s.Index())
	}
}

func TestScoreIsMonotonicAndLivesConserved(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	points := func(i int) int { return (i + 1) * 3 }
	for trial := 0; trial < 50; trial++ {
		s := startFixed(t, domain.SessionConfig{QuestionCount: 10, MaxLives: 4, Points: points, OptionCount: 4})
		prevScore, prevLives := 0, 4
		for s.Status() == domain.StatusInProgress {
			idx := s.Index()
			value := "right"
			if rng.Intn(2) == 0 {
				value = "wrong"
			}
			res := submit(t, s, value)
			switch res.Outcome {
			case domain.OutcomeCorrect:
				if res.Score != prevScore+points(idx) || res.LivesRemaining != prevLives {
					t.Fatalf("correct answer %d: score %d->%d lives %d->%d", idx, prevScore, res.Score, prevLives, res.LivesRemaining)
				}
			case domain.OutcomeIncorrect:
				if res.Score != prevScore || res.LivesRemaining != prevLives-1 {
					t.Fatalf("wrong answer %d: score %d->%d lives %d->%d", idx, prevScore, res.Score, prevLives, res.LivesRemaining)
				}
			}
			if res.LivesRemaining < 0 {
				t.Fatalf("negative lives")
			}
			if (res.LivesRemaining == 0) != (res.Status == domain.StatusLost) {
				t.Fatalf("lost must coincide with zero lives, got %+v", res)
			}
			prevScore, prevLives = res.Score, res.LivesRemaining
		}
	}
}

func TestInvalidConfig(t *testing.T) {
	cases := []struct {
		name string
		cfg  domain.SessionConfig
	}{
		{"zero questions", domain.SessionConfig{QuestionCount: 0, PointsPerCorrect: 10, OptionCount: 4}},
		{"negative questions", domain.SessionConfig{QuestionCount: -2, PointsPerCorrect: 10, OptionCount: 4}},
		{"one option", domain.SessionConfig{QuestionCount: 3, PointsPerCorrect: 10, OptionCount: 1}},
		{"negative lives", domain.SessionConfig{QuestionCount: 3, PointsPerCorrect: 10, OptionCount: 4, MaxLives: -1}},
		{"no points", domain.SessionConfig{QuestionCount: 3, OptionCount: 4}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := app.StartSession(tc.cfg, fixedSource(4), rand.New(rand.NewSource(1)))
			if !errors.Is(err, domain.ErrInvalidConfig) {
				t.Fatalf("expected invalid config, got %v", err)
			}
		})
	}
}

func TestIllegalStateTransitions(t *testing.T) {
	s := app.NewQuizSession(domain.SessionConfig{QuestionCount: 1, PointsPerCorrect: 1, OptionCount: 2})
	if s.Status() != domain.StatusNotStarted {
		t.Fatalf("expected not started, got %s", s.Status())
	}
	if _, err := s.Submit("x"); !errors.Is(err, domain.ErrIllegalState) {
		t.Fatalf("expected illegal state before start, got %v", err)
	}
	if _, err := s.Result(); !errors.Is(err, domain.ErrIllegalState) {
		t.Fatalf("expected illegal state for early result, got %v", err)
	}

	if err := s.Start(fixedSource(2), rand.New(rand.NewSource(1))); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.Start(fixedSource(2), rand.New(rand.NewSource(1))); !errors.Is(err, domain.ErrIllegalState) {
		t.Fatalf("expected illegal state on restart, got %v", err)
	}
	if _, err := s.Result(); !errors.Is(err, domain.ErrIllegalState) {
		t.Fatalf("expected illegal state while in progress, got %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("expected MustResult to panic while in progress")
		}
	}()
	s.MustResult()
}

func TestStartRejectsMalformedQuestions(t *testing.T) {
	bad := app.QuestionFunc(func(_ *rand.Rand) (domain.Question, error) {
		return domain.Question{Answer: "a", Options: []string{"a", "a", "b"}}, nil
	})
	_, err := app.StartSession(domain.SessionConfig{QuestionCount: 1, PointsPerCorrect: 1, OptionCount: 3}, bad, rand.New(rand.NewSource(1)))
	if !errors.Is(err, domain.ErrInvalidQuestion) {
		t.Fatalf("expected invalid question, got %v", err)
	}
}

func TestStartRejectsWrongOptionCount(t *testing.T) {
	cfg := domain.SessionConfig{QuestionCount: 2, PointsPerCorrect: 1, OptionCount: 4}
	_, err := app.StartSession(cfg, fixedSource(3), rand.New(rand.NewSource(1)))
	if !errors.Is(err, domain.ErrInvalidQuestion) {
		t.Fatalf("expected invalid question for 3 options when 4 are configured, got %v", err)
	}
}

func TestSnapshotHidesAnswer(t *testing.T) {
	s := startFixed(t, domain.SessionConfig{QuestionCount: 2, MaxLives: 1, PointsPerCorrect: 1, OptionCount: 4})
	snap := s.Snapshot()
	if snap.Prompt != "q1" || len(snap.Options) != 4 || snap.Total != 2 || snap.Status != domain.StatusInProgress {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	snap.Options[0] = "tampered"
	q, err := s.Current()
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if q.Options[0] == "tampered" {
		t.Fatalf("snapshot must not alias session state")
	}

	submit(t, s, "wrong")
	if end := s.Snapshot(); end.Status != domain.StatusLost || end.Options != nil {
		t.Fatalf("expected terminal snapshot without options, got %+v", end)
	}
}
