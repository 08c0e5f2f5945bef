package domain

// Question models a closed-answer quiz item with exactly one correct option.
type Question struct {
	Prompt  string   `json:"prompt"`
	Visual  string   `json:"visual,omitempty"`
	Answer  string   `json:"answer"`
	Options []string `json:"options"`
}

// Validate checks that options hold at least two distinct values and the answer exactly once.
func (q Question) Validate() error {
	if len(q.Options) < 2 {
		return ErrInvalidQuestion
	}
	seen := make(map[string]struct{}, len(q.Options))
	found := false
	for _, opt := range q.Options {
		if _, dup := seen[opt]; dup {
			return ErrInvalidQuestion
		}
		seen[opt] = struct{}{}
		if opt == q.Answer {
			found = true
		}
	}
	if !found {
		return ErrInvalidQuestion
	}
	return nil
}

// PointsFunc returns the points awarded for a correct answer to question i.
type PointsFunc func(i int) int

// SessionConfig holds the immutable parameters of one play-through.
type SessionConfig struct {
	QuestionCount    int `json:"questionCount" yaml:"questionCount"`
	PointsPerCorrect int `json:"pointsPerCorrect" yaml:"pointsPerCorrect"`
	// MaxLives of 0 disables lives; the session then ends only when questions run out.
	MaxLives    int `json:"maxLives" yaml:"maxLives"`
	OptionCount int `json:"optionCount" yaml:"optionCount"`
	// Points overrides PointsPerCorrect when set.
	Points PointsFunc `json:"-" yaml:"-"`
}

// PointsFor returns the points for a correct answer at index i.
func (c SessionConfig) PointsFor(i int) int {
	if c.Points != nil {
		return c.Points(i)
	}
	return c.PointsPerCorrect
}

// Status is the lifecycle state of a quiz session.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
	StatusLost       Status = "lost"
)

// Terminal reports whether no further answers are accepted.
func (s Status) Terminal() bool {
	return s == StatusWon || s == StatusLost
}

// Outcome is the grading verdict for one submitted answer.
type Outcome string

const (
	OutcomeCorrect   Outcome = "correct"
	OutcomeIncorrect Outcome = "incorrect"
)

// Snapshot is what the rendering layer displays for the current question.
// It never carries the correct answer.
type Snapshot struct {
	Index          int      `json:"index"`
	Total          int      `json:"total"`
	Prompt         string   `json:"prompt,omitempty"`
	Visual         string   `json:"visual,omitempty"`
	Options        []string `json:"options,omitempty"`
	Score          int      `json:"score"`
	LivesRemaining int      `json:"livesRemaining"`
	MaxLives       int      `json:"maxLives"`
	Status         Status   `json:"status"`
}

// AnswerResult summarizes the outcome of a submission.
type AnswerResult struct {
	Outcome        Outcome `json:"outcome"`
	CorrectAnswer  string  `json:"correctAnswer"`
	Awarded        int     `json:"awarded"`
	Score          int     `json:"score"`
	LivesRemaining int     `json:"livesRemaining"`
	Status         Status  `json:"status"`
}

// SessionResult is handed to the ledger once a session is terminal.
type SessionResult struct {
	FinalScore int  `json:"finalScore"`
	Completed  bool `json:"completed"`
	// Attempts counts wrong answers plus one.
	Attempts int `json:"attempts"`
}

// Difficulty selects operand ranges and point values for generated games.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// TopicItem is one prompt/answer pair of a content bank.
type TopicItem struct {
	Prompt string `json:"prompt" yaml:"prompt"`
	Visual string `json:"visual,omitempty" yaml:"visual,omitempty"`
	Answer string `json:"answer" yaml:"answer"`
}

// Topic is a content bank that question generators draw from.
type Topic struct {
	ID     string      `json:"id" yaml:"id"`
	Title  string      `json:"title" yaml:"title"`
	Points int         `json:"points,omitempty" yaml:"points,omitempty"`
	Items  []TopicItem `json:"items" yaml:"items"`
}

// Answers returns every item answer in bank order.
func (t Topic) Answers() []string {
	out := make([]string, 0, len(t.Items))
	for _, item := range t.Items {
		out = append(out, item.Answer)
	}
	return out
}

// GameRequest asks the play service for a new session of a catalog game.
type GameRequest struct {
	GameID     string        `json:"gameId"`
	Difficulty Difficulty    `json:"difficulty,omitempty"`
	Config     SessionConfig `json:"config"`
}
