package app

import (
	"fmt"
	"math/rand"
	"strconv"

	"edu-games/internal/domain"
)

// TopicSource draws questions from a content bank. Items are not repeated until the
// bank is exhausted; other items' answers serve as distractors.
type TopicSource struct {
	topic       domain.Topic
	answers     []string
	optionCount int
	deck        []int
	pos         int
}

// NewTopicSource prepares a generator over topic.
func NewTopicSource(topic domain.Topic, optionCount int) (*TopicSource, error) {
	if len(topic.Items) == 0 {
		return nil, fmt.Errorf("%w: topic %q has no items", domain.ErrInvalidQuestion, topic.ID)
	}
	return &TopicSource{
		topic:       topic,
		answers:     topic.Answers(),
		optionCount: optionCount,
	}, nil
}

func (t *TopicSource) Next(rng *rand.Rand) (domain.Question, error) {
	if t.pos >= len(t.deck) {
		t.deck = make([]int, len(t.topic.Items))
		for i := range t.deck {
			t.deck[i] = i
		}
		Shuffle(rng, t.deck)
		t.pos = 0
	}
	item := t.topic.Items[t.deck[t.pos]]
	t.pos++

	options, err := BuildOptions(item.Answer, t.answers, t.optionCount, rng)
	if err != nil {
		return domain.Question{}, fmt.Errorf("topic %s: %w", t.topic.ID, err)
	}
	return domain.Question{
		Prompt:  item.Prompt,
		Visual:  item.Visual,
		Answer:  item.Answer,
		Options: options,
	}, nil
}

// DifficultyPoints is the per-correct-answer reward of arithmetic games.
func DifficultyPoints(d domain.Difficulty) int {
	switch d {
	case domain.DifficultyMedium:
		return 20
	case domain.DifficultyHard:
		return 30
	default:
		return 10
	}
}

type operandRange struct{ lo, hi int }

type arithmeticLevel struct {
	addSub operandRange
	mulDiv operandRange // zero value disables × and ÷
}

var arithmeticLevels = map[domain.Difficulty]arithmeticLevel{
	domain.DifficultyEasy:   {addSub: operandRange{1, 9}},
	domain.DifficultyMedium: {addSub: operandRange{1, 20}, mulDiv: operandRange{1, 12}},
	domain.DifficultyHard:   {addSub: operandRange{10, 99}, mulDiv: operandRange{2, 12}},
}

// ArithmeticSource generates addition, subtraction and, above easy, multiplication and
// division drills with nearby integers as distractors.
type ArithmeticSource struct {
	level       arithmeticLevel
	optionCount int
}

// NewArithmeticSource returns a generator for difficulty d.
func NewArithmeticSource(d domain.Difficulty, optionCount int) (*ArithmeticSource, error) {
	level, ok := arithmeticLevels[d]
	if !ok {
		return nil, fmt.Errorf("%w: unknown difficulty %q", domain.ErrInvalidConfig, d)
	}
	return &ArithmeticSource{level: level, optionCount: optionCount}, nil
}

func (a *ArithmeticSource) Next(rng *rand.Rand) (domain.Question, error) {
	ops := 2
	if a.level.mulDiv.hi > 0 {
		ops = 4
	}

	var x, y, answer int
	var symbol string
	switch rng.Intn(ops) {
	case 0:
		x, y = a.level.addSub.pick(rng), a.level.addSub.pick(rng)
		answer, symbol = x+y, "+"
	case 1:
		x, y = a.level.addSub.pick(rng), a.level.addSub.pick(rng)
		if y > x {
			x, y = y, x
		}
		answer, symbol = x-y, "-"
	case 2:
		x, y = a.level.mulDiv.pick(rng), a.level.mulDiv.pick(rng)
		answer, symbol = x*y, "×"
	default:
		y, answer = a.level.mulDiv.pick(rng), a.level.mulDiv.pick(rng)
		x, symbol = y*answer, "÷"
	}

	// Window is wide enough to fill every slot even when the answer is 0.
	spread := a.optionCount + 2
	pool := make([]string, 0, 2*spread)
	for d := 1; d <= spread; d++ {
		pool = append(pool, strconv.Itoa(answer+d))
		if answer-d >= 0 {
			pool = append(pool, strconv.Itoa(answer-d))
		}
	}

	correct := strconv.Itoa(answer)
	options, err := BuildOptions(correct, pool, a.optionCount, rng)
	if err != nil {
		return domain.Question{}, err
	}
	return domain.Question{
		Prompt:  fmt.Sprintf("%d %s %d = ?", x, symbol, y),
		Answer:  correct,
		Options: options,
	}, nil
}

func (r operandRange) pick(rng *rand.Rand) int {
	return r.lo + rng.Intn(r.hi-r.lo+1)
}
