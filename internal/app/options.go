package app

import (
	"fmt"
	"math"
	"math/rand"

	"edu-games/internal/domain"
)

// Shuffle permutes items in place uniformly at random (Fisher–Yates).
func Shuffle[T any](rng *rand.Rand, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

// BuildOptions picks optionCount-1 distinct distractors from pool, adds the correct answer
// and returns them in random order. Values equal to correct and repeats in pool are skipped.
func BuildOptions(correct string, pool []string, optionCount int, rng *rand.Rand) ([]string, error) {
	if optionCount < 2 {
		return nil, fmt.Errorf("%w: optionCount %d < 2", domain.ErrInvalidConfig, optionCount)
	}

	eligible := make([]string, 0, len(pool))
	seen := map[string]struct{}{correct: {}}
	for _, candidate := range pool {
		if _, ok := seen[candidate]; ok {
			continue
		}
		seen[candidate] = struct{}{}
		eligible = append(eligible, candidate)
	}

	need := optionCount - 1
	if len(eligible) < need {
		return nil, fmt.Errorf("%w: need %d, have %d", domain.ErrInsufficientDistractors, need, len(eligible))
	}

	// Partial Fisher–Yates: the first `need` slots become a uniform sample.
	for i := 0; i < need; i++ {
		j := i + rng.Intn(len(eligible)-i)
		eligible[i], eligible[j] = eligible[j], eligible[i]
	}

	options := make([]string, 0, optionCount)
	options = append(options, eligible[:need]...)
	options = append(options, correct)
	Shuffle(rng, options)
	return options, nil
}

// PercentScore converts correct/total into a 0..100 score plus bonus, never negative.
func PercentScore(correct, total, bonus int) int {
	if total <= 0 {
		return max(0, bonus)
	}
	base := int(math.Round(float64(correct) / float64(total) * 100))
	return max(0, base+bonus)
}
