package app_test

import (
	"errors"
	"math/rand"
	"testing"

	"edu-games/internal/app"
	"edu-games/internal/domain"
)

func TestBuildOptionsExclusivity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pool := []string{"Biru", "Kuning", "Hijau", "Merah", "Biru", "Ungu", "Hijau"}
	for i := 0; i < 500; i++ {
		options, err := app.BuildOptions("Merah", pool, 4, rng)
		if err != nil {
			t.Fatalf("build options: %v", err)
		}
		if len(options) != 4 {
			t.Fatalf("expected 4 options, got %v", options)
		}
		seen := map[string]int{}
		for _, opt := range options {
			seen[opt]++
		}
		if seen["Merah"] != 1 {
			t.Fatalf("correct answer must appear once, got %v", options)
		}
		if len(seen) != len(options) {
			t.Fatalf("options must be distinct, got %v", options)
		}
	}
}

func TestBuildOptionsInsufficientDistractors(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, err := app.BuildOptions("Merah", []string{"Biru"}, 4, rng)
	if !errors.Is(err, domain.ErrInsufficientDistractors) {
		t.Fatalf("expected insufficient distractors, got %v", err)
	}

	// Duplicates and the correct answer itself do not count as distractors.
	_, err = app.BuildOptions("Merah", []string{"Biru", "Biru", "Merah", "Hijau"}, 4, rng)
	if !errors.Is(err, domain.ErrInsufficientDistractors) {
		t.Fatalf("expected insufficient distractors with repeats, got %v", err)
	}
}

func TestBuildOptionsRejectsTooFewOptions(t *testing.T) {
	_, err := app.BuildOptions("a", []string{"b", "c"}, 1, rand.New(rand.NewSource(1)))
	if !errors.Is(err, domain.ErrInvalidConfig) {
		t.Fatalf("expected invalid config, got %v", err)
	}
}

func TestBuildOptionsPositionIsUnbiased(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	const trials = 8000
	counts := make([]int, 4)
	for i := 0; i < trials; i++ {
		options, err := app.BuildOptions("x", []string{"a", "b", "c"}, 4, rng)
		if err != nil {
			t.Fatalf("build options: %v", err)
		}
		for pos, opt := range options {
			if opt == "x" {
				counts[pos]++
			}
		}
	}
	for pos, c := range counts {
		// Expected 2000 per slot; allow a generous band.
		if c < 1700 || c > 2300 {
			t.Fatalf("correct answer landed in slot %d %d times out of %d: %v", pos, c, trials, counts)
		}
	}
}

func TestShuffleKeepsElements(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6}
	app.Shuffle(rand.New(rand.NewSource(3)), items)
	sum := 0
	for _, v := range items {
		sum += v
	}
	if len(items) != 6 || sum != 21 {
		t.Fatalf("shuffle lost elements: %v", items)
	}
}

func TestPercentScore(t *testing.T) {
	cases := []struct {
		correct, total, bonus, want int
	}{
		{3, 4, 0, 75},
		{2, 3, 0, 67},
		{4, 4, 20, 120},
		{0, 4, -10, 0},
		{1, 0, 0, 0},
	}
	for _, tc := range cases {
		if got := app.PercentScore(tc.correct, tc.total, tc.bonus); got != tc.want {
			t.Fatalf("PercentScore(%d,%d,%d) = %d, want %d", tc.correct, tc.total, tc.bonus, got, tc.want)
		}
	}
}
