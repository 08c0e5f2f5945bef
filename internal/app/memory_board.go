package app

import (
	"fmt"
	"math/rand"

	"edu-games/internal/domain"
)

// Card is one face-down or revealed tile of a memory board.
type Card struct {
	Symbol   string `json:"symbol,omitempty"`
	Revealed bool   `json:"revealed"`
	Matched  bool   `json:"matched"`
}

// FlipResult reports what a flip revealed. Match is only meaningful when Pair is set.
type FlipResult struct {
	Symbol string `json:"symbol"`
	Pair   bool   `json:"pair"`
	Match  bool   `json:"match"`
	Done   bool   `json:"done"`
}

// MemoryBoard is a pair-matching game. A mismatched pair stays visible until the next flip.
type MemoryBoard struct {
	cards   []Card
	open    []int
	pairs   int
	matches int
	moves   int
}

// NewMemoryBoard deals two cards for each of the first `pairs` distinct symbols.
func NewMemoryBoard(symbols []string, pairs int, rng *rand.Rand) (*MemoryBoard, error) {
	if pairs < 1 {
		return nil, fmt.Errorf("%w: pairs must be positive, got %d", domain.ErrInvalidConfig, pairs)
	}
	chosen := make([]string, 0, pairs)
	seen := make(map[string]struct{}, pairs)
	for _, s := range symbols {
		if len(chosen) == pairs {
			break
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		chosen = append(chosen, s)
	}
	if len(chosen) < pairs {
		return nil, fmt.Errorf("%w: %d distinct symbols for %d pairs", domain.ErrInvalidConfig, len(chosen), pairs)
	}

	cards := make([]Card, 0, 2*pairs)
	for _, s := range chosen {
		cards = append(cards, Card{Symbol: s}, Card{Symbol: s})
	}
	Shuffle(rng, cards)
	return &MemoryBoard{cards: cards, pairs: pairs}, nil
}

// Flip reveals card i. Every second flip counts as one move.
func (b *MemoryBoard) Flip(i int) (FlipResult, error) {
	if i < 0 || i >= len(b.cards) {
		return FlipResult{}, fmt.Errorf("%w: card %d out of range", domain.ErrInvalidMove, i)
	}
	if len(b.open) == 2 {
		for _, j := range b.open {
			b.cards[j].Revealed = false
		}
		b.open = b.open[:0]
	}
	if b.cards[i].Matched || b.cards[i].Revealed {
		return FlipResult{}, fmt.Errorf("%w: card %d already face up", domain.ErrInvalidMove, i)
	}

	b.cards[i].Revealed = true
	b.open = append(b.open, i)
	res := FlipResult{Symbol: b.cards[i].Symbol}
	if len(b.open) < 2 {
		return res, nil
	}

	b.moves++
	res.Pair = true
	first, second := b.open[0], b.open[1]
	if b.cards[first].Symbol == b.cards[second].Symbol {
		b.cards[first].Matched = true
		b.cards[second].Matched = true
		b.open = b.open[:0]
		b.matches++
		res.Match = true
	}
	res.Done = b.Done()
	return res, nil
}

// Cards returns the board as the player sees it; face-down symbols are blank.
func (b *MemoryBoard) Cards() []Card {
	out := make([]Card, len(b.cards))
	for i, c := range b.cards {
		out[i] = c
		if !c.Revealed && !c.Matched {
			out[i].Symbol = ""
		}
	}
	return out
}

func (b *MemoryBoard) Done() bool { return b.matches == b.pairs }

func (b *MemoryBoard) Moves() int { return b.moves }

func (b *MemoryBoard) Matches() int { return b.matches }

// Score is the percentage of pairs found plus max(0, 100-5*moves).
func (b *MemoryBoard) Score() int {
	return PercentScore(b.matches, b.pairs, max(0, 100-b.moves*5))
}
