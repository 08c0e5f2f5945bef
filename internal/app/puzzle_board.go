package app

import (
	"fmt"
	"math/rand"

	"edu-games/internal/domain"
)

const puzzleSide = 3

// PuzzleBoard is a 3x3 sliding puzzle. Tiles are numbered 1..8 and 0 is the blank;
// the solved layout is 1..8 followed by the blank.
type PuzzleBoard struct {
	tiles [puzzleSide * puzzleSide]int
	blank int
	moves int
}

// NewPuzzleBoard scrambles a solved board with random legal slides, so the result is
// always solvable. A positive scrambleMoves never yields an already solved board.
func NewPuzzleBoard(rng *rand.Rand, scrambleMoves int) *PuzzleBoard {
	b := &PuzzleBoard{}
	for i := range b.tiles {
		b.tiles[i] = (i + 1) % len(b.tiles)
	}
	b.blank = len(b.tiles) - 1

	prev := -1
	for i := 0; i < scrambleMoves || (scrambleMoves > 0 && b.Solved()); i++ {
		candidates := neighbors(b.blank)
		// Skip sliding the same tile straight back when there is another choice.
		if len(candidates) > 1 && prev >= 0 {
			filtered := candidates[:0]
			for _, c := range candidates {
				if c != prev {
					filtered = append(filtered, c)
				}
			}
			candidates = filtered
		}
		next := candidates[rng.Intn(len(candidates))]
		prev = b.blank
		b.swapBlank(next)
	}
	return b
}

// Move slides the tile at index into the blank.
func (b *PuzzleBoard) Move(index int) error {
	if b.Solved() {
		return fmt.Errorf("%w: puzzle already solved", domain.ErrInvalidMove)
	}
	if index < 0 || index >= len(b.tiles) {
		return fmt.Errorf("%w: index %d out of range", domain.ErrInvalidMove, index)
	}
	for _, n := range neighbors(b.blank) {
		if n == index {
			b.swapBlank(index)
			b.moves++
			return nil
		}
	}
	return fmt.Errorf("%w: tile %d is not next to the blank", domain.ErrInvalidMove, index)
}

func (b *PuzzleBoard) Solved() bool {
	for i, tile := range b.tiles {
		if tile != (i+1)%len(b.tiles) {
			return false
		}
	}
	return true
}

// Tiles returns the board in row-major order.
func (b *PuzzleBoard) Tiles() []int {
	return append([]int(nil), b.tiles[:]...)
}

func (b *PuzzleBoard) Blank() int { return b.blank }

func (b *PuzzleBoard) Moves() int { return b.moves }

// MovableTiles lists indexes that may be passed to Move.
func (b *PuzzleBoard) MovableTiles() []int {
	return neighbors(b.blank)
}

// Points is max(100-moves, 20) once solved and 0 before.
func (b *PuzzleBoard) Points() int {
	if !b.Solved() {
		return 0
	}
	return max(100-b.moves, 20)
}

func (b *PuzzleBoard) swapBlank(index int) {
	b.tiles[b.blank], b.tiles[index] = b.tiles[index], b.tiles[b.blank]
	b.blank = index
}

func neighbors(index int) []int {
	row, col := index/puzzleSide, index%puzzleSide
	out := make([]int, 0, 4)
	if row > 0 {
		out = append(out, index-puzzleSide)
	}
	if row < puzzleSide-1 {
		out = append(out, index+puzzleSide)
	}
	if col > 0 {
		out = append(out, index-1)
	}
	if col < puzzleSide-1 {
		out = append(out, index+1)
	}
	return out
}
