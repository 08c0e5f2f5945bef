package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"edu-games/internal/app"
	"edu-games/internal/content"
	"edu-games/internal/domain"
)

const (
	gamePuzzle = "puzzle-game"
	gameMemory = "memory-animals"
)

type playOptions struct {
	difficulty string
	questions  int
	options    int
	lives      int
	pairs      int
	scramble   int
}

// NewPlayCmd plays one game in the terminal and records it in the ledger.
func NewPlayCmd(configPath *string) *cobra.Command {
	opts := playOptions{}
	cmd := &cobra.Command{
		Use:   "play <gameId>",
		Short: "Play a game in the terminal (math-adventure, a topic id, puzzle-game, memory-animals)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			d, err := buildDeps(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer d.Close()

			t := &terminal{in: bufio.NewScanner(cmd.InOrStdin()), out: cmd.OutOrStdout()}
			before := d.ledger.Load(cmd.Context())
			var after domain.PlayerLedger
			switch args[0] {
			case gamePuzzle:
				after, err = playPuzzle(cmd.Context(), t, d.ledger, opts)
			case gameMemory:
				after, err = playMemory(cmd.Context(), t, d.ledger, opts)
			default:
				after, err = playQuiz(cmd.Context(), t, d.service, args[0], opts)
			}
			if err != nil {
				return err
			}
			printUnlocked(t.out, before, after)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.difficulty, "difficulty", "easy", "math difficulty: easy, medium, hard")
	cmd.Flags().IntVar(&opts.questions, "questions", 10, "questions per session")
	cmd.Flags().IntVar(&opts.options, "options", 4, "answer choices per question")
	cmd.Flags().IntVar(&opts.lives, "lives", 3, "lives per session, 0 for unlimited")
	cmd.Flags().IntVar(&opts.pairs, "pairs", 6, "card pairs for memory-animals")
	cmd.Flags().IntVar(&opts.scramble, "scramble", 100, "scramble moves for puzzle-game")
	return cmd
}

var errQuit = errors.New("game abandoned")

type terminal struct {
	in  *bufio.Scanner
	out io.Writer
}

func (t *terminal) readLine() (string, error) {
	if !t.in.Scan() {
		if err := t.in.Err(); err != nil {
			return "", err
		}
		return "", errQuit
	}
	return strings.TrimSpace(t.in.Text()), nil
}

func playQuiz(ctx context.Context, t *terminal, service *app.PlayService, gameID string, opts playOptions) (domain.PlayerLedger, error) {
	id, snap, err := service.Start(ctx, domain.GameRequest{
		GameID:     gameID,
		Difficulty: domain.Difficulty(opts.difficulty),
		Config: domain.SessionConfig{
			QuestionCount: opts.questions,
			MaxLives:      opts.lives,
			OptionCount:   opts.options,
		},
	})
	if err != nil {
		return domain.PlayerLedger{}, err
	}

	for snap.Status == domain.StatusInProgress {
		printQuestion(t.out, snap)
		line, err := t.readLine()
		if err != nil {
			service.Abandon(ctx, id)
			return domain.PlayerLedger{}, err
		}
		res, next, err := service.Submit(ctx, id, pickOption(line, snap.Options))
		if err != nil {
			service.Abandon(ctx, id)
			return domain.PlayerLedger{}, err
		}
		if res.Outcome == domain.OutcomeCorrect {
			fmt.Fprintf(t.out, "Correct! +%d (score %d)\n", res.Awarded, res.Score)
		} else {
			fmt.Fprintf(t.out, "Not quite, the answer was %s.\n", res.CorrectAnswer)
		}
		snap = next
	}

	result, ledger, err := service.Finish(ctx, id)
	if err != nil {
		return domain.PlayerLedger{}, err
	}
	verdict := "You won!"
	if !result.Completed {
		verdict = "Out of lives."
	}
	fmt.Fprintf(t.out, "%s Final score %d after %d attempt(s).\n", verdict, result.FinalScore, result.Attempts)
	return ledger, nil
}

func printQuestion(w io.Writer, snap domain.Snapshot) {
	fmt.Fprintf(w, "\nQuestion %d/%d", snap.Index+1, snap.Total)
	if snap.MaxLives > 0 {
		fmt.Fprintf(w, "  lives %s", strings.Repeat("♥", snap.LivesRemaining))
	}
	fmt.Fprintln(w)
	if snap.Visual != "" {
		fmt.Fprintln(w, snap.Visual)
	}
	fmt.Fprintln(w, snap.Prompt)
	for i, opt := range snap.Options {
		fmt.Fprintf(w, "  %d) %s\n", i+1, opt)
	}
	fmt.Fprint(w, "> ")
}

// pickOption maps a 1-based choice to its option; anything else is taken as the answer text.
func pickOption(line string, options []string) string {
	if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(options) {
		return options[n-1]
	}
	for _, opt := range options {
		if strings.EqualFold(opt, line) {
			return opt
		}
	}
	return line
}

func playPuzzle(ctx context.Context, t *terminal, ledger *app.ScoreLedger, opts playOptions) (domain.PlayerLedger, error) {
	board := app.NewPuzzleBoard(newRand(), opts.scramble)
	for !board.Solved() {
		printPuzzle(t.out, board)
		line, err := t.readLine()
		if err != nil {
			return domain.PlayerLedger{}, err
		}
		tile, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintln(t.out, "Type the number of a tile next to the gap.")
			continue
		}
		if err := board.Move(indexOfTile(board.Tiles(), tile)); err != nil {
			fmt.Fprintln(t.out, "That tile cannot move.")
		}
	}
	fmt.Fprintf(t.out, "Solved in %d moves for %d points!\n", board.Moves(), board.Points())
	return ledger.Record(ctx, gamePuzzle, board.Points(), true, 1), nil
}

func printPuzzle(w io.Writer, board *app.PuzzleBoard) {
	tiles := board.Tiles()
	fmt.Fprintln(w)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			if v := tiles[row*3+col]; v == 0 {
				fmt.Fprint(w, "  .")
			} else {
				fmt.Fprintf(w, "%3d", v)
			}
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "moves %d > ", board.Moves())
}

func indexOfTile(tiles []int, tile int) int {
	for i, v := range tiles {
		if v == tile && tile != 0 {
			return i
		}
	}
	return -1
}

func playMemory(ctx context.Context, t *terminal, ledger *app.ScoreLedger, opts playOptions) (domain.PlayerLedger, error) {
	rng := newRand()
	symbols := append([]string(nil), content.Animals...)
	app.Shuffle(rng, symbols)
	board, err := app.NewMemoryBoard(symbols, opts.pairs, rng)
	if err != nil {
		return domain.PlayerLedger{}, err
	}
	for !board.Done() {
		printCards(t.out, board.Cards())
		line, err := t.readLine()
		if err != nil {
			return domain.PlayerLedger{}, err
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintln(t.out, "Type a card number.")
			continue
		}
		res, err := board.Flip(n - 1)
		if err != nil {
			fmt.Fprintln(t.out, "Pick a face-down card.")
			continue
		}
		switch {
		case res.Match:
			fmt.Fprintf(t.out, "Pair of %s!\n", res.Symbol)
		case res.Pair:
			fmt.Fprintln(t.out, "No match.")
		}
	}
	fmt.Fprintf(t.out, "All pairs found in %d moves for %d points!\n", board.Moves(), board.Score())
	return ledger.Record(ctx, gameMemory, board.Score(), true, 1), nil
}

func printCards(w io.Writer, cards []app.Card) {
	fmt.Fprintln(w)
	for i, c := range cards {
		face := "▢"
		if c.Symbol != "" {
			face = c.Symbol
		}
		fmt.Fprintf(w, "%2d:%s ", i+1, face)
		if (i+1)%4 == 0 {
			fmt.Fprintln(w)
		}
	}
	fmt.Fprint(w, "\n> ")
}

func printUnlocked(w io.Writer, before, after domain.PlayerLedger) {
	for _, id := range after.Achievements {
		if !before.HasAchievement(id) {
			fmt.Fprintf(w, "Achievement unlocked: %s\n", domain.AchievementTitle(id))
		}
	}
	fmt.Fprintf(w, "Total points %d over %d games.\n", after.TotalPoints, after.GamesPlayed)
}

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
