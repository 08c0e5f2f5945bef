package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"edu-games/internal/domain"
)

// NewLedgerCmd groups the ledger inspection commands.
func NewLedgerCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect or reset the score ledger",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print totals, best scores and achievements",
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
			printLedger(cmd.OutOrStdout(), d.ledger.Load(cmd.Context()))
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Erase all progress",
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
			d.ledger.Reset(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Ledger reset.")
			return nil
		},
	})
	return cmd
}

func printLedger(w io.Writer, l domain.PlayerLedger) {
	fmt.Fprintf(w, "Total points: %d\n", l.TotalPoints)
	fmt.Fprintf(w, "Games played: %d\n", l.GamesPlayed)
	if !l.LastPlayed.IsZero() {
		fmt.Fprintf(w, "Last played:  %s\n", l.LastPlayed.Format("2006-01-02 15:04"))
	}

	games := make([]string, 0, len(l.GameScores))
	for game := range l.GameScores {
		games = append(games, game)
	}
	sort.Strings(games)
	if len(games) > 0 {
		fmt.Fprintln(w, "Best scores:")
		for _, game := range games {
			fmt.Fprintf(w, "  %-20s %d\n", game, l.GameScores[game])
		}
	}
	if len(l.Achievements) > 0 {
		fmt.Fprintln(w, "Achievements:")
		for _, id := range l.Achievements {
			fmt.Fprintf(w, "  %s\n", domain.AchievementTitle(id))
		}
	}
}
