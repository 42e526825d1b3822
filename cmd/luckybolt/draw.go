package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/richinsley/luckybolt/lotto"
)

var drawCmd = &cobra.Command{
	Use:   "draw",
	Short: "Print draws without opening a window",
	Long: `Draw six numbers from 1 to 45 plus a bonus number and print them.

Examples:
  luckybolt draw
  luckybolt draw --count 5
  luckybolt draw --seed 42 --png ticket.png`,
	RunE: runDraw,
}

func init() {
	drawCmd.Flags().IntVarP(&opts.Count, "count", "n", opts.Count, "Number of draws")
	drawCmd.Flags().StringVar(&opts.PNG, "png", "", "Also save each draw as a PNG card")
}

func runDraw(cmd *cobra.Command, args []string) error {
	if opts.Count < 1 {
		return fmt.Errorf("count must be at least 1, got %d", opts.Count)
	}

	rng := lotto.NewRand(opts.Seed)
	styled := term.IsTerminal(int(os.Stdout.Fd()))

	for i := 0; i < opts.Count; i++ {
		d := lotto.Generate(rng)
		if styled {
			fmt.Fprintln(os.Stdout, lotto.Ticket(d))
		} else {
			fmt.Fprintln(os.Stdout, d)
		}

		if opts.PNG == "" {
			continue
		}
		path := cardPath(opts.PNG, i, opts.Count)
		if err := lotto.SaveCard(d, path); err != nil {
			return err
		}
		logger.Info("card saved", "path", path)
	}
	return nil
}

// cardPath numbers the files when more than one card is written:
// ticket.png becomes ticket-1.png, ticket-2.png, ...
func cardPath(base string, i, count int) string {
	if count == 1 {
		return base
	}
	ext := filepath.Ext(base)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(base, ext), i+1, ext)
}
