package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/troycsc/desk-services/internal/cardnum"
)

// swipeCmd runs the card number extractor on raw reader input
var swipeCmd = &cobra.Command{
	Use:   "swipe [raw...]",
	Short: "Extract a card number from raw swipe or keyboard input",
	Long: `Each argument is one read of the same card. With no arguments, reads
are taken one per line from stdin. When several reads are given the most
frequent valid number wins.`,
	RunE: runSwipe,
}

func runSwipe(cmd *cobra.Command, args []string) error {
	reads := args
	if len(reads) == 0 {
		sc := bufio.NewScanner(cmd.InOrStdin())
		for sc.Scan() {
			if line := strings.TrimSpace(sc.Text()); line != "" {
				reads = append(reads, line)
			}
		}
		if err := sc.Err(); err != nil {
			return err
		}
	}
	if len(reads) == 0 {
		return fmt.Errorf("no input")
	}

	out := cmd.OutOrStdout()
	for _, raw := range reads {
		number := cardnum.Extract(raw)
		kind := "manual"
		if cardnum.IsSwipe(raw) {
			kind = "swipe"
		}
		fmt.Fprintf(out, "%-6s %-14s valid=%t\n", kind, cardnum.Format(number), cardnum.IsValid(number))
	}

	if len(reads) > 1 {
		best := cardnum.Best(reads)
		if best == "" {
			return fmt.Errorf("no valid card number in %d reads", len(reads))
		}
		fmt.Fprintf(out, "best   %s\n", best)
	}
	return nil
}
