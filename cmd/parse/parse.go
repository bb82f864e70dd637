// Package parse handles the dry-run parsing command
package parse

import (
	"fmt"

	"jaehyun/sms-ledger/cmd/root"
	"jaehyun/sms-ledger/internal/prompt"

	"github.com/spf13/cobra"
)

var showAll bool

// Cmd represents the parse command
var Cmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse messages and show the extracted expense candidates",
	Long: `Fetch messages from the configured source, run each through the
notification parser, and print the extracted candidates without writing
anything to the ledger.`,
	RunE: parseFunc,
}

func init() {
	Cmd.Flags().BoolVarP(&showAll, "all", "a", false, "Also list messages that did not parse")
}

func parseFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := root.C.Logger()

	src, err := root.C.NewSource()
	if err != nil {
		return err
	}

	messages, err := src.FetchMessages(ctx)
	if err != nil {
		return fmt.Errorf("error fetching messages: %w", err)
	}

	parser := root.C.Parser()
	parsed := 0
	for _, msg := range messages {
		candidate := parser.Parse(ctx, msg)
		if candidate == nil {
			if showAll {
				fmt.Printf("%-8s  (no payment detected)  %s\n", msg.ID, truncate(msg.Body, 40))
			}
			continue
		}
		parsed++
		fmt.Printf("%-8s  %10s원  %-14s %-8s %3.0f%%  %s\n",
			msg.ID,
			prompt.FormatAmount(candidate.Amount),
			candidate.Merchant,
			candidate.Category,
			candidate.Confidence*100,
			candidate.Date.Format("2006-01-02"),
		)
	}

	log.WithField("parsed", parsed).Info("Parse run finished")
	fmt.Printf("\n%d of %d messages parsed as payment notifications\n", parsed, len(messages))
	return nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
