// Package summary handles the ledger summary command
package summary

import (
	"fmt"

	"jaehyun/sms-ledger/cmd/root"
	"jaehyun/sms-ledger/internal/ledger"

	"github.com/spf13/cobra"
)

// Cmd represents the summary command
var Cmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the stored expense count and total for the configured group",
	RunE:  summaryFunc,
}

func summaryFunc(cmd *cobra.Command, args []string) error {
	log := root.C.Logger()

	lgr, err := root.C.NewLedger()
	if err != nil {
		return err
	}
	defer func() {
		if err := lgr.Close(); err != nil {
			log.WithError(err).Warn("Failed to close ledger")
		}
	}()

	sq, ok := lgr.(*ledger.SQLiteLedger)
	if !ok {
		return fmt.Errorf("summary requires the sqlite ledger backend (configured: %s)", root.Cfg.Ledger.Backend)
	}

	ctx := cmd.Context()
	groupID := root.Cfg.Import.GroupID

	count, err := sq.CountByGroup(ctx, groupID)
	if err != nil {
		return err
	}
	total, err := sq.TotalByGroup(ctx, groupID)
	if err != nil {
		return err
	}

	fmt.Printf("Group %q: %d expense(s), %s원 total\n", groupID, count, total.String())
	return nil
}
