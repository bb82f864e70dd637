// Package importer handles the interactive import command
package importer

import (
	"errors"
	"fmt"
	"os"

	"jaehyun/sms-ledger/cmd/root"
	"jaehyun/sms-ledger/internal/ledger"
	"jaehyun/sms-ledger/internal/prompt"
	"jaehyun/sms-ledger/internal/session"

	"github.com/spf13/cobra"
)

var (
	acceptAll   bool
	autoApprove bool
)

// Cmd represents the import command
var Cmd = &cobra.Command{
	Use:   "import",
	Short: "Import parsed expenses into the ledger",
	Long: `Open an import session over the configured message source, show the
extracted expense candidates, and submit confirmed ones to the ledger.
Each expense is deduplicated by content fingerprint, both within the
session and against the ledger.`,
	RunE: importFunc,
}

func init() {
	Cmd.Flags().BoolVarP(&acceptAll, "all", "a", false, "Accept every visible candidate without per-item prompts")
	Cmd.Flags().BoolVarP(&autoApprove, "yes", "y", false, "Answer yes to every confirmation prompt")
}

func importFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := root.C.Logger()

	src, err := root.C.NewSource()
	if err != nil {
		return err
	}
	lgr, err := root.C.NewLedger()
	if err != nil {
		return err
	}
	defer func() {
		if err := lgr.Close(); err != nil {
			log.WithError(err).Warn("Failed to close ledger")
		}
	}()

	s := root.C.NewSession(src, lgr)
	defer s.Close()

	if err := s.Open(ctx); err != nil {
		return err
	}

	switch s.State() {
	case session.StatePermissionRequired:
		fmt.Printf("Cannot read messages from the %q source.\n", src.Name())
		fmt.Println("Grant access (or point --file at a readable export) and retry.")
		return nil
	case session.StateEmpty:
		fmt.Println("No messages found.")
		return nil
	}

	if acceptAll {
		return runBatch(cmd, s)
	}
	return runInteractive(cmd, s)
}

func runBatch(cmd *cobra.Command, s *session.Session) error {
	result := s.AcceptAll(cmd.Context())
	if result.Status == session.StatusNothingToAdd {
		fmt.Println("Nothing to add.")
		return nil
	}

	fmt.Printf("Accepted %d expense(s).\n", result.Accepted)
	if result.Err != nil {
		fmt.Printf("Stopped at candidate %d: %v\n", result.FailedIndex+1, result.Err)
		fmt.Println("Already-accepted items will not be re-submitted on retry.")
		return result.Err
	}
	return nil
}

func runInteractive(cmd *cobra.Command, s *session.Session) error {
	var confirmer prompt.Confirmer = prompt.NewTerminalConfirmer(os.Stdin, os.Stdout)
	if autoApprove {
		confirmer = prompt.AutoApprove{}
	}

	accepted := 0
	skipped := 0
	failed := 0
	for _, item := range s.Visible() {
		if !item.Parseable() {
			fmt.Printf("Could not auto-detect a payment in: %s\n\n", item.Message.Body)
			continue
		}

		ok, err := confirmer.Confirm(*item.Candidate)
		if err != nil {
			return err
		}
		if !ok {
			skipped++
			continue
		}

		result, err := s.AcceptOne(cmd.Context(), *item.Candidate)
		switch {
		case errors.Is(err, ledger.ErrDuplicate):
			fmt.Println("Already in the ledger, skipping.")
			skipped++
		case err != nil:
			fmt.Printf("Failed to add: %v (you can retry this item)\n", err)
			failed++
		case result.Status == session.StatusAlreadyAdded:
			fmt.Println("Already added this session.")
			skipped++
		default:
			fmt.Println("Added.")
			accepted++
		}
		fmt.Println()
	}

	fmt.Printf("Import finished: %d added, %d skipped, %d failed.\n", accepted, skipped, failed)
	return nil
}
