// Package categorize handles merchant categorization commands
package categorize

import (
	"fmt"

	"jaehyun/sms-ledger/cmd/root"

	"github.com/spf13/cobra"
)

var (
	merchant string
	body     string
	learn    string
)

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Look up or teach the category for a merchant",
	Long: `Run the categorization chain (learned mappings, keyword table, and the
Gemini model when enabled) for one merchant, or teach a mapping with
--learn so future imports categorize the merchant directly.`,
	RunE: categorizeFunc,
}

func init() {
	Cmd.Flags().StringVarP(&merchant, "merchant", "m", "", "Merchant name to categorize")
	Cmd.Flags().StringVarP(&body, "body", "b", "", "Optional notification text for keyword context")
	Cmd.Flags().StringVarP(&learn, "learn", "l", "", "Category to record for this merchant")
	_ = Cmd.MarkFlagRequired("merchant")
}

func categorizeFunc(cmd *cobra.Command, args []string) error {
	log := root.C.Logger()

	if learn != "" {
		root.C.DirectMapping().Update(merchant, learn)
		log.WithField("merchant", merchant).Info("Merchant mapping learned")
		fmt.Printf("%s → %s\n", merchant, learn)
		return nil
	}

	category, found := root.C.Categorizer().Categorize(cmd.Context(), merchant, body)
	if !found {
		fmt.Printf("No category found for %q.\n", merchant)
		return nil
	}
	fmt.Printf("%s → %s\n", merchant, category)
	return nil
}
