// Package root contains the root command for the application
package root

import (
	"fmt"

	"jaehyun/sms-ledger/internal/config"
	"jaehyun/sms-ledger/internal/container"

	"github.com/spf13/cobra"
)

var (
	// Cfg is the loaded configuration, available to all subcommands after
	// PersistentPreRunE has run.
	Cfg *config.Config

	// C is the wired dependency container, available to all subcommands
	// after PersistentPreRunE has run.
	C *container.Container

	// Persistent flag values. They override the corresponding config keys
	// only when the flag was set on the command line.
	SourceKind    string
	SourcePath    string
	LedgerBackend string
	LedgerPath    string
	PatternSet    string
	GroupID       string
	UserID        string
)

// Cmd is the root command
var Cmd = &cobra.Command{
	Use:   "sms-ledger",
	Short: "Parse Korean bank and card payment notifications into a ledger.",
	Long: `sms-ledger extracts expense candidates from SMS payment notifications
(Korean bank and card formats) and imports confirmed ones into a local
ledger, deduplicating by content fingerprint.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.LoadEnv()

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		applyFlagOverrides(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}

		c, err := container.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		Cfg = cfg
		C = c
		return nil
	},
	// Persist learned merchant mappings after any command finishes.
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if C == nil {
			return nil
		}
		if err := C.SaveMappings(); err != nil {
			return fmt.Errorf("error saving merchant mappings: %w", err)
		}
		return C.Close()
	},
}

// Init initializes the root command and all persistent flags
func Init() {
	Cmd.PersistentFlags().StringVar(&SourceKind, "source", "", "Message source: simulated, csv, or xml")
	Cmd.PersistentFlags().StringVarP(&SourcePath, "file", "f", "", "Path to the source file (csv and xml sources)")
	Cmd.PersistentFlags().StringVar(&LedgerBackend, "ledger", "", "Ledger backend: sqlite or memory")
	Cmd.PersistentFlags().StringVar(&LedgerPath, "db", "", "Path to the SQLite ledger database")
	Cmd.PersistentFlags().StringVar(&PatternSet, "patterns", "", "Pattern set: basic or advanced")
	Cmd.PersistentFlags().StringVar(&GroupID, "group", "", "Ledger group id for imported expenses")
	Cmd.PersistentFlags().StringVar(&UserID, "user", "", "Ledger user id for imported expenses")
}

// applyFlagOverrides copies explicitly-set persistent flags over the loaded
// configuration.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.Source.Kind = SourceKind
	}
	if flags.Changed("file") {
		cfg.Source.Path = SourcePath
	}
	if flags.Changed("ledger") {
		cfg.Ledger.Backend = LedgerBackend
	}
	if flags.Changed("db") {
		cfg.Ledger.Path = LedgerPath
	}
	if flags.Changed("patterns") {
		cfg.Import.PatternSet = PatternSet
	}
	if flags.Changed("group") {
		cfg.Import.GroupID = GroupID
	}
	if flags.Changed("user") {
		cfg.Import.UserID = UserID
	}
}
