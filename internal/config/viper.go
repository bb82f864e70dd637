package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Source struct {
		// Kind selects the message source implementation:
		// "simulated", "csv", or "xml".
		Kind string `mapstructure:"kind" yaml:"kind"`
		Path string `mapstructure:"path" yaml:"path"`
	} `mapstructure:"source" yaml:"source"`

	Ledger struct {
		// Backend selects the ledger implementation: "sqlite" or "memory".
		Backend string `mapstructure:"backend" yaml:"backend"`
		Path    string `mapstructure:"path" yaml:"path"`
	} `mapstructure:"ledger" yaml:"ledger"`

	AI struct {
		Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
		Model   string `mapstructure:"model" yaml:"model"`
		APIKey  string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
	} `mapstructure:"ai" yaml:"ai"`

	Import struct {
		GroupID    string `mapstructure:"group_id" yaml:"group_id"`
		UserID     string `mapstructure:"user_id" yaml:"user_id"`
		PatternSet string `mapstructure:"pattern_set" yaml:"pattern_set"` // "basic" or "advanced"
	} `mapstructure:"import" yaml:"import"`

	Patterns struct {
		IssuersFile    string `mapstructure:"issuers_file" yaml:"issuers_file"`
		CategoriesFile string `mapstructure:"categories_file" yaml:"categories_file"`
		MerchantsFile  string `mapstructure:"merchants_file" yaml:"merchants_file"`
	} `mapstructure:"patterns" yaml:"patterns"`
}

// Load initializes Viper configuration with hierarchical loading:
// defaults, then an optional config.yaml, then SMSLEDGER_* environment
// variables. Load does not validate: callers apply command-line overrides
// first and then call Validate, so a bad value in a config file can still
// be corrected from the command line.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.sms-ledger")
	v.AddConfigPath(".sms-ledger")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SMSLEDGER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
		// Config file not found is OK, defaults and env vars apply.
	}

	// The Gemini key is always taken from the conventional unprefixed variable.
	if err := v.BindEnv("ai.api_key", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind GEMINI_API_KEY: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks cross-field constraints that Viper cannot express.
func (c *Config) Validate() error {
	switch c.Source.Kind {
	case "simulated", "csv", "xml":
	default:
		return fmt.Errorf("unknown source kind %q (expected simulated, csv, or xml)", c.Source.Kind)
	}
	if c.Source.Kind != "simulated" && c.Source.Path == "" {
		return fmt.Errorf("source kind %q requires source.path", c.Source.Kind)
	}

	switch c.Ledger.Backend {
	case "sqlite", "memory":
	default:
		return fmt.Errorf("unknown ledger backend %q (expected sqlite or memory)", c.Ledger.Backend)
	}

	switch c.Import.PatternSet {
	case "basic", "advanced":
	default:
		return fmt.Errorf("unknown pattern set %q (expected basic or advanced)", c.Import.PatternSet)
	}

	if c.AI.Enabled && c.AI.APIKey == "" {
		return fmt.Errorf("ai.enabled is set but no GEMINI_API_KEY is configured")
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("source.kind", "simulated")
	v.SetDefault("source.path", "")

	v.SetDefault("ledger.backend", "sqlite")
	v.SetDefault("ledger.path", "sms-ledger.db")

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.model", "gemini-1.5-flash")

	v.SetDefault("import.group_id", "default")
	v.SetDefault("import.user_id", "default")
	v.SetDefault("import.pattern_set", "advanced")

	v.SetDefault("patterns.issuers_file", "issuers.yaml")
	v.SetDefault("patterns.categories_file", "categories.yaml")
	v.SetDefault("patterns.merchants_file", "merchants.yaml")
}
