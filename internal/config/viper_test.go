package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// Run from a temp dir so no developer config.yaml leaks in.
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "simulated", cfg.Source.Kind)
	assert.Equal(t, "sqlite", cfg.Ledger.Backend)
	assert.Equal(t, "advanced", cfg.Import.PatternSet)
	assert.False(t, cfg.AI.Enabled)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SMSLEDGER_LOG_LEVEL", "debug")
	t.Setenv("SMSLEDGER_IMPORT_PATTERN_SET", "basic")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "basic", cfg.Import.PatternSet)
}

func TestLoad_DoesNotRejectInvalidValues(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	content := "source:\n  kind: imap\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))

	// A bad value in the config file must still load, so command-line
	// overrides applied before Validate can correct it.
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "imap", cfg.Source.Kind)
	assert.Error(t, cfg.Validate())

	cfg.Source.Kind = "simulated"
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.Source.Kind = "simulated"
		cfg.Ledger.Backend = "memory"
		cfg.Import.PatternSet = "basic"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(*Config) {},
		},
		{
			name:    "unknown source kind",
			mutate:  func(c *Config) { c.Source.Kind = "imap" },
			wantErr: "unknown source kind",
		},
		{
			name:    "csv source without path",
			mutate:  func(c *Config) { c.Source.Kind = "csv" },
			wantErr: "requires source.path",
		},
		{
			name:    "unknown ledger backend",
			mutate:  func(c *Config) { c.Ledger.Backend = "postgres" },
			wantErr: "unknown ledger backend",
		},
		{
			name:    "unknown pattern set",
			mutate:  func(c *Config) { c.Import.PatternSet = "extended" },
			wantErr: "unknown pattern set",
		},
		{
			name:    "ai enabled without key",
			mutate:  func(c *Config) { c.AI.Enabled = true },
			wantErr: "GEMINI_API_KEY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
