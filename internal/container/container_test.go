package container

import (
	"context"
	"os"
	"testing"

	"jaehyun/sms-ledger/internal/config"
	"jaehyun/sms-ledger/internal/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Log.Level = "error"
	cfg.Log.Format = "text"
	cfg.Source.Kind = "simulated"
	cfg.Ledger.Backend = "memory"
	cfg.Import.GroupID = "group-1"
	cfg.Import.UserID = "user-1"
	cfg.Import.PatternSet = "advanced"
	cfg.Patterns.IssuersFile = "issuers.yaml"
	cfg.Patterns.CategoriesFile = "categories.yaml"
	cfg.Patterns.MerchantsFile = "merchants.yaml"
	return cfg
}

func TestNew_NilConfig(t *testing.T) {
	_, err := New(context.Background(), nil)
	assert.Error(t, err)
}

func TestNew_DefaultWiring(t *testing.T) {
	t.Chdir(t.TempDir())

	c, err := New(context.Background(), testConfig())
	require.NoError(t, err)
	defer func() { require.NoError(t, c.Close()) }()

	assert.NotNil(t, c.Parser())
	assert.NotNil(t, c.Categorizer())
	assert.NotNil(t, c.DirectMapping())

	src, err := c.NewSource()
	require.NoError(t, err)
	assert.Equal(t, "simulated", src.Name())

	lgr, err := c.NewLedger()
	require.NoError(t, err)
	defer func() { require.NoError(t, lgr.Close()) }()
	_, ok := lgr.(*ledger.MemoryLedger)
	assert.True(t, ok)

	s := c.NewSession(src, lgr)
	require.NoError(t, s.Open(context.Background()))
	assert.NotEmpty(t, s.Items())
}

func TestNew_IssuerFileOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	issuers := `issuers:
  - name: 테스트카드
    priority: 1
`
	require.NoError(t, os.WriteFile("issuers.yaml", []byte(issuers), 0o600))

	c, err := New(context.Background(), testConfig())
	require.NoError(t, err)
	defer func() { require.NoError(t, c.Close()) }()

	require.Len(t, c.patternSet.Issuers, 1)
	assert.Equal(t, "테스트카드", c.patternSet.Issuers[0].Name)
}

func TestNew_SQLiteLedger(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg := testConfig()
	cfg.Ledger.Backend = "sqlite"
	cfg.Ledger.Path = "ledger.db"

	c, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer func() { require.NoError(t, c.Close()) }()

	lgr, err := c.NewLedger()
	require.NoError(t, err)
	require.NoError(t, lgr.Close())
}

func TestContainer_SaveMappings(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	c, err := New(context.Background(), testConfig())
	require.NoError(t, err)
	defer func() { require.NoError(t, c.Close()) }()

	// Clean mappings: nothing to write.
	require.NoError(t, c.SaveMappings())

	c.DirectMapping().Update("스타벅스", "식비")
	require.NoError(t, c.SaveMappings())

	mappings, err := c.Store().LoadMerchantMappings()
	require.NoError(t, err)
	assert.Equal(t, "식비", mappings["스타벅스"])
}
