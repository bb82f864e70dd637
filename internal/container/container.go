// Package container provides dependency injection for the sms-ledger
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"context"
	"fmt"

	"jaehyun/sms-ledger/internal/categorizer"
	"jaehyun/sms-ledger/internal/config"
	"jaehyun/sms-ledger/internal/ledger"
	"jaehyun/sms-ledger/internal/logging"
	"jaehyun/sms-ledger/internal/models"
	"jaehyun/sms-ledger/internal/session"
	"jaehyun/sms-ledger/internal/smsparser"
	"jaehyun/sms-ledger/internal/source"
	"jaehyun/sms-ledger/internal/store"
)

// Container holds all application dependencies and provides methods to
// access them. Dependencies are wired once at construction; the message
// source is selected here rather than through any process-wide flag, so a
// caller decides per container which source backs the session.
type Container struct {
	cfg    *config.Config
	logger logging.Logger
	store  *store.PatternStore

	patternSet  smsparser.PatternSet
	parser      *smsparser.Parser
	categorizer *categorizer.Categorizer
	direct      *categorizer.DirectMappingStrategy
	gemini      *categorizer.GeminiClient
}

// New creates and wires all application dependencies from the configuration.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	logger := logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)

	patternStore := store.NewPatternStore(
		cfg.Patterns.IssuersFile,
		cfg.Patterns.CategoriesFile,
		cfg.Patterns.MerchantsFile,
		logger,
	)

	patternSet, err := buildPatternSet(cfg, patternStore)
	if err != nil {
		return nil, err
	}

	categories, err := buildCategories(cfg, patternStore)
	if err != nil {
		return nil, err
	}

	mappings, err := patternStore.LoadMerchantMappings()
	if err != nil {
		return nil, fmt.Errorf("error loading merchant mappings: %w", err)
	}
	direct := categorizer.NewDirectMappingStrategy(mappings, logger)

	strategies := []categorizer.Strategy{
		direct,
		categorizer.NewKeywordStrategy(categories, patternSet.CaseSensitive, logger),
	}

	var gemini *categorizer.GeminiClient
	if cfg.AI.Enabled && cfg.AI.APIKey != "" {
		gemini, err = categorizer.NewGeminiClient(ctx, cfg.AI.APIKey, cfg.AI.Model, logger)
		if err != nil {
			return nil, fmt.Errorf("error creating Gemini client: %w", err)
		}
		strategies = append(strategies, categorizer.NewAIStrategy(gemini, categories, logger))
		logger.Info("AI categorization enabled")
	}

	cat := categorizer.New(logger, strategies...)
	parser := smsparser.New(patternSet, cat, logger)

	return &Container{
		cfg:         cfg,
		logger:      logger,
		store:       patternStore,
		patternSet:  patternSet,
		parser:      parser,
		categorizer: cat,
		direct:      direct,
		gemini:      gemini,
	}, nil
}

// buildPatternSet loads issuer patterns from the pattern store when an
// issuers file exists, falling back to the built-in set otherwise.
func buildPatternSet(cfg *config.Config, patternStore *store.PatternStore) (smsparser.PatternSet, error) {
	caseSensitive := cfg.Import.PatternSet == "basic"

	issuers, err := patternStore.LoadIssuers()
	if err != nil {
		return smsparser.PatternSet{}, fmt.Errorf("error loading issuer patterns: %w", err)
	}
	if issuers != nil {
		return smsparser.PatternSetFromIssuers(cfg.Import.PatternSet, issuers, caseSensitive)
	}
	return smsparser.PatternSetFor(cfg.Import.PatternSet)
}

// buildCategories loads the category table from the pattern store when a
// categories file exists, falling back to the built-in table otherwise.
func buildCategories(cfg *config.Config, patternStore *store.PatternStore) ([]models.CategoryConfig, error) {
	categories, err := patternStore.LoadCategories()
	if err != nil {
		return nil, fmt.Errorf("error loading categories: %w", err)
	}
	if categories != nil {
		return categories, nil
	}
	return smsparser.CategoriesFor(cfg.Import.PatternSet)
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config { return c.cfg }

// Logger returns the configured logger.
func (c *Container) Logger() logging.Logger { return c.logger }

// Store returns the pattern store.
func (c *Container) Store() *store.PatternStore { return c.store }

// Parser returns the notification parser.
func (c *Container) Parser() *smsparser.Parser { return c.parser }

// Categorizer returns the strategy-chain categorizer.
func (c *Container) Categorizer() *categorizer.Categorizer { return c.categorizer }

// DirectMapping returns the learned merchant-to-category mapping strategy.
func (c *Container) DirectMapping() *categorizer.DirectMappingStrategy { return c.direct }

// NewSource creates the message source selected by the configuration.
func (c *Container) NewSource() (source.MessageSource, error) {
	switch c.cfg.Source.Kind {
	case "simulated":
		return source.NewSimulatedSource(), nil
	case "csv":
		return source.NewCSVSource(c.cfg.Source.Path, c.logger), nil
	case "xml":
		return source.NewXMLBackupSource(c.cfg.Source.Path, c.logger), nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", c.cfg.Source.Kind)
	}
}

// NewLedger creates the ledger backend selected by the configuration. The
// caller owns the returned ledger and must Close it.
func (c *Container) NewLedger() (ledger.Ledger, error) {
	switch c.cfg.Ledger.Backend {
	case "memory":
		return ledger.NewMemoryLedger(), nil
	case "sqlite":
		return ledger.NewSQLiteLedger(c.cfg.Ledger.Path)
	default:
		return nil, fmt.Errorf("unknown ledger backend %q", c.cfg.Ledger.Backend)
	}
}

// NewSession creates an import session over the configured source and the
// given ledger.
func (c *Container) NewSession(src source.MessageSource, lgr ledger.Ledger) *session.Session {
	return session.New(src, c.parser, lgr, c.cfg.Import.GroupID, c.cfg.Import.UserID, c.logger)
}

// SaveMappings persists the learned merchant mappings when they changed.
func (c *Container) SaveMappings() error {
	if !c.direct.Dirty() {
		return nil
	}
	return c.store.SaveMerchantMappings(c.direct.Snapshot())
}

// Close releases held resources (currently only the Gemini client).
func (c *Container) Close() error {
	if c.gemini != nil {
		return c.gemini.Close()
	}
	return nil
}
