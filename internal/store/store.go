// Package store provides loading and saving of the YAML pattern tables:
// issuer amount patterns, the ordered category keyword table, and the
// learned merchant-to-category mappings.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"jaehyun/sms-ledger/internal/logging"
	"jaehyun/sms-ledger/internal/models"

	"gopkg.in/yaml.v3"
)

// PatternStore manages loading and saving of pattern table data.
// Missing files are not errors: the caller falls back to the built-in
// tables so the binary works without any configuration on disk.
type PatternStore struct {
	IssuersFile    string
	CategoriesFile string
	MerchantsFile  string
	logger         logging.Logger
}

// NewPatternStore creates a new store for pattern-related data.
func NewPatternStore(issuersFile, categoriesFile, merchantsFile string, logger logging.Logger) *PatternStore {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &PatternStore{
		IssuersFile:    issuersFile,
		CategoriesFile: categoriesFile,
		MerchantsFile:  merchantsFile,
		logger:         logger,
	}
}

// FindConfigFile looks for a configuration file in standard locations.
func (s *PatternStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".config", "sms-ledger", filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

// LoadIssuers loads issuer amount patterns from the YAML file.
// Returns nil (not an error) when the file does not exist.
func (s *PatternStore) LoadIssuers() ([]models.IssuerConfig, error) {
	filename := s.IssuersFile
	if filename == "" {
		filename = "issuers.yaml"
	}

	data, found, err := s.readConfigFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading issuers file: %w", err)
	}
	if !found {
		s.logger.WithField("file", filename).Debug("Issuers file not found, using built-in patterns")
		return nil, nil
	}

	var cfg models.IssuersConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing issuers file: %w", err)
	}

	s.logger.WithFields(
		logging.Field{Key: "file", Value: filename},
		logging.Field{Key: logging.FieldCount, Value: len(cfg.Issuers)},
	).Debug("Loaded issuer patterns")
	return cfg.Issuers, nil
}

// LoadCategories loads the ordered category keyword table from the YAML file.
// Returns nil (not an error) when the file does not exist. The file may use
// either the wrapped "categories:" document or a bare list.
func (s *PatternStore) LoadCategories() ([]models.CategoryConfig, error) {
	filename := s.CategoriesFile
	if filename == "" {
		filename = "categories.yaml"
	}

	data, found, err := s.readConfigFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading categories file: %w", err)
	}
	if !found {
		s.logger.WithField("file", filename).Debug("Categories file not found, using built-in table")
		return nil, nil
	}

	var cfg models.CategoriesConfig
	if err := yaml.Unmarshal(data, &cfg); err == nil && len(cfg.Categories) > 0 {
		return cfg.Categories, nil
	}

	// Fallback: a bare list without the top-level key.
	var categories []models.CategoryConfig
	if err := yaml.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("error parsing categories file: %w", err)
	}
	return categories, nil
}

// LoadMerchantMappings loads the learned merchant-to-category mappings.
// Returns an empty map (not an error) when the file does not exist.
func (s *PatternStore) LoadMerchantMappings() (map[string]string, error) {
	filename := s.MerchantsFile
	if filename == "" {
		filename = "merchants.yaml"
	}

	data, found, err := s.readConfigFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading merchants file: %w", err)
	}
	if !found {
		return map[string]string{}, nil
	}

	var cfg models.MerchantsConfig
	if err := yaml.Unmarshal(data, &cfg); err == nil && cfg.Merchants != nil {
		return cfg.Merchants, nil
	}

	// Fallback: a bare map without the top-level key.
	mappings := make(map[string]string)
	if err := yaml.Unmarshal(data, &mappings); err != nil {
		return nil, fmt.Errorf("error parsing merchants file: %w", err)
	}
	return mappings, nil
}

// SaveMerchantMappings writes the learned merchant-to-category mappings back
// to disk, creating the file in the user config directory when it does not
// exist yet.
func (s *PatternStore) SaveMerchantMappings(mappings map[string]string) error {
	filename := s.MerchantsFile
	if filename == "" {
		filename = "merchants.yaml"
	}

	path, err := s.FindConfigFile(filename)
	if err != nil {
		homeDir, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return fmt.Errorf("cannot determine config location: %w", homeErr)
		}
		configDir := filepath.Join(homeDir, ".config", "sms-ledger")
		if err := os.MkdirAll(configDir, 0o750); err != nil {
			return fmt.Errorf("cannot create config directory: %w", err)
		}
		path = filepath.Join(configDir, filepath.Base(filename))
	}

	data, err := yaml.Marshal(models.MerchantsConfig{Merchants: mappings})
	if err != nil {
		return fmt.Errorf("error marshaling merchant mappings: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("error writing merchants file: %w", err)
	}

	s.logger.WithFields(
		logging.Field{Key: "file", Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(mappings)},
	).Debug("Saved merchant mappings")
	return nil
}

// readConfigFile resolves and reads one config file. The second return value
// is false when the file does not exist anywhere in the lookup chain.
func (s *PatternStore) readConfigFile(filename string) ([]byte, bool, error) {
	path, err := s.FindConfigFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}
