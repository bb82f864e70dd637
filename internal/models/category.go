package models

// CategoryConfig is one entry of the ordered category keyword table.
// Categories are evaluated in file order; the first category whose keyword
// list matches wins.
type CategoryConfig struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// CategoriesConfig is the top-level structure of the categories YAML file.
type CategoriesConfig struct {
	Categories []CategoryConfig `yaml:"categories"`
}

// IssuerConfig describes one issuer-specific amount pattern. Pattern is a
// regular expression whose first non-empty capture group is the amount text.
// Lower Priority means a more trusted issuer and a higher confidence bonus.
type IssuerConfig struct {
	Name     string `yaml:"name"`
	Pattern  string `yaml:"pattern"`
	Priority int    `yaml:"priority"`
}

// IssuersConfig is the top-level structure of the issuers YAML file.
type IssuersConfig struct {
	Issuers []IssuerConfig `yaml:"issuers"`
}

// MerchantsConfig is the top-level structure of the learned
// merchant-to-category mapping YAML file.
type MerchantsConfig struct {
	Merchants map[string]string `yaml:"merchants"`
}
