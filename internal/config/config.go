// Application configuration: structures, loading and validation. The
// credential cache is not part of this tree; it lives in its own narrow
// store under internal/credential.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration structure for the entire application.
type Config struct {
	Logger     LoggerConfig     `mapstructure:"logger"`
	Browser    BrowserConfig    `mapstructure:"browser"`
	Credential CredentialConfig `mapstructure:"credential"`
	Sheets     SheetsConfig     `mapstructure:"sheets"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
}

// ColorConfig defines the color settings for different log levels.
// These are used for console output to make logs more readable.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" json:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" json:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" json:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" json:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" json:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" json:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" json:"fatal" yaml:"fatal"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" json:"level" yaml:"level"`
	Format      string      `mapstructure:"format" json:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" json:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" json:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" json:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" json:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" json:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" json:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" json:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" json:"colors" yaml:"colors"`
}

// ViewportRange bounds the randomized window size drawn per session.
type ViewportRange struct {
	MinWidth  int `mapstructure:"min_width"`
	MaxWidth  int `mapstructure:"max_width"`
	MinHeight int `mapstructure:"min_height"`
	MaxHeight int `mapstructure:"max_height"`
}

// BrowserConfig holds settings for the automated browser instance.
type BrowserConfig struct {
	Headless  bool          `mapstructure:"headless"`
	Viewport  ViewportRange `mapstructure:"viewport"`
	Locale    string        `mapstructure:"locale"`
	UserAgent string        `mapstructure:"user_agent"`
}

// CredentialConfig holds settings for the bearer-credential acquisition core.
type CredentialConfig struct {
	// CacheFile is the shared settings document holding the cached token.
	CacheFile string `mapstructure:"cache_file"`
	// TTL is the maximum cached-credential age before a refresh.
	TTL time.Duration `mapstructure:"ttl"`
	// TargetURL is the storefront page carrying the token seed.
	TargetURL string `mapstructure:"target_url"`
	// ElementID identifies the input element to extract from.
	ElementID string `mapstructure:"element_id"`
	// ElementTimeout bounds waits for page content and the target element.
	ElementTimeout time.Duration `mapstructure:"element_timeout"`
	// ChallengeHold is the fixed wait after a challenge is detected.
	ChallengeHold time.Duration `mapstructure:"challenge_hold"`
	// DetectWindow bounds each challenge-detection probe cycle.
	DetectWindow time.Duration `mapstructure:"detect_window"`
}

// SheetsConfig holds the Google Sheets connection settings.
type SheetsConfig struct {
	CredentialsPath string `mapstructure:"credentials_path"`
	SheetID         string `mapstructure:"sheet_id"`
	WorksheetName   string `mapstructure:"worksheet_name"`
	StartRow        int    `mapstructure:"start_row"`
}

// CatalogConfig holds settings for the product-catalog API client.
type CatalogConfig struct {
	Endpoint        string        `mapstructure:"endpoint"`
	SubscriptionKey string        `mapstructure:"subscription_key"`
	Timeout         time.Duration `mapstructure:"timeout"`
	Top             int           `mapstructure:"top"`
	Workers         int           `mapstructure:"workers"`
}

// Load unmarshals and validates the configuration from Viper.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate rejects configurations that would misbehave at runtime rather
// than failing quietly later.
func (c *Config) Validate() error {
	if c.Credential.CacheFile == "" {
		return fmt.Errorf("credential.cache_file must be set")
	}
	if c.Credential.TTL <= 0 {
		return fmt.Errorf("credential.ttl must be positive, got %s", c.Credential.TTL)
	}
	if c.Credential.TargetURL == "" {
		return fmt.Errorf("credential.target_url must be set")
	}
	if c.Credential.ElementID == "" {
		return fmt.Errorf("credential.element_id must be set")
	}

	vp := c.Browser.Viewport
	if vp.MinWidth > vp.MaxWidth {
		return fmt.Errorf("browser.viewport: min_width %d exceeds max_width %d", vp.MinWidth, vp.MaxWidth)
	}
	if vp.MinHeight > vp.MaxHeight {
		return fmt.Errorf("browser.viewport: min_height %d exceeds max_height %d", vp.MinHeight, vp.MaxHeight)
	}

	if c.Catalog.Endpoint == "" {
		return fmt.Errorf("catalog.endpoint must be set")
	}
	if c.Catalog.Workers < 1 {
		return fmt.Errorf("catalog.workers must be at least 1, got %d", c.Catalog.Workers)
	}
	return nil
}

// ValidateRun checks the settings only the full pipeline needs. Acquiring a
// token alone requires neither the sheet nor the catalog gateway, so these
// live outside Validate.
func (c *Config) ValidateRun() error {
	if c.Catalog.SubscriptionKey == "" {
		return fmt.Errorf("catalog.subscription_key must be set")
	}
	if c.Sheets.SheetID == "" {
		return fmt.Errorf("sheets.sheet_id must be set")
	}
	if c.Sheets.CredentialsPath == "" {
		return fmt.Errorf("sheets.credentials_path must be set")
	}
	return nil
}
