package config

import "github.com/spf13/viper"

// SetDefaults seeds every knob so the application can run with a minimal
// config file. The viewport and timing defaults mirror what the target page
// has historically tolerated; treat them as a snapshot, not a guarantee.
func SetDefaults(v *viper.Viper) {
	// Logger
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "avnetscraper")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "magenta")
	v.SetDefault("logger.colors.info", "cyan")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "red")
	v.SetDefault("logger.colors.panic", "red")
	v.SetDefault("logger.colors.fatal", "red")

	// Browser
	v.SetDefault("browser.headless", false)
	v.SetDefault("browser.viewport.min_width", 1200)
	v.SetDefault("browser.viewport.max_width", 1400)
	v.SetDefault("browser.viewport.min_height", 700)
	v.SetDefault("browser.viewport.max_height", 900)
	v.SetDefault("browser.locale", "en-US")

	// Credential acquisition
	v.SetDefault("credential.cache_file", "config.json")
	v.SetDefault("credential.ttl", "30m")
	v.SetDefault("credential.target_url", "https://www.avnet.com/americas/")
	v.SetDefault("credential.element_id", "randomVal")
	v.SetDefault("credential.element_timeout", "20s")
	v.SetDefault("credential.challenge_hold", "60s")
	v.SetDefault("credential.detect_window", "5s")

	// Sheets. The secret-bearing keys default to empty but must still be
	// seeded: viper's Unmarshal only sees keys it can enumerate, and
	// AutomaticEnv registers none, so an env-only value for an unseeded key
	// would be silently dropped.
	v.SetDefault("sheets.credentials_path", "")
	v.SetDefault("sheets.sheet_id", "")
	v.SetDefault("sheets.worksheet_name", "Sheet1")
	v.SetDefault("sheets.start_row", 2)

	// Catalog API
	v.SetDefault("catalog.endpoint", "https://apigw.avnet.com/external/fspmicro-application-amer/api/application/product/search")
	v.SetDefault("catalog.subscription_key", "")
	v.SetDefault("catalog.timeout", "30s")
	v.SetDefault("catalog.top", 5)
	v.SetDefault("catalog.workers", 1)
}
