package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultedViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(defaultedViper(t))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "config.json", cfg.Credential.CacheFile)
	assert.Equal(t, 30*time.Minute, cfg.Credential.TTL)
	assert.Equal(t, "randomVal", cfg.Credential.ElementID)
	assert.Equal(t, 60*time.Second, cfg.Credential.ChallengeHold)
	assert.Equal(t, 1200, cfg.Browser.Viewport.MinWidth)
	assert.Equal(t, 1400, cfg.Browser.Viewport.MaxWidth)
	assert.Equal(t, 1, cfg.Catalog.Workers)
	assert.Equal(t, 2, cfg.Sheets.StartRow)
}

func TestLoadOverrides(t *testing.T) {
	v := defaultedViper(t)
	v.Set("credential.ttl", "15m")
	v.Set("browser.headless", true)
	v.Set("catalog.workers", 3)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, cfg.Credential.TTL)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 3, cfg.Catalog.Workers)
}

func TestLoadFromEnvironmentOnly(t *testing.T) {
	// Secrets are commonly supplied through the environment alone, with no
	// config file entry. They must still survive Load, which requires every
	// such key to carry a seeded default.
	t.Setenv("AVNET_CATALOG_SUBSCRIPTION_KEY", "env-sub-key")
	t.Setenv("AVNET_SHEETS_SHEET_ID", "env-sheet-id")
	t.Setenv("AVNET_SHEETS_CREDENTIALS_PATH", "env-creds.json")

	v := defaultedViper(t)
	v.SetEnvPrefix("AVNET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "env-sub-key", cfg.Catalog.SubscriptionKey)
	assert.Equal(t, "env-sheet-id", cfg.Sheets.SheetID)
	assert.Equal(t, "env-creds.json", cfg.Sheets.CredentialsPath)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(v *viper.Viper)
		wantErr string
	}{
		{
			name:    "zero ttl",
			mutate:  func(v *viper.Viper) { v.Set("credential.ttl", "0s") },
			wantErr: "credential.ttl",
		},
		{
			name:    "empty target url",
			mutate:  func(v *viper.Viper) { v.Set("credential.target_url", "") },
			wantErr: "credential.target_url",
		},
		{
			name:    "empty element id",
			mutate:  func(v *viper.Viper) { v.Set("credential.element_id", "") },
			wantErr: "credential.element_id",
		},
		{
			name:    "inverted viewport width range",
			mutate:  func(v *viper.Viper) { v.Set("browser.viewport.max_width", 800) },
			wantErr: "min_width",
		},
		{
			name:    "zero catalog workers",
			mutate:  func(v *viper.Viper) { v.Set("catalog.workers", 0) },
			wantErr: "catalog.workers",
		},
		{
			name:    "empty cache file",
			mutate:  func(v *viper.Viper) { v.Set("credential.cache_file", "") },
			wantErr: "credential.cache_file",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := defaultedViper(t)
			tc.mutate(v)
			_, err := Load(v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestValidateRun(t *testing.T) {
	complete := func(t *testing.T) *Config {
		t.Helper()
		v := defaultedViper(t)
		v.Set("catalog.subscription_key", "sub-key")
		v.Set("sheets.sheet_id", "sheet-id")
		v.Set("sheets.credentials_path", "service-account.json")
		cfg, err := Load(v)
		require.NoError(t, err)
		return cfg
	}

	t.Run("complete pipeline config passes", func(t *testing.T) {
		assert.NoError(t, complete(t).ValidateRun())
	})

	t.Run("missing subscription key is rejected up front", func(t *testing.T) {
		cfg := complete(t)
		cfg.Catalog.SubscriptionKey = ""
		err := cfg.ValidateRun()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "catalog.subscription_key")
	})

	t.Run("missing sheet id is rejected up front", func(t *testing.T) {
		cfg := complete(t)
		cfg.Sheets.SheetID = ""
		err := cfg.ValidateRun()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sheets.sheet_id")
	})

	t.Run("missing credentials path is rejected up front", func(t *testing.T) {
		cfg := complete(t)
		cfg.Sheets.CredentialsPath = ""
		err := cfg.ValidateRun()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sheets.credentials_path")
	})

	t.Run("token-only settings are not required", func(t *testing.T) {
		// Validate alone must keep passing without pipeline secrets, since
		// the token subcommand needs neither the sheet nor the gateway key.
		cfg, err := Load(defaultedViper(t))
		require.NoError(t, err)
		assert.Empty(t, cfg.Catalog.SubscriptionKey)
	})
}
