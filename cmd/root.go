// Package cmd wires configuration, logging and the domain packages into the
// CLI surface.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matt-mccartney/AvnetScraper/internal/browser"
	"github.com/matt-mccartney/AvnetScraper/internal/config"
	"github.com/matt-mccartney/AvnetScraper/internal/credential"
	"github.com/matt-mccartney/AvnetScraper/internal/observability"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "avnetscraper",
	Short: "Avnet catalog scraper with authenticated session management",
	Long: `avnetscraper maintains a short-lived bearer credential harvested from
the Avnet storefront, keeps it cached between runs, and uses it to query
the product catalog for part numbers held in a Google Sheet.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./avnetscraper.yaml)")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the CLI with the given base context.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// setup loads configuration from defaults, an optional config file and the
// environment, then initializes the global logger. Every subcommand calls it
// first.
func setup() (*config.Config, error) {
	v := viper.New()
	config.SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("avnetscraper")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("AVNET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// No config file is fine, defaults plus environment cover a full run.
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}

	observability.InitializeLogger(cfg.Logger)
	return cfg, nil
}

// newAcquirer assembles the credential acquisition pipeline: a file-backed
// store plus a factory that spins up one fresh stealth browser session per
// acquisition attempt.
func newAcquirer(cfg *config.Config) *credential.Acquirer {
	logger := observability.GetLogger()
	store := credential.NewFileStore(cfg.Credential.CacheFile, logger)

	factory := func(ctx context.Context) (credential.Extractor, error) {
		return browser.NewSession(ctx, cfg.Browser, browser.Options{
			ElementID:      cfg.Credential.ElementID,
			ElementTimeout: cfg.Credential.ElementTimeout,
			ChallengeHold:  cfg.Credential.ChallengeHold,
			DetectWindow:   cfg.Credential.DetectWindow,
			Signals:        browser.DefaultSignals(),
		}, logger)
	}

	return credential.NewAcquirer(store, factory, cfg.Credential.TargetURL, logger)
}
