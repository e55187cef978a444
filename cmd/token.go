package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matt-mccartney/AvnetScraper/internal/observability"
)

var tokenForce bool

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a valid bearer credential, refreshing it if stale",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		log := observability.GetLogger().Named("token")

		ttl := cfg.Credential.TTL
		if tokenForce {
			// A zero TTL makes any cached credential stale, forcing a fresh
			// acquisition.
			ttl = 0
		}

		cred, err := newAcquirer(cfg).GetCredential(cmd.Context(), ttl)
		if err != nil {
			return err
		}

		log.Info("Credential ready",
			zap.Time("sourced_at", cred.SourcedAt),
			zap.Duration("age", time.Since(cred.SourcedAt).Round(time.Second)),
		)
		fmt.Fprintln(cmd.OutOrStdout(), cred.Value)
		return nil
	},
}

func init() {
	tokenCmd.Flags().BoolVar(&tokenForce, "force", false, "refresh even if the cached credential is still fresh")
}
