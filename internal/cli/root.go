package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/partydeck/playerlink/internal/client"
	"github.com/partydeck/playerlink/internal/client/identity"
	"github.com/partydeck/playerlink/internal/client/invalidation"
)

var (
	cfg       *Config
	apiClient *client.Client
	ids       identity.Store
	signals   *invalidation.Bus
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "playerlink",
		Short: "CLI tool for the playerlink API",
		Long: `playerlink is a CLI tool for the playerlink identity API.

It keeps a local identity file with the guest id, profile id and merged
flag, so guest play, registration and the one-shot history merge behave
the same way an embedded client does.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load token from file if not provided via flag/env
			if err := cfg.LoadToken(); err != nil {
				return err
			}

			apiClient = client.New(cfg.ServerURL, cfg.Token)
			ids = identity.NewFileStore(cfg.IdentityFile)
			signals = invalidation.NewBus()
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: PLAYERLINK_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.Token, "token", cfg.Token, "Session token (env: PLAYERLINK_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "Token file path (env: PLAYERLINK_TOKEN_FILE)")
	rootCmd.PersistentFlags().StringVar(&cfg.IdentityFile, "identity-file", cfg.IdentityFile, "Identity file path (env: PLAYERLINK_IDENTITY_FILE)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newPlayerCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
