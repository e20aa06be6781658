package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/siddhardha-mns/SIH-SmartHelpDesk/cmd/users"
	"github.com/siddhardha-mns/SIH-SmartHelpDesk/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "helpdeskd",
	Short: "Smart HelpDesk authentication and dashboard API",
	Long: `Smart HelpDesk serves the role-aware helpdesk dashboard backend:
username/password authentication, opaque session tokens, and role-gated
dashboard endpoints. Without DATABASE_URL it runs in demo mode against the
built-in demo accounts.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		level, err := zerolog.ParseLevel(cfg.LogLevel)
		if err != nil {
			level = zerolog.InfoLevel
		}
		zerolog.SetGlobalLevel(level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("db-url", "", "Database connection URL (env: DATABASE_URL)")
	rootCmd.PersistentFlags().String("server-addr", "", "Server bind address (env: SERVER_ADDR)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (env: LOG_LEVEL)")

	rootCmd.AddCommand(users.UsersCmd)
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Err(err).Msg("command failed")
		os.Exit(1)
	}
}
