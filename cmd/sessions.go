package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/siddhardha-mns/SIH-SmartHelpDesk/internal/db/bunx"
	"github.com/siddhardha-mns/SIH-SmartHelpDesk/internal/repository"
	"github.com/siddhardha-mns/SIH-SmartHelpDesk/internal/services/iam"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Session maintenance commands",
}

var sessionsSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete expired sessions",
	Long:  `Removes all sessions whose expiry has passed. Safe to run repeatedly; a second sweep deletes nothing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireDatabaseURL(); err != nil {
			return err
		}
		db, err := bunx.NewDB(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer bunx.Close(db)

		iamService, err := iam.NewService(
			repository.NewBunUserRepository(db),
			repository.NewBunSessionRepository(db),
			iam.Options{
				SessionTTL:     cfg.SessionDuration(),
				BcryptCost:     cfg.BcryptCost,
				StoreAvailable: true,
				Logger:         log.Logger,
			},
		)
		if err != nil {
			return fmt.Errorf("failed to create iam service: %w", err)
		}

		deleted, err := iamService.SweepExpired(context.Background())
		if err != nil {
			return fmt.Errorf("sweep failed: %w", err)
		}

		fmt.Printf("Deleted %d expired session(s)\n", deleted)
		return nil
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsSweepCmd)
	rootCmd.AddCommand(sessionsCmd)
}
