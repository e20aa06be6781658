package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/siddhardha-mns/SIH-SmartHelpDesk/internal/db/bunx"
	"github.com/siddhardha-mns/SIH-SmartHelpDesk/internal/repository"
	"github.com/siddhardha-mns/SIH-SmartHelpDesk/internal/server"
	"github.com/siddhardha-mns/SIH-SmartHelpDesk/internal/services/iam"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the helpdesk API server",
	Long:  `Starts the HTTP server with authentication and dashboard endpoints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Repositories are chosen exactly once here. A missing DATABASE_URL
		// selects the fallback pair; the server runs in demo mode instead
		// of failing.
		var userRepo repository.UserRepository
		var sessionRepo repository.SessionRepository

		if cfg.StoreConfigured() {
			db, err := bunx.NewDB(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer bunx.Close(db)

			log.Info().Msg("connected to database")
			userRepo = repository.NewBunUserRepository(db)
			sessionRepo = repository.NewBunSessionRepository(db)
		} else {
			log.Warn().Msg("DATABASE_URL not set; running in demo mode without a credential store")
			userRepo = repository.NewFallbackUserRepository()
			sessionRepo = repository.NewFallbackSessionRepository()
		}

		iamService, err := iam.NewService(userRepo, sessionRepo, iam.Options{
			SessionTTL:     cfg.SessionDuration(),
			BcryptCost:     cfg.BcryptCost,
			DemoFallback:   cfg.DemoFallback,
			StoreAvailable: cfg.StoreConfigured(),
			Logger:         log.Logger,
		})
		if err != nil {
			return fmt.Errorf("failed to create iam service: %w", err)
		}

		corsOpts := server.DefaultCORSOptions()
		if origins := cfg.AllowedOrigins(); len(origins) > 0 {
			corsOpts.AllowedOrigins = origins
		}

		router := server.NewRouter(server.RouterOptions{
			IAM:         iamService,
			CORSOptions: &corsOpts,
		})

		srv := &http.Server{
			Addr:         cfg.ServerAddr,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			log.Info().Str("addr", cfg.ServerAddr).Bool("demo_mode", iamService.DemoMode()).Msg("starting server")
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			log.Info().Str("signal", sig.String()).Msg("shutting down")

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				_ = srv.Close()
				return fmt.Errorf("graceful shutdown failed: %w", err)
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
