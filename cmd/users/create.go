package users

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/siddhardha-mns/SIH-SmartHelpDesk/internal/auth"
	"github.com/siddhardha-mns/SIH-SmartHelpDesk/internal/config"
	"github.com/siddhardha-mns/SIH-SmartHelpDesk/internal/db/bunx"
	"github.com/siddhardha-mns/SIH-SmartHelpDesk/internal/db/models"
	"github.com/siddhardha-mns/SIH-SmartHelpDesk/internal/repository"
)

var (
	usernameFlag   string
	emailFlag      string
	passwordFlag   string
	roleFlag       string
	fullNameFlag   string
	departmentFlag string
	stdinFlag      bool
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a helpdesk user",
	Long: `Creates a user directly in the credential store. This is the only way
to provision Admin accounts; self-service registration is capped at IT Support.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if usernameFlag == "" {
			return fmt.Errorf("--username flag is required")
		}
		if emailFlag == "" {
			return fmt.Errorf("--email flag is required")
		}
		if !auth.KnownRole(roleFlag) {
			return fmt.Errorf("invalid role %q; valid roles are: %s, %s, %s",
				roleFlag, auth.RoleEmployee, auth.RoleITSupport, auth.RoleAdmin)
		}

		password := passwordFlag
		if stdinFlag {
			scanner := bufio.NewScanner(os.Stdin)
			fmt.Print("Enter password: ")
			if scanner.Scan() {
				password = scanner.Text()
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
		}
		if password == "" {
			return fmt.Errorf("password is required (use --password or --stdin)")
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if !cfg.StoreConfigured() {
			return fmt.Errorf("DATABASE_URL is required to create users")
		}

		db, err := bunx.NewDB(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer bunx.Close(db)

		hasher := auth.NewHasher(cfg.BcryptCost)
		hash, err := hasher.Hash(password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		fullName := fullNameFlag
		if fullName == "" {
			fullName = usernameFlag
		}

		user := &models.User{
			Username:     usernameFlag,
			Email:        emailFlag,
			PasswordHash: hash,
			Role:         roleFlag,
			FullName:     fullName,
			IsActive:     true,
		}
		if departmentFlag != "" {
			user.Department = &departmentFlag
		}

		userRepo := repository.NewBunUserRepository(db)
		if err := userRepo.Create(context.Background(), user); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("username or email already exists")
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		log.Info().
			Int64("id", user.ID).
			Str("username", user.Username).
			Str("role", user.Role).
			Msg("user created")
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&usernameFlag, "username", "", "Login name (required)")
	createCmd.Flags().StringVar(&emailFlag, "email", "", "Email address (required)")
	createCmd.Flags().StringVar(&passwordFlag, "password", "", "Password (or use --stdin)")
	createCmd.Flags().StringVar(&roleFlag, "role", auth.RoleEmployee, "Role: Employee, IT Support, or Admin")
	createCmd.Flags().StringVar(&fullNameFlag, "full-name", "", "Display name (defaults to username)")
	createCmd.Flags().StringVar(&departmentFlag, "department", "", "Department")
	createCmd.Flags().BoolVar(&stdinFlag, "stdin", false, "Read password from stdin")
}
