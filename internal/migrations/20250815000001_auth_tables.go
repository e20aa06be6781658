package migrations

import (
	"context"
	"fmt"

	"github.com/siddhardha-mns/SIH-SmartHelpDesk/internal/db/models"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(up_20250815000001, down_20250815000001)
}

// up_20250815000001 creates the users and user_sessions tables
func up_20250815000001(ctx context.Context, db *bun.DB) error {
	// 1. Create users table
	fmt.Print(" [up] creating users table...")
	_, err := db.NewCreateTable().
		Model((*models.User)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	_, err = db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username ON users(username)`)
	if err != nil {
		return fmt.Errorf("failed to create users username index: %w", err)
	}
	_, err = db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(email)`)
	if err != nil {
		return fmt.Errorf("failed to create users email index: %w", err)
	}
	fmt.Println(" OK")

	// 2. Create user_sessions table
	fmt.Print(" [up] creating user_sessions table...")
	_, err = db.NewCreateTable().
		Model((*models.UserSession)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create user_sessions table: %w", err)
	}

	// Exactly one session row per token hash
	_, err = db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_user_sessions_token ON user_sessions(session_token)`)
	if err != nil {
		return fmt.Errorf("failed to create user_sessions token index: %w", err)
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_user_sessions_user_id ON user_sessions(user_id)`)
	if err != nil {
		return fmt.Errorf("failed to create user_sessions user_id index: %w", err)
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_user_sessions_expires_at ON user_sessions(expires_at)`)
	if err != nil {
		return fmt.Errorf("failed to create user_sessions expires_at index: %w", err)
	}
	fmt.Println(" OK")

	return nil
}

// down_20250815000001 drops the auth tables
func down_20250815000001(ctx context.Context, db *bun.DB) error {
	fmt.Print(" [down] dropping auth tables...")

	tables := []string{"user_sessions", "users"}
	for _, table := range tables {
		_, err := db.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS %s`, table))
		if err != nil {
			return fmt.Errorf("failed to drop %s table: %w", table, err)
		}
	}

	fmt.Println(" OK")
	return nil
}
