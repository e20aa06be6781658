package migrations

import (
	"context"
	"fmt"

	"github.com/siddhardha-mns/SIH-SmartHelpDesk/internal/auth"
	"github.com/siddhardha-mns/SIH-SmartHelpDesk/internal/db/models"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(up_20250815000002, down_20250815000002)
}

func strPtr(s string) *string { return &s }

// up_20250815000002 seeds the demo helpdesk accounts.
// All demo accounts share the well-known demo password.
func up_20250815000002(ctx context.Context, db *bun.DB) error {
	fmt.Print(" [up] seeding demo users...")

	hasher := auth.NewHasher(auth.DefaultHashCost)
	hash, err := hasher.Hash("password123")
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	demoUsers := []models.User{
		{
			Username:     "admin",
			Email:        "admin@helpdesk.com",
			PasswordHash: hash,
			Role:         auth.RoleAdmin,
			FullName:     "System Admin",
			Department:   strPtr("IT"),
			IsActive:     true,
		},
		{
			Username:     "it_support1",
			Email:        "raj@helpdesk.com",
			PasswordHash: hash,
			Role:         auth.RoleITSupport,
			FullName:     "Raj Kumar",
			Department:   strPtr("IT Support"),
			IsActive:     true,
		},
		{
			Username:     "it_support2",
			Email:        "priya@helpdesk.com",
			PasswordHash: hash,
			Role:         auth.RoleITSupport,
			FullName:     "Priya Sharma",
			Department:   strPtr("IT Support"),
			IsActive:     true,
		},
		{
			Username:     "employee1",
			Email:        "john@company.com",
			PasswordHash: hash,
			Role:         auth.RoleEmployee,
			FullName:     "John Doe",
			Department:   strPtr("Operations"),
			IsActive:     true,
		},
		{
			Username:     "employee2",
			Email:        "sarah@company.com",
			PasswordHash: hash,
			Role:         auth.RoleEmployee,
			FullName:     "Sarah Wilson",
			Department:   strPtr("Finance"),
			IsActive:     true,
		},
	}

	for _, user := range demoUsers {
		_, err := db.NewInsert().
			Model(&user).
			On("CONFLICT (username) DO NOTHING"). // Idempotent
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to seed user %s: %w", user.Username, err)
		}
	}
	fmt.Println(" OK")

	return nil
}

// down_20250815000002 removes the demo accounts
func down_20250815000002(ctx context.Context, db *bun.DB) error {
	fmt.Print(" [down] removing demo users...")

	usernames := []string{"admin", "it_support1", "it_support2", "employee1", "employee2"}
	_, err := db.NewDelete().
		Model((*models.User)(nil)).
		Where("username IN (?)", bun.In(usernames)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to remove demo users: %w", err)
	}

	fmt.Println(" OK")
	return nil
}
