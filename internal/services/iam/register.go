package iam

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/siddhardha-mns/SIH-SmartHelpDesk/internal/auth"
	"github.com/siddhardha-mns/SIH-SmartHelpDesk/internal/db/models"
	"github.com/siddhardha-mns/SIH-SmartHelpDesk/internal/repository"
)

var (
	// ErrConflict indicates the username or email is already taken.
	ErrConflict = repository.ErrConflict

	// ErrStoreUnavailable indicates registration requires a credential store.
	ErrStoreUnavailable = repository.ErrStoreUnavailable
)

// ValidationError describes a rejected registration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// RegisterInput carries a self-service registration request.
type RegisterInput struct {
	Username   string
	Email      string
	Password   string
	FullName   string
	Department string
	Role       string
}

// ValidateRegisterInput applies the account policy: username at least 3
// characters, well-formed email, password with upper, lower, and digit at 8+
// characters, and a role below Admin (admin accounts are provisioned from
// the CLI, never self-registered).
func ValidateRegisterInput(in RegisterInput) error {
	if len(strings.TrimSpace(in.Username)) < 3 {
		return &ValidationError{Field: "username", Message: "must be at least 3 characters"}
	}
	if !emailPattern.MatchString(in.Email) {
		return &ValidationError{Field: "email", Message: "invalid email address"}
	}
	if err := validatePassword(in.Password); err != nil {
		return err
	}
	if strings.TrimSpace(in.FullName) == "" {
		return &ValidationError{Field: "full_name", Message: "is required"}
	}
	switch in.Role {
	case auth.RoleEmployee, auth.RoleITSupport:
	case auth.RoleAdmin:
		return &ValidationError{Field: "role", Message: "admin accounts cannot self-register"}
	default:
		return &ValidationError{Field: "role", Message: "unknown role"}
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return &ValidationError{Field: "password", Message: "must be at least 8 characters"}
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return &ValidationError{Field: "password", Message: "must contain upper case, lower case, and a digit"}
	}
	return nil
}

// RegisterUser creates an account after validating the input. Duplicate
// usernames and emails surface as ErrConflict from the unique constraints;
// there is no check-then-insert race.
func (s *Service) RegisterUser(ctx context.Context, in RegisterInput) (*Identity, error) {
	if err := ValidateRegisterInput(in); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     strings.TrimSpace(in.Username),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: hash,
		Role:         in.Role,
		FullName:     strings.TrimSpace(in.FullName),
		IsActive:     true,
	}
	if dept := strings.TrimSpace(in.Department); dept != "" {
		user.Department = &dept
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) || errors.Is(err, repository.ErrStoreUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return identityFromUser(user), nil
}
