package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/puntoventa/puntoventa/internal/shared"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	FindByUsername(ctx context.Context, username string) (User, error)
	List(ctx context.Context) ([]User, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, user User) (int64, error)
	Update(ctx context.Context, id int64, user User) error
	Delete(ctx context.Context, id int64) error
}

var _ RepositoryPort = (*Repository)(nil)

// Service handles credential business logic.
type Service struct {
	repo     RepositoryPort
	validate *validator.Validate
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

// Verify reports whether username+password match an active account.
// Inactive accounts fail regardless of the password; only storage faults
// are returned as errors.
func (s *Service) Verify(ctx context.Context, username, password string) (bool, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if !user.IsActive {
		return false, nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return false, nil
	}
	return true, nil
}

// Create hashes the password and stores a new active account.
func (s *Service) Create(ctx context.Context, input UserInput) (int64, error) {
	if err := s.validate.Struct(input); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidUser, err)
	}
	if input.Password == "" {
		return 0, fmt.Errorf("%w: password required", ErrInvalidUser)
	}
	hash, err := hashPassword(input.Password)
	if err != nil {
		return 0, err
	}
	return s.repo.Create(ctx, User{
		Username:     input.Username,
		PasswordHash: hash,
		DisplayName:  input.DisplayName,
		Role:         input.Role,
		IsActive:     true,
	})
}

// Update rewrites an account. When input.Password is empty the existing
// hash is kept untouched.
func (s *Service) Update(ctx context.Context, id int64, input UserInput) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid id", ErrInvalidUser)
	}
	if err := s.validate.Struct(input); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidUser, err)
	}

	user := User{
		Username:    input.Username,
		DisplayName: input.DisplayName,
		Role:        input.Role,
		IsActive:    input.IsActive,
	}
	if input.Password != "" {
		hash, err := hashPassword(input.Password)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
	}
	return s.repo.Update(ctx, id, user)
}

// List returns all accounts.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// Delete removes an account.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// EnsureDefaultAdmin bootstraps the initial administrator account when the
// user table is empty, so a fresh store is never unreachable.
func (s *Service) EnsureDefaultAdmin(ctx context.Context) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	_, err = s.Create(ctx, UserInput{
		Username:    "admin",
		Password:    "1234",
		DisplayName: "Administrador",
		Role:        "Administrador",
	})
	if errors.Is(err, ErrDuplicateUsername) {
		return nil
	}
	return err
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("users: hash password: %w", err)
	}
	return string(hash), nil
}
