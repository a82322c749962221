package usecase

import (
	"context"
	"errors"
	"strings"

	domainErrors "github.com/NarekMan21/test-deploy-crm/internal/domain/errors"
	"github.com/NarekMan21/test-deploy-crm/internal/domain/model"
	"github.com/NarekMan21/test-deploy-crm/internal/domain/repository"
	pkgAuth "github.com/NarekMan21/test-deploy-crm/internal/pkg/auth"
)

// AuthUseCase handles credential checks and token management. Accounts
// are provisioned by seeding, not self-registration, so there is no
// register flow.
type AuthUseCase struct {
	users  repository.UserRepository
	hasher pkgAuth.PasswordHasher
	tokens pkgAuth.Strategy
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(users repository.UserRepository, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy) *AuthUseCase {
	return &AuthUseCase{users: users, hasher: hasher, tokens: strategy}
}

// Authenticate validates credentials and returns the user with a fresh
// session token.
func (u *AuthUseCase) Authenticate(ctx context.Context, username, password string) (*model.User, string, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" {
		return nil, "", domainErrors.Validation("username is required")
	}
	if password == "" {
		return nil, "", domainErrors.Validation("password is required")
	}

	usr, err := u.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !usr.Active {
		return nil, "", domainErrors.ErrUserDisabled
	}

	if err := u.hasher.Compare(usr.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	token, err := u.tokens.IssueToken(usr.ID)
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// ParseToken extracts user ID from provided token.
func (u *AuthUseCase) ParseToken(token string) (int64, error) {
	if token == "" {
		return 0, pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}

// GetByID fetches user by identifier.
func (u *AuthUseCase) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return u.users.GetByID(ctx, id)
}

// SeedDefaults creates the stock accounts when the user table is empty,
// mirroring the shipped deployment bootstrap.
func (u *AuthUseCase) SeedDefaults(ctx context.Context) error {
	count, err := u.users.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []struct {
		username string
		password string
		role     model.Role
	}{
		{"admin1", "nimda", model.RoleAdmin},
		{"admin2", "nimda", model.RoleAdmin},
		{"logist", "logist", model.RoleLogist},
		{"work", "work", model.RoleWork},
	}

	for _, account := range defaults {
		hash, err := u.hasher.Hash(account.password)
		if err != nil {
			return err
		}
		if _, err := u.users.Create(ctx, account.username, hash, account.role); err != nil &&
			!errors.Is(err, domainErrors.ErrAlreadyExists) {
			return err
		}
	}
	return nil
}
