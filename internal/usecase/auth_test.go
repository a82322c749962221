package usecase

import (
	"context"
	"fmt"
	"testing"

	domainErrors "github.com/NarekMan21/test-deploy-crm/internal/domain/errors"
	"github.com/NarekMan21/test-deploy-crm/internal/domain/model"
	pkgAuth "github.com/NarekMan21/test-deploy-crm/internal/pkg/auth"
	testhelpers "github.com/NarekMan21/test-deploy-crm/internal/test"
)

func newStrategyStub() testhelpers.StrategyStub {
	return testhelpers.StrategyStub{
		IssueFn: func(userID int64) (string, error) {
			return fmt.Sprintf("token-%d", userID), nil
		},
		ParseFn: func(token string) (int64, error) {
			var id int64
			if _, err := fmt.Sscanf(token, "token-%d", &id); err != nil {
				return 0, pkgAuth.ErrInvalidToken
			}
			return id, nil
		},
	}
}

func seedUser(t *testing.T, repo *testhelpers.UserRepositoryStub, username, password string, role model.Role) *model.User {
	t.Helper()
	user, err := repo.Create(context.Background(), username, "hash:"+password, role)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestAuthUseCaseAuthenticateSuccess(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	seedUser(t, repo, "logist", "logist", model.RoleLogist)
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())

	user, token, err := uc.Authenticate(context.Background(), "logist", "logist")
	if err != nil {
		t.Fatalf("authenticate returned error: %v", err)
	}
	if user.Role != model.RoleLogist {
		t.Fatalf("unexpected role %q", user.Role)
	}
	if token != "token-1" {
		t.Fatalf("unexpected token %q", token)
	}
}

func TestAuthUseCaseAuthenticateTrimsUsername(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	seedUser(t, repo, "admin1", "nimda", model.RoleAdmin)
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())

	if _, _, err := uc.Authenticate(context.Background(), "  admin1  ", "nimda"); err != nil {
		t.Fatalf("expected trimmed username to authenticate, got %v", err)
	}
}

func TestAuthUseCaseAuthenticateWrongPassword(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	seedUser(t, repo, "work", "work", model.RoleWork)
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())

	if _, _, err := uc.Authenticate(context.Background(), "work", "wrong"); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthUseCaseAuthenticateUnknownUser(t *testing.T) {
	uc := NewAuthUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, newStrategyStub())

	if _, _, err := uc.Authenticate(context.Background(), "ghost", "pass"); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthUseCaseAuthenticateEmptyFields(t *testing.T) {
	uc := NewAuthUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, newStrategyStub())

	if _, _, err := uc.Authenticate(context.Background(), "", "pass"); !domainErrors.IsValidation(err) {
		t.Fatalf("expected validation error for empty username, got %v", err)
	}
	if _, _, err := uc.Authenticate(context.Background(), "user", ""); !domainErrors.IsValidation(err) {
		t.Fatalf("expected validation error for empty password, got %v", err)
	}
}

func TestAuthUseCaseAuthenticateDisabledUser(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	user := seedUser(t, repo, "former", "pass", model.RoleWork)
	user.Active = false
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())

	if _, _, err := uc.Authenticate(context.Background(), "former", "pass"); err != domainErrors.ErrUserDisabled {
		t.Fatalf("expected ErrUserDisabled, got %v", err)
	}
}

func TestAuthUseCaseParseToken(t *testing.T) {
	uc := NewAuthUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, newStrategyStub())

	id, err := uc.ParseToken("token-42")
	if err != nil {
		t.Fatalf("parse token returned error: %v", err)
	}
	if id != 42 {
		t.Fatalf("unexpected user id %d", id)
	}

	if _, err := uc.ParseToken(""); err != pkgAuth.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for empty token, got %v", err)
	}
}

func TestAuthUseCaseSeedDefaults(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())

	if err := uc.SeedDefaults(context.Background()); err != nil {
		t.Fatalf("seed returned error: %v", err)
	}

	for _, tc := range []struct {
		username string
		role     model.Role
	}{
		{"admin1", model.RoleAdmin},
		{"admin2", model.RoleAdmin},
		{"logist", model.RoleLogist},
		{"work", model.RoleWork},
	} {
		user, err := repo.GetByUsername(context.Background(), tc.username)
		if err != nil {
			t.Fatalf("expected seeded user %q: %v", tc.username, err)
		}
		if user.Role != tc.role {
			t.Fatalf("user %q has role %q, want %q", tc.username, user.Role, tc.role)
		}
	}
}

func TestAuthUseCaseSeedDefaultsSkipsNonEmptyTable(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	seedUser(t, repo, "existing", "pass", model.RoleAdmin)
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())

	if err := uc.SeedDefaults(context.Background()); err != nil {
		t.Fatalf("seed returned error: %v", err)
	}
	if _, err := repo.GetByUsername(context.Background(), "admin1"); err != domainErrors.ErrNotFound {
		t.Fatalf("expected no stock accounts when table already populated, got %v", err)
	}
}
