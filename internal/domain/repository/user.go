package repository

import (
	"context"

	"github.com/NarekMan21/test-deploy-crm/internal/domain/model"
)

// UserRepository describes persistence operations for dashboard accounts.
type UserRepository interface {
	Create(ctx context.Context, username, passwordHash string, role model.Role) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	Count(ctx context.Context) (int, error)
}
