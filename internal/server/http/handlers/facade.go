package handlers

import (
	"context"

	"github.com/NarekMan21/test-deploy-crm/internal/domain/model"
	"github.com/NarekMan21/test-deploy-crm/internal/usecase"
	"github.com/NarekMan21/test-deploy-crm/internal/workflow"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Authenticate(ctx context.Context, username, password string) (*model.User, string, error)
	ParseToken(token string) (int64, error)
	UserByID(ctx context.Context, id int64) (*model.User, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	CreateOrder(ctx context.Context, actor *model.User, draft model.OrderDraft) (*model.Order, error)
	Orders(ctx context.Context, actor *model.User, statusFilter string) ([]model.Order, error)
	Order(ctx context.Context, actor *model.User, id int64) (*model.Order, error)
	UpdateOrder(ctx context.Context, actor *model.User, id int64, patch model.OrderPatch) (*model.Order, error)
	AddOrderDetails(ctx context.Context, actor *model.User, id int64, input usecase.DetailsInput) (*model.Order, error)
	TransitionOrder(ctx context.Context, actor *model.User, id int64, action workflow.Action) (*model.Order, error)
	DeleteOrder(ctx context.Context, actor *model.User, id int64) error
	OrderHistory(ctx context.Context, actor *model.User, id int64) ([]model.HistoryEntry, error)
}

// CRMFacade aggregates the full set of operations used across handlers.
type CRMFacade interface {
	AuthFacade
	OrderFacade
}
