package app

import (
	"context"

	"github.com/NarekMan21/test-deploy-crm/internal/domain/model"
	"github.com/NarekMan21/test-deploy-crm/internal/usecase"
	"github.com/NarekMan21/test-deploy-crm/internal/workflow"
)

// CRMFacade aggregates the application use cases behind one surface the
// HTTP layer talks to.
type CRMFacade struct {
	auth   *usecase.AuthUseCase
	orders *usecase.OrderUseCase
}

func NewCRMFacade(auth *usecase.AuthUseCase, orders *usecase.OrderUseCase) *CRMFacade {
	return &CRMFacade{auth: auth, orders: orders}
}

func (f *CRMFacade) Authenticate(ctx context.Context, username, password string) (*model.User, string, error) {
	return f.auth.Authenticate(ctx, username, password)
}

func (f *CRMFacade) ParseToken(token string) (int64, error) {
	return f.auth.ParseToken(token)
}

func (f *CRMFacade) UserByID(ctx context.Context, id int64) (*model.User, error) {
	return f.auth.GetByID(ctx, id)
}

func (f *CRMFacade) SeedDefaults(ctx context.Context) error {
	return f.auth.SeedDefaults(ctx)
}

func (f *CRMFacade) CreateOrder(ctx context.Context, actor *model.User, draft model.OrderDraft) (*model.Order, error) {
	return f.orders.Create(ctx, actor, draft)
}

func (f *CRMFacade) Orders(ctx context.Context, actor *model.User, statusFilter string) ([]model.Order, error) {
	return f.orders.List(ctx, actor, statusFilter)
}

func (f *CRMFacade) Order(ctx context.Context, actor *model.User, id int64) (*model.Order, error) {
	return f.orders.Get(ctx, actor, id)
}

func (f *CRMFacade) UpdateOrder(ctx context.Context, actor *model.User, id int64, patch model.OrderPatch) (*model.Order, error) {
	return f.orders.Update(ctx, actor, id, patch)
}

func (f *CRMFacade) AddOrderDetails(ctx context.Context, actor *model.User, id int64, input usecase.DetailsInput) (*model.Order, error) {
	return f.orders.AddDetails(ctx, actor, id, input)
}

func (f *CRMFacade) TransitionOrder(ctx context.Context, actor *model.User, id int64, action workflow.Action) (*model.Order, error) {
	return f.orders.Transition(ctx, actor, id, action)
}

func (f *CRMFacade) DeleteOrder(ctx context.Context, actor *model.User, id int64) error {
	return f.orders.Delete(ctx, actor, id)
}

func (f *CRMFacade) OrderHistory(ctx context.Context, actor *model.User, id int64) ([]model.HistoryEntry, error) {
	return f.orders.History(ctx, actor, id)
}
