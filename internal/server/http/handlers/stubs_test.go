package handlers

import (
	"context"

	domainErrors "github.com/NarekMan21/test-deploy-crm/internal/domain/errors"
	"github.com/NarekMan21/test-deploy-crm/internal/domain/model"
	"github.com/NarekMan21/test-deploy-crm/internal/usecase"
	"github.com/NarekMan21/test-deploy-crm/internal/workflow"
)

// authFacadeStub simulates the authentication facade surface.
type authFacadeStub struct {
	AuthenticateFn func(context.Context, string, string) (*model.User, string, error)
	ParseFn        func(string) (int64, error)
	UserByIDFn     func(context.Context, int64) (*model.User, error)
	User           *model.User
}

func (s authFacadeStub) Authenticate(ctx context.Context, username, password string) (*model.User, string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, username, password)
	}
	if s.User == nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}
	return s.User, "token", nil
}

func (s authFacadeStub) ParseToken(token string) (int64, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	if s.User == nil {
		return 0, domainErrors.ErrNotFound
	}
	return s.User.ID, nil
}

func (s authFacadeStub) UserByID(ctx context.Context, id int64) (*model.User, error) {
	if s.UserByIDFn != nil {
		return s.UserByIDFn(ctx, id)
	}
	if s.User == nil || s.User.ID != id {
		return nil, domainErrors.ErrNotFound
	}
	return s.User, nil
}

// orderFacadeStub provides controllable behaviour for order endpoints.
type orderFacadeStub struct {
	CreateFn     func(context.Context, *model.User, model.OrderDraft) (*model.Order, error)
	OrdersFn     func(context.Context, *model.User, string) ([]model.Order, error)
	OrderFn      func(context.Context, *model.User, int64) (*model.Order, error)
	UpdateFn     func(context.Context, *model.User, int64, model.OrderPatch) (*model.Order, error)
	DetailsFn    func(context.Context, *model.User, int64, usecase.DetailsInput) (*model.Order, error)
	TransitionFn func(context.Context, *model.User, int64, workflow.Action) (*model.Order, error)
	DeleteFn     func(context.Context, *model.User, int64) error
	HistoryFn    func(context.Context, *model.User, int64) ([]model.HistoryEntry, error)

	Stored  []model.Order
	History []model.HistoryEntry
}

func (s orderFacadeStub) CreateOrder(ctx context.Context, actor *model.User, draft model.OrderDraft) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, actor, draft)
	}
	return &model.Order{ID: 1, CustomerName: draft.CustomerName, Status: model.StatusDraft}, nil
}

func (s orderFacadeStub) Orders(ctx context.Context, actor *model.User, statusFilter string) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, actor, statusFilter)
	}
	return s.Stored, nil
}

func (s orderFacadeStub) Order(ctx context.Context, actor *model.User, id int64) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, actor, id)
	}
	for _, o := range s.Stored {
		if o.ID == id {
			order := o
			return &order, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (s orderFacadeStub) UpdateOrder(ctx context.Context, actor *model.User, id int64, patch model.OrderPatch) (*model.Order, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, actor, id, patch)
	}
	return s.Order(ctx, actor, id)
}

func (s orderFacadeStub) AddOrderDetails(ctx context.Context, actor *model.User, id int64, input usecase.DetailsInput) (*model.Order, error) {
	if s.DetailsFn != nil {
		return s.DetailsFn(ctx, actor, id, input)
	}
	return s.Order(ctx, actor, id)
}

func (s orderFacadeStub) TransitionOrder(ctx context.Context, actor *model.User, id int64, action workflow.Action) (*model.Order, error) {
	if s.TransitionFn != nil {
		return s.TransitionFn(ctx, actor, id, action)
	}
	return s.Order(ctx, actor, id)
}

func (s orderFacadeStub) DeleteOrder(ctx context.Context, actor *model.User, id int64) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, actor, id)
	}
	return nil
}

func (s orderFacadeStub) OrderHistory(ctx context.Context, actor *model.User, id int64) ([]model.HistoryEntry, error) {
	if s.HistoryFn != nil {
		return s.HistoryFn(ctx, actor, id)
	}
	return s.History, nil
}

// crmFacadeStub aggregates both facade surfaces for router-level tests.
type crmFacadeStub struct {
	authFacadeStub
	orderFacadeStub
}

var _ CRMFacade = crmFacadeStub{}
