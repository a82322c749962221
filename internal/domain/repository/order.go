package repository

import (
	"context"

	"github.com/NarekMan21/test-deploy-crm/internal/domain/model"
)

// OrderRepository describes persistence operations with orders. The
// repository is the enforcement boundary for workflow invariants: status
// preconditions are re-checked here inside the updating transaction.
type OrderRepository interface {
	Create(ctx context.Context, draft model.OrderDraft, createdBy int64) (*model.Order, error)
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	// List returns orders limited to the given statuses; an empty slice
	// of statuses means no restriction. Newest first.
	List(ctx context.Context, statuses []model.OrderStatus) ([]model.Order, error)
	// Update applies a partial patch; nil patch fields stay unchanged.
	Update(ctx context.Context, id int64, patch model.OrderPatch, updatedBy int64) (*model.Order, error)
	// Transition moves the order from to the target status, failing with
	// ErrInvalidTransition unless its current status equals from.
	Transition(ctx context.Context, id int64, from, to model.OrderStatus, updatedBy int64) (*model.Order, error)
	// Confirm transitions pending_confirmation -> confirmed and assigns
	// the next free order number in the same transaction.
	Confirm(ctx context.Context, id int64, updatedBy int64) (*model.Order, error)
	Delete(ctx context.Context, id int64) error
	// PhotoFilenames returns every photo filename referenced by any
	// order. Used by the uploads janitor.
	PhotoFilenames(ctx context.Context) (map[string]struct{}, error)
}
