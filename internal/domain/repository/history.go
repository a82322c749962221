package repository

import (
	"context"

	"github.com/NarekMan21/test-deploy-crm/internal/domain/model"
)

// HistoryRepository describes the append-only per-order audit trail.
type HistoryRepository interface {
	Append(ctx context.Context, orderID, userID int64, action string, changes model.FieldChanges) error
	// ListByOrder returns entries newest first, with usernames resolved.
	ListByOrder(ctx context.Context, orderID int64) ([]model.HistoryEntry, error)
}
