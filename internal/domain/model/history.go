package model

import "time"

// FieldChange records one field edit inside a history entry.
type FieldChange struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// FieldChanges maps field name to its old/new pair. Persisted as JSON.
type FieldChanges map[string]FieldChange

// HistoryEntry is one line of the append-only per-order audit trail.
// Never mutated after being written.
type HistoryEntry struct {
	ID           int64
	OrderID      int64
	UserID       int64
	Username     string
	Action       string
	FieldChanges FieldChanges
	Timestamp    time.Time
}

// Audit trail action names, matching what the store records.
const (
	ActionLogCreated      = "created"
	ActionLogUpdated      = "updated"
	ActionLogSubmitted    = "submitted_for_confirmation"
	ActionLogConfirmed    = "confirmed"
	ActionLogDetailsAdded = "details_added"
	ActionLogCompleted    = "completed"
	ActionLogDelivered    = "delivered"
	ActionLogDeleted      = "deleted"
)
