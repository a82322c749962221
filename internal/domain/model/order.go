package model

import "time"

// OrderStatus describes the reupholstery workflow state.
type OrderStatus string

const (
	StatusDraft               OrderStatus = "draft"
	StatusPendingConfirmation OrderStatus = "pending_confirmation"
	StatusConfirmed           OrderStatus = "confirmed"
	StatusInProgress          OrderStatus = "in_progress"
	StatusReady               OrderStatus = "ready"
	StatusDelivered           OrderStatus = "delivered"
)

// AllStatuses lists workflow states in lifecycle order.
func AllStatuses() []OrderStatus {
	return []OrderStatus{
		StatusDraft,
		StatusPendingConfirmation,
		StatusConfirmed,
		StatusInProgress,
		StatusReady,
		StatusDelivered,
	}
}

// Valid reports whether the status is a known workflow state.
func (s OrderStatus) Valid() bool {
	for _, known := range AllStatuses() {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions exist from the status.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered
}

// Order is the central entity: one customer reupholstery job tracked
// through the fixed status workflow. Optional fields are pointers so a
// missing value and a masked value serialize identically (absent).
type Order struct {
	ID int64
	// OrderNumber is the short human-facing sequence number (1-9999),
	// assigned by the store at confirmation and editable by admins.
	OrderNumber *int

	CustomerName        string
	CustomerPhone       string
	CustomerAddress     string
	PhoneAgreementNotes string

	CustomerRequirements string
	Deadline             *time.Time
	Price                *int

	// Photo fields hold opaque stored filenames, resolved to URLs by the
	// upload resolver.
	MaterialPhoto  string
	FurniturePhoto string

	Status    OrderStatus
	CreatedBy int64
	UpdatedBy *int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderDraft carries the fields captured at creation time (admin only).
type OrderDraft struct {
	CustomerName        string
	CustomerPhone       string
	CustomerAddress     string
	PhoneAgreementNotes string
}

// OrderPatch is a partial update: nil fields stay unchanged. Used by the
// admin edit operation and by the add-details step.
type OrderPatch struct {
	OrderNumber         *int
	CustomerName        *string
	CustomerPhone       *string
	CustomerAddress     *string
	PhoneAgreementNotes *string

	CustomerRequirements *string
	Deadline             *time.Time
	Price                *int
	MaterialPhoto        *string
	FurniturePhoto       *string

	Status *OrderStatus
}

// Empty reports whether the patch changes nothing.
func (p OrderPatch) Empty() bool {
	return p.OrderNumber == nil && p.CustomerName == nil && p.CustomerPhone == nil &&
		p.CustomerAddress == nil && p.PhoneAgreementNotes == nil &&
		p.CustomerRequirements == nil && p.Deadline == nil && p.Price == nil &&
		p.MaterialPhoto == nil && p.FurniturePhoto == nil && p.Status == nil
}
