package dto

import (
	"time"

	"github.com/NarekMan21/test-deploy-crm/internal/domain/model"
)

// OrderResponse serializes an order already masked for the requesting
// role: masked fields are zero-valued and drop out via omitempty, so a
// workshop client never even sees the keys.
type OrderResponse struct {
	ID                   int64      `json:"id"`
	OrderNumber          *int       `json:"order_number,omitempty"`
	CustomerName         string     `json:"customer_name"`
	CustomerPhone        string     `json:"customer_phone,omitempty"`
	CustomerAddress      string     `json:"customer_address,omitempty"`
	PhoneAgreementNotes  string     `json:"phone_agreement_notes,omitempty"`
	CustomerRequirements string     `json:"customer_requirements,omitempty"`
	Deadline             *time.Time `json:"deadline,omitempty"`
	Price                *int       `json:"price,omitempty"`
	MaterialPhoto        string     `json:"material_photo,omitempty"`
	FurniturePhoto       string     `json:"furniture_photo,omitempty"`
	Status               string     `json:"status"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// FromOrder converts a domain order to its wire form.
func FromOrder(order model.Order) OrderResponse {
	return OrderResponse{
		ID:                   order.ID,
		OrderNumber:          order.OrderNumber,
		CustomerName:         order.CustomerName,
		CustomerPhone:        order.CustomerPhone,
		CustomerAddress:      order.CustomerAddress,
		PhoneAgreementNotes:  order.PhoneAgreementNotes,
		CustomerRequirements: order.CustomerRequirements,
		Deadline:             order.Deadline,
		Price:                order.Price,
		MaterialPhoto:        order.MaterialPhoto,
		FurniturePhoto:       order.FurniturePhoto,
		Status:               string(order.Status),
		CreatedAt:            order.CreatedAt,
		UpdatedAt:            order.UpdatedAt,
	}
}

// ToOrder converts the wire form back to a domain order. Used by the
// dashboard client.
func (r OrderResponse) ToOrder() model.Order {
	return model.Order{
		ID:                   r.ID,
		OrderNumber:          r.OrderNumber,
		CustomerName:         r.CustomerName,
		CustomerPhone:        r.CustomerPhone,
		CustomerAddress:      r.CustomerAddress,
		PhoneAgreementNotes:  r.PhoneAgreementNotes,
		CustomerRequirements: r.CustomerRequirements,
		Deadline:             r.Deadline,
		Price:                r.Price,
		MaterialPhoto:        r.MaterialPhoto,
		FurniturePhoto:       r.FurniturePhoto,
		Status:               model.OrderStatus(r.Status),
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
}

// HistoryResponse is one audit trail entry on the wire.
type HistoryResponse struct {
	Timestamp    time.Time                    `json:"timestamp"`
	User         string                       `json:"user"`
	Action       string                       `json:"action"`
	FieldChanges map[string]model.FieldChange `json:"field_changes,omitempty"`
}

// FromHistory converts a domain history entry to its wire form.
func FromHistory(entry model.HistoryEntry) HistoryResponse {
	return HistoryResponse{
		Timestamp:    entry.Timestamp,
		User:         entry.Username,
		Action:       entry.Action,
		FieldChanges: entry.FieldChanges,
	}
}
