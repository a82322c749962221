package workflow

import (
	"strings"
	"time"

	domainErrors "github.com/NarekMan21/test-deploy-crm/internal/domain/errors"
	"github.com/NarekMan21/test-deploy-crm/internal/domain/model"
)

// MaxOrderNumber caps the human-facing sequence number.
const MaxOrderNumber = 9999

// ValidateDraft checks the fields captured at creation time. Both the
// dashboard (pre-flight, no network call) and the store run this.
func ValidateDraft(draft model.OrderDraft) error {
	if strings.TrimSpace(draft.CustomerName) == "" {
		return domainErrors.Validation("customer name is required")
	}
	if strings.TrimSpace(draft.CustomerPhone) == "" {
		return domainErrors.Validation("customer phone is required")
	}
	if strings.TrimSpace(draft.CustomerAddress) == "" {
		return domainErrors.Validation("customer address is required")
	}
	return nil
}

// ValidatePatch checks an admin edit: edited fields must stay non-empty
// and an edited order number must fit the 1-9999 range.
func ValidatePatch(patch model.OrderPatch) error {
	if patch.CustomerName != nil && strings.TrimSpace(*patch.CustomerName) == "" {
		return domainErrors.Validation("customer name is required")
	}
	if patch.CustomerPhone != nil && strings.TrimSpace(*patch.CustomerPhone) == "" {
		return domainErrors.Validation("customer phone is required")
	}
	if patch.CustomerAddress != nil && strings.TrimSpace(*patch.CustomerAddress) == "" {
		return domainErrors.Validation("customer address is required")
	}
	if patch.OrderNumber != nil && (*patch.OrderNumber < 1 || *patch.OrderNumber > MaxOrderNumber) {
		return domainErrors.Validation("order number must be between 1 and %d", MaxOrderNumber)
	}
	return nil
}

// Details carries the add-details step input.
type Details struct {
	CustomerRequirements string
	Deadline             time.Time
	Price                int
}

// ValidateDetails checks the add-details fields. requireFuture adds the
// dashboard-only pre-flight rule that a deadline must not be in the past;
// the store accepts any parseable deadline.
func ValidateDetails(details Details, requireFuture bool) error {
	if strings.TrimSpace(details.CustomerRequirements) == "" {
		return domainErrors.Validation("customer requirements are required")
	}
	if details.Deadline.IsZero() {
		return domainErrors.Validation("deadline is required")
	}
	if requireFuture && details.Deadline.Before(time.Now()) {
		return domainErrors.Validation("deadline must be in the future")
	}
	if details.Price <= 0 {
		return domainErrors.Validation("price must be positive")
	}
	return nil
}
