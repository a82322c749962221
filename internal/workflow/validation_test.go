package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	domainErrors "github.com/NarekMan21/test-deploy-crm/internal/domain/errors"
	"github.com/NarekMan21/test-deploy-crm/internal/domain/model"
)

func TestValidateDraft(t *testing.T) {
	draft := model.OrderDraft{
		CustomerName:    "Anna",
		CustomerPhone:   "+7 900 000-00-00",
		CustomerAddress: "Lenina 1",
	}
	assert.NoError(t, ValidateDraft(draft))

	// Notes are optional.
	draft.PhoneAgreementNotes = ""
	assert.NoError(t, ValidateDraft(draft))

	for _, tc := range []struct {
		name  string
		draft model.OrderDraft
	}{
		{"missing name", model.OrderDraft{CustomerPhone: "1", CustomerAddress: "a"}},
		{"missing phone", model.OrderDraft{CustomerName: "n", CustomerAddress: "a"}},
		{"missing address", model.OrderDraft{CustomerName: "n", CustomerPhone: "1"}},
		{"whitespace name", model.OrderDraft{CustomerName: "   ", CustomerPhone: "1", CustomerAddress: "a"}},
	} {
		err := ValidateDraft(tc.draft)
		assert.Truef(t, domainErrors.IsValidation(err), "%s: expected validation error, got %v", tc.name, err)
	}
}

func TestValidatePatch(t *testing.T) {
	name := "Boris"
	assert.NoError(t, ValidatePatch(model.OrderPatch{CustomerName: &name}))

	empty := "  "
	err := ValidatePatch(model.OrderPatch{CustomerName: &empty})
	assert.True(t, domainErrors.IsValidation(err))

	// Untouched fields are not checked.
	assert.NoError(t, ValidatePatch(model.OrderPatch{}))

	low, high, ok := 0, 10000, 9999
	assert.Error(t, ValidatePatch(model.OrderPatch{OrderNumber: &low}))
	assert.Error(t, ValidatePatch(model.OrderPatch{OrderNumber: &high}))
	assert.NoError(t, ValidatePatch(model.OrderPatch{OrderNumber: &ok}))
}

func TestValidateDetails(t *testing.T) {
	future := time.Now().Add(48 * time.Hour)
	past := time.Now().Add(-48 * time.Hour)

	valid := Details{CustomerRequirements: "green velvet", Deadline: future, Price: 25000}
	assert.NoError(t, ValidateDetails(valid, false))
	assert.NoError(t, ValidateDetails(valid, true))

	missingReq := valid
	missingReq.CustomerRequirements = "  "
	assert.Error(t, ValidateDetails(missingReq, false))

	missingDeadline := valid
	missingDeadline.Deadline = time.Time{}
	assert.Error(t, ValidateDetails(missingDeadline, false))

	badPrice := valid
	badPrice.Price = 0
	assert.Error(t, ValidateDetails(badPrice, false))

	// The future-deadline rule only applies when requested: the store
	// accepts past deadlines, the dashboard pre-flight rejects them.
	stale := valid
	stale.Deadline = past
	assert.NoError(t, ValidateDetails(stale, false))
	assert.Error(t, ValidateDetails(stale, true))
}
