package workflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/NarekMan21/test-deploy-crm/internal/domain/errors"
	"github.com/NarekMan21/test-deploy-crm/internal/domain/model"
)

func TestCanPerformMatrix(t *testing.T) {
	type allowed struct {
		role   model.Role
		status model.OrderStatus
	}

	// Exhaustive allow list: any (role, action, status) combination not
	// named here must be rejected.
	allowTable := map[Action][]allowed{
		ActionSubmit:  {{model.RoleAdmin, model.StatusDraft}},
		ActionConfirm: {{model.RoleAdmin, model.StatusPendingConfirmation}},
		ActionAddDetails: {
			{model.RoleLogist, model.StatusConfirmed},
			{model.RoleAdmin, model.StatusDraft},
			{model.RoleAdmin, model.StatusPendingConfirmation},
			{model.RoleAdmin, model.StatusConfirmed},
			{model.RoleAdmin, model.StatusInProgress},
			{model.RoleAdmin, model.StatusReady},
		},
		ActionComplete: {{model.RoleWork, model.StatusInProgress}},
		ActionDeliver:  {{model.RoleLogist, model.StatusReady}},
	}
	for _, status := range model.AllStatuses() {
		allowTable[ActionEdit] = append(allowTable[ActionEdit], allowed{model.RoleAdmin, status})
		allowTable[ActionDelete] = append(allowTable[ActionDelete], allowed{model.RoleAdmin, status})
	}

	roles := []model.Role{model.RoleAdmin, model.RoleLogist, model.RoleWork}
	actions := []Action{ActionSubmit, ActionConfirm, ActionAddDetails, ActionComplete, ActionDeliver, ActionEdit, ActionDelete}

	for _, action := range actions {
		for _, role := range roles {
			for _, status := range model.AllStatuses() {
				err := CanPerform(role, action, status)

				want := false
				for _, a := range allowTable[action] {
					if a.role == role && a.status == status {
						want = true
						break
					}
				}

				if want {
					assert.NoErrorf(t, err, "%s/%s/%s should be allowed", role, action, status)
				} else {
					assert.Errorf(t, err, "%s/%s/%s should be rejected", role, action, status)
				}
			}
		}
	}
}

func TestCanPerformErrorKinds(t *testing.T) {
	// Wrong role: permission error regardless of status.
	err := CanPerform(model.RoleWork, ActionConfirm, model.StatusPendingConfirmation)
	require.ErrorIs(t, err, domainErrors.ErrPermissionDenied)

	// Right role, wrong status: transition error carrying the store message.
	err = CanPerform(model.RoleAdmin, ActionConfirm, model.StatusDraft)
	require.ErrorIs(t, err, domainErrors.ErrInvalidTransition)
	assert.Equal(t, "order not pending confirmation", err.Error())

	err = CanPerform(model.RoleAdmin, ActionSubmit, model.StatusConfirmed)
	require.ErrorIs(t, err, domainErrors.ErrInvalidTransition)
	assert.Equal(t, "order already submitted", err.Error())

	err = CanPerform(model.RoleLogist, ActionAddDetails, model.StatusDraft)
	require.ErrorIs(t, err, domainErrors.ErrInvalidTransition)
	assert.Equal(t, "can only add details to confirmed orders", err.Error())

	// Unknown action is a permission error, never a panic.
	err = CanPerform(model.RoleAdmin, Action("unknown"), model.StatusDraft)
	require.ErrorIs(t, err, domainErrors.ErrPermissionDenied)
}

func TestCanPerformNoActionOnDelivered(t *testing.T) {
	roles := []model.Role{model.RoleAdmin, model.RoleLogist, model.RoleWork}
	for _, role := range roles {
		for _, action := range []Action{ActionSubmit, ActionConfirm, ActionAddDetails, ActionComplete, ActionDeliver} {
			err := CanPerform(role, action, model.StatusDelivered)
			assert.Errorf(t, err, "%s/%s on delivered order should be rejected", role, action)
		}
	}
}

func TestActionsFor(t *testing.T) {
	tests := []struct {
		role   model.Role
		status model.OrderStatus
		want   []Action
	}{
		{model.RoleAdmin, model.StatusDraft, []Action{ActionSubmit, ActionAddDetails, ActionEdit, ActionDelete}},
		{model.RoleAdmin, model.StatusPendingConfirmation, []Action{ActionConfirm, ActionAddDetails, ActionEdit, ActionDelete}},
		{model.RoleAdmin, model.StatusDelivered, []Action{ActionEdit, ActionDelete}},
		{model.RoleLogist, model.StatusConfirmed, []Action{ActionAddDetails}},
		{model.RoleLogist, model.StatusReady, []Action{ActionDeliver}},
		{model.RoleLogist, model.StatusInProgress, nil},
		{model.RoleWork, model.StatusInProgress, []Action{ActionComplete}},
		{model.RoleWork, model.StatusReady, nil},
	}

	for _, tc := range tests {
		got := ActionsFor(tc.role, tc.status)
		assert.Equalf(t, tc.want, got, "actions for %s at %s", tc.role, tc.status)
	}
}

func TestCanCreate(t *testing.T) {
	assert.True(t, CanCreate(model.RoleAdmin))
	assert.False(t, CanCreate(model.RoleLogist))
	assert.False(t, CanCreate(model.RoleWork))
}

func TestTransitionTarget(t *testing.T) {
	tests := map[Action]model.OrderStatus{
		ActionSubmit:   model.StatusPendingConfirmation,
		ActionConfirm:  model.StatusConfirmed,
		ActionComplete: model.StatusReady,
		ActionDeliver:  model.StatusDelivered,
	}
	for action, want := range tests {
		got, ok := TransitionTarget(action)
		require.Truef(t, ok, "%s should be a transition", action)
		assert.Equal(t, want, got)
	}

	_, ok := TransitionTarget(ActionEdit)
	assert.False(t, ok, "edit is not a transition")
}

func TestDetailsTarget(t *testing.T) {
	assert.Equal(t, model.StatusInProgress, DetailsTarget(model.StatusConfirmed))
	assert.Equal(t, model.StatusDraft, DetailsTarget(model.StatusDraft))
	assert.Equal(t, model.StatusReady, DetailsTarget(model.StatusReady))
}

func TestTransitionErrorMatchesSentinel(t *testing.T) {
	err := domainErrors.Transition("order not ready")
	assert.True(t, errors.Is(err, domainErrors.ErrInvalidTransition))
	assert.Equal(t, "order not ready", err.Error())
}
