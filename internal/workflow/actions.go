// Package workflow owns the order status state machine: which actions each
// role may trigger at each status, which fields each role may see, and the
// shared field validation both the store and the dashboard apply.
package workflow

import (
	domainErrors "github.com/NarekMan21/test-deploy-crm/internal/domain/errors"
	"github.com/NarekMan21/test-deploy-crm/internal/domain/model"
)

// Action is a workflow operation on an existing order.
type Action string

const (
	ActionSubmit     Action = "submit"
	ActionConfirm    Action = "confirm"
	ActionAddDetails Action = "add_details"
	ActionComplete   Action = "complete"
	ActionDeliver    Action = "deliver"
	ActionEdit       Action = "edit"
	ActionDelete     Action = "delete"
)

// rule describes when a single action is offered: to whom, and from which
// statuses. A nil status set means "any status"; exclude trims it.
type rule struct {
	roles   []model.Role
	from    []model.OrderStatus
	exclude []model.OrderStatus
	// rejected is the store's message when the order is in the wrong
	// state for the action.
	rejected string
}

// capabilities is the declarative (role, status) -> offered actions table.
// The order store enforces the same table server-side; the dashboard only
// uses it to decide which actions to offer.
var capabilities = map[Action]rule{
	ActionSubmit: {
		roles:    []model.Role{model.RoleAdmin},
		from:     []model.OrderStatus{model.StatusDraft},
		rejected: "order already submitted",
	},
	ActionConfirm: {
		roles:    []model.Role{model.RoleAdmin},
		from:     []model.OrderStatus{model.StatusPendingConfirmation},
		rejected: "order not pending confirmation",
	},
	ActionComplete: {
		roles:    []model.Role{model.RoleWork},
		from:     []model.OrderStatus{model.StatusInProgress},
		rejected: "order not in progress",
	},
	ActionDeliver: {
		roles:    []model.Role{model.RoleLogist},
		from:     []model.OrderStatus{model.StatusReady},
		rejected: "order not ready",
	},
	ActionEdit: {
		roles: []model.Role{model.RoleAdmin},
	},
	ActionDelete: {
		roles: []model.Role{model.RoleAdmin},
	},
	// Add-details has a role-dependent status set, handled in statusAllowed.
	ActionAddDetails: {
		roles:    []model.Role{model.RoleLogist, model.RoleAdmin},
		rejected: "can only add details to confirmed orders",
	},
}

// transitionTarget maps transition actions to the status they produce.
var transitionTarget = map[Action]model.OrderStatus{
	ActionSubmit:   model.StatusPendingConfirmation,
	ActionConfirm:  model.StatusConfirmed,
	ActionComplete: model.StatusReady,
	ActionDeliver:  model.StatusDelivered,
}

func (r rule) roleAllowed(role model.Role) bool {
	for _, allowed := range r.roles {
		if role == allowed {
			return true
		}
	}
	return false
}

func statusAllowed(action Action, role model.Role, status model.OrderStatus) bool {
	if action == ActionAddDetails {
		// Logists fill in details on confirmed orders; admins may revisit
		// details at any point before delivery.
		if role == model.RoleAdmin {
			return !status.Terminal()
		}
		return status == model.StatusConfirmed
	}

	r := capabilities[action]
	if len(r.from) == 0 {
		return true
	}
	for _, from := range r.from {
		if status == from {
			return true
		}
	}
	return false
}

// CanPerform checks whether role may trigger action on an order in the
// given status. Returns ErrPermissionDenied when the role may never
// trigger the action, and an ErrInvalidTransition (with the store's
// message) when the role is right but the status is not.
func CanPerform(role model.Role, action Action, status model.OrderStatus) error {
	r, ok := capabilities[action]
	if !ok || !r.roleAllowed(role) {
		return domainErrors.ErrPermissionDenied
	}
	if !statusAllowed(action, role, status) {
		return domainErrors.Transition("%s", r.rejected)
	}
	return nil
}

// ActionsFor returns the set of actions offered to role for an order in
// the given status, in a stable display order.
func ActionsFor(role model.Role, status model.OrderStatus) []Action {
	ordered := []Action{
		ActionSubmit,
		ActionConfirm,
		ActionAddDetails,
		ActionComplete,
		ActionDeliver,
		ActionEdit,
		ActionDelete,
	}

	var offered []Action
	for _, action := range ordered {
		if CanPerform(role, action, status) == nil {
			offered = append(offered, action)
		}
	}
	return offered
}

// CanCreate reports whether role may create new orders.
func CanCreate(role model.Role) bool {
	return role == model.RoleAdmin
}

// TransitionTarget returns the status a transition action produces, and
// whether the action is a transition at all.
func TransitionTarget(action Action) (model.OrderStatus, bool) {
	target, ok := transitionTarget[action]
	return target, ok
}

// DetailsTarget returns the status an order ends up in after the
// add-details step: confirmed orders move to in_progress, anything else
// keeps its status.
func DetailsTarget(current model.OrderStatus) model.OrderStatus {
	if current == model.StatusConfirmed {
		return model.StatusInProgress
	}
	return current
}
