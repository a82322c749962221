package workflow

import "github.com/NarekMan21/test-deploy-crm/internal/domain/model"

// Mask returns a copy of the order with fields the role must not see
// cleared. Workshop accounts never see customer contact data or money;
// price is admin-only. The store applies this before serializing, and the
// dashboard applies it again at render time rather than trusting the
// store's copy.
func Mask(order model.Order, role model.Role) model.Order {
	masked := order
	switch role {
	case model.RoleAdmin:
		// full record
	case model.RoleLogist:
		masked.Price = nil
	default:
		masked.CustomerPhone = ""
		masked.CustomerAddress = ""
		masked.PhoneAgreementNotes = ""
		masked.Price = nil
	}
	return masked
}

// ListScope returns the statuses a role's order list is limited to.
// nil means unrestricted (admins see everything).
func ListScope(role model.Role) []model.OrderStatus {
	switch role {
	case model.RoleLogist:
		return []model.OrderStatus{model.StatusConfirmed, model.StatusReady}
	case model.RoleWork:
		return []model.OrderStatus{model.StatusInProgress, model.StatusReady}
	default:
		return nil
	}
}

// CanView checks per-order read access: logists are blocked from drafts,
// workshop accounts only open orders that are theirs to execute.
func CanView(role model.Role, status model.OrderStatus) bool {
	switch role {
	case model.RoleLogist:
		return status != model.StatusDraft
	case model.RoleWork:
		return status == model.StatusInProgress || status == model.StatusReady
	default:
		return true
	}
}
