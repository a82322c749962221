package usecase

import (
	"context"
	"strings"

	domainErrors "github.com/NarekMan21/test-deploy-crm/internal/domain/errors"
	"github.com/NarekMan21/test-deploy-crm/internal/domain/model"
	"github.com/NarekMan21/test-deploy-crm/internal/domain/repository"
	"github.com/NarekMan21/test-deploy-crm/internal/workflow"
)

// PhotoSaver stores an uploaded photo and returns the stored filename.
type PhotoSaver interface {
	Save(orderID int64, kind, originalName string, data []byte) (string, error)
}

// PhotoUpload carries one uploaded file from the transport layer.
type PhotoUpload struct {
	Filename string
	Data     []byte
}

// DetailsInput is the add-details step payload.
type DetailsInput struct {
	workflow.Details
	MaterialPhoto  *PhotoUpload
	FurniturePhoto *PhotoUpload
}

// OrderUseCase encapsulates the order workflow: creation, role-gated
// transitions, edits, and the audit trail. Every operation takes the
// acting user; the capability table decides what is allowed.
type OrderUseCase struct {
	orders  repository.OrderRepository
	history repository.HistoryRepository
	photos  PhotoSaver
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, history repository.HistoryRepository, photos PhotoSaver) *OrderUseCase {
	return &OrderUseCase{orders: orders, history: history, photos: photos}
}

// Create registers a new draft order. Admin only.
func (u *OrderUseCase) Create(ctx context.Context, actor *model.User, draft model.OrderDraft) (*model.Order, error) {
	if !workflow.CanCreate(actor.Role) {
		return nil, domainErrors.ErrPermissionDenied
	}

	draft.CustomerName = strings.TrimSpace(draft.CustomerName)
	draft.CustomerPhone = strings.TrimSpace(draft.CustomerPhone)
	draft.CustomerAddress = strings.TrimSpace(draft.CustomerAddress)
	draft.PhoneAgreementNotes = strings.TrimSpace(draft.PhoneAgreementNotes)
	if err := workflow.ValidateDraft(draft); err != nil {
		return nil, err
	}

	order, err := u.orders.Create(ctx, draft, actor.ID)
	if err != nil {
		return nil, err
	}

	u.log(ctx, order.ID, actor.ID, model.ActionLogCreated, nil)
	return order, nil
}

// List returns orders the actor may see, masked for their role. An empty
// statusFilter or "all" keeps the full role scope.
func (u *OrderUseCase) List(ctx context.Context, actor *model.User, statusFilter string) ([]model.Order, error) {
	scope := workflow.ListScope(actor.Role)

	if statusFilter != "" && statusFilter != "all" {
		status := model.OrderStatus(statusFilter)
		if !status.Valid() {
			return nil, domainErrors.Validation("unknown status %q", statusFilter)
		}
		if scope == nil {
			scope = []model.OrderStatus{status}
		} else if containsStatus(scope, status) {
			scope = []model.OrderStatus{status}
		} else {
			return []model.Order{}, nil
		}
	}

	orders, err := u.orders.List(ctx, scope)
	if err != nil {
		return nil, err
	}

	masked := make([]model.Order, 0, len(orders))
	for _, order := range orders {
		masked = append(masked, workflow.Mask(order, actor.Role))
	}
	return masked, nil
}

// Get returns one order, enforcing per-role read access and masking.
func (u *OrderUseCase) Get(ctx context.Context, actor *model.User, id int64) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !workflow.CanView(actor.Role, order.Status) {
		return nil, domainErrors.ErrPermissionDenied
	}
	masked := workflow.Mask(*order, actor.Role)
	return &masked, nil
}

// Update applies an admin edit. Omitted fields stay unchanged; the diff
// of what actually changed lands in the audit trail.
func (u *OrderUseCase) Update(ctx context.Context, actor *model.User, id int64, patch model.OrderPatch) (*model.Order, error) {
	before, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := workflow.CanPerform(actor.Role, workflow.ActionEdit, before.Status); err != nil {
		return nil, err
	}
	if err := workflow.ValidatePatch(patch); err != nil {
		return nil, err
	}

	after, err := u.orders.Update(ctx, id, patch, actor.ID)
	if err != nil {
		return nil, err
	}

	if changes := diffOrders(before, after); len(changes) > 0 {
		u.log(ctx, id, actor.ID, model.ActionLogUpdated, changes)
	}
	return after, nil
}

// AddDetails sets requirements, deadline, price and optional photos.
// Confirmed orders move to in_progress.
func (u *OrderUseCase) AddDetails(ctx context.Context, actor *model.User, id int64, input DetailsInput) (*model.Order, error) {
	before, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := workflow.CanPerform(actor.Role, workflow.ActionAddDetails, before.Status); err != nil {
		return nil, err
	}

	input.CustomerRequirements = strings.TrimSpace(input.CustomerRequirements)
	if err := workflow.ValidateDetails(input.Details, false); err != nil {
		return nil, err
	}

	target := workflow.DetailsTarget(before.Status)
	patch := model.OrderPatch{
		CustomerRequirements: &input.CustomerRequirements,
		Deadline:             &input.Deadline,
		Price:                &input.Price,
		Status:               &target,
	}

	if input.MaterialPhoto != nil {
		name, err := u.photos.Save(id, "material", input.MaterialPhoto.Filename, input.MaterialPhoto.Data)
		if err != nil {
			return nil, err
		}
		patch.MaterialPhoto = &name
	}
	if input.FurniturePhoto != nil {
		name, err := u.photos.Save(id, "furniture", input.FurniturePhoto.Filename, input.FurniturePhoto.Data)
		if err != nil {
			return nil, err
		}
		patch.FurniturePhoto = &name
	}

	after, err := u.orders.Update(ctx, id, patch, actor.ID)
	if err != nil {
		return nil, err
	}

	if changes := diffOrders(before, after); len(changes) > 0 {
		u.log(ctx, id, actor.ID, model.ActionLogDetailsAdded, changes)
	}
	return after, nil
}

// Transition runs one of submit/confirm/complete/deliver. The capability
// table gates it; the repository re-checks the precondition inside the
// updating statement.
func (u *OrderUseCase) Transition(ctx context.Context, actor *model.User, id int64, action workflow.Action) (*model.Order, error) {
	target, ok := workflow.TransitionTarget(action)
	if !ok {
		return nil, domainErrors.Validation("unknown action %q", action)
	}

	before, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := workflow.CanPerform(actor.Role, action, before.Status); err != nil {
		return nil, err
	}

	var after *model.Order
	if action == workflow.ActionConfirm {
		after, err = u.orders.Confirm(ctx, id, actor.ID)
	} else {
		after, err = u.orders.Transition(ctx, id, before.Status, target, actor.ID)
	}
	if err != nil {
		return nil, err
	}

	changes := model.FieldChanges{}
	if action == workflow.ActionConfirm && after.OrderNumber != nil {
		changes["order_number"] = model.FieldChange{Old: nil, New: *after.OrderNumber}
	}
	u.log(ctx, id, actor.ID, transitionLogAction(action), changes)
	return after, nil
}

// Delete removes the order permanently. Admin only; photo files are left
// for the janitor to sweep.
func (u *OrderUseCase) Delete(ctx context.Context, actor *model.User, id int64) error {
	order, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := workflow.CanPerform(actor.Role, workflow.ActionDelete, order.Status); err != nil {
		return err
	}
	return u.orders.Delete(ctx, id)
}

// History returns the audit trail for an order the actor may see.
func (u *OrderUseCase) History(ctx context.Context, actor *model.User, id int64) ([]model.HistoryEntry, error) {
	order, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !workflow.CanView(actor.Role, order.Status) {
		return nil, domainErrors.ErrPermissionDenied
	}
	return u.history.ListByOrder(ctx, id)
}

// log appends an audit entry. Trail failures must not fail the operation
// that already committed, so they are swallowed here; the repository
// logs the write error itself.
func (u *OrderUseCase) log(ctx context.Context, orderID, userID int64, action string, changes model.FieldChanges) {
	_ = u.history.Append(ctx, orderID, userID, action, changes)
}

func transitionLogAction(action workflow.Action) string {
	switch action {
	case workflow.ActionSubmit:
		return model.ActionLogSubmitted
	case workflow.ActionConfirm:
		return model.ActionLogConfirmed
	case workflow.ActionComplete:
		return model.ActionLogCompleted
	case workflow.ActionDeliver:
		return model.ActionLogDelivered
	default:
		return string(action)
	}
}

func containsStatus(statuses []model.OrderStatus, status model.OrderStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

// diffOrders computes the field_changes payload for the audit trail.
func diffOrders(before, after *model.Order) model.FieldChanges {
	changes := model.FieldChanges{}

	addString := func(field, old, new string) {
		if old != new {
			changes[field] = model.FieldChange{Old: old, New: new}
		}
	}
	addString("customer_name", before.CustomerName, after.CustomerName)
	addString("customer_phone", before.CustomerPhone, after.CustomerPhone)
	addString("customer_address", before.CustomerAddress, after.CustomerAddress)
	addString("phone_agreement_notes", before.PhoneAgreementNotes, after.PhoneAgreementNotes)
	addString("customer_requirements", before.CustomerRequirements, after.CustomerRequirements)
	addString("material_photo", before.MaterialPhoto, after.MaterialPhoto)
	addString("furniture_photo", before.FurniturePhoto, after.FurniturePhoto)

	if intPtrValue(before.OrderNumber) != intPtrValue(after.OrderNumber) {
		changes["order_number"] = model.FieldChange{Old: intPtrAny(before.OrderNumber), New: intPtrAny(after.OrderNumber)}
	}
	if intPtrValue(before.Price) != intPtrValue(after.Price) {
		changes["price"] = model.FieldChange{Old: intPtrAny(before.Price), New: intPtrAny(after.Price)}
	}

	beforeDeadline, afterDeadline := "", ""
	if before.Deadline != nil {
		beforeDeadline = before.Deadline.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	if after.Deadline != nil {
		afterDeadline = after.Deadline.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	addString("deadline", beforeDeadline, afterDeadline)

	if before.Status != after.Status {
		changes["status"] = model.FieldChange{Old: string(before.Status), New: string(after.Status)}
	}

	if len(changes) == 0 {
		return nil
	}
	return changes
}

func intPtrValue(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func intPtrAny(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
