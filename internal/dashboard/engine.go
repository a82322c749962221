package dashboard

import (
	"context"
	"strings"
	"sync"

	domainErrors "github.com/NarekMan21/test-deploy-crm/internal/domain/errors"
	"github.com/NarekMan21/test-deploy-crm/internal/domain/model"
	"github.com/NarekMan21/test-deploy-crm/internal/workflow"
)

// Summary is the dashboard's card counters.
type Summary struct {
	Total      int
	InProgress int
	Ready      int
}

// Engine owns the dashboard's working set of orders. The set is only
// ever replaced wholesale after a refresh; mutating calls re-fetch the
// list rather than patching it in place, so the view always reflects
// the store.
type Engine struct {
	client  *Client
	session *Session

	mu         sync.RWMutex
	orders     []model.Order
	filter     string
	generation uint64
}

// NewEngine builds an engine over the given client and session.
func NewEngine(client *Client, session *Session) *Engine {
	return &Engine{client: client, session: session}
}

// Restore re-validates a persisted token against the store. Any failure
// leaves the engine anonymous; the session is already cleared by the
// client when the store rejects the token.
func (e *Engine) Restore(ctx context.Context) *model.User {
	if !e.session.Authenticated() {
		return nil
	}
	user, err := e.client.WhoAmI(ctx)
	if err != nil {
		e.session.Clear()
		return nil
	}
	_ = e.session.Set(e.session.Token(), user)
	return user
}

// Login authenticates and loads the initial order list.
func (e *Engine) Login(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domainErrors.Validation("username and password are required")
	}
	user, err := e.client.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if err := e.Refresh(ctx); err != nil {
		return nil, err
	}
	return user, nil
}

// Logout clears the session and the working set.
func (e *Engine) Logout() {
	e.session.Clear()
	e.mu.Lock()
	e.orders = nil
	e.generation++
	e.mu.Unlock()
}

// CurrentUser returns the signed-in user or nil.
func (e *Engine) CurrentUser() *model.User {
	return e.session.CurrentUser()
}

// SetFilter narrows refreshes to one status ("all" or "" disables).
func (e *Engine) SetFilter(status string) {
	e.mu.Lock()
	e.filter = status
	e.mu.Unlock()
}

// Refresh replaces the working set with the store's current listing.
func (e *Engine) Refresh(ctx context.Context) error {
	e.mu.RLock()
	filter := e.filter
	e.mu.RUnlock()

	orders, err := e.client.ListOrders(ctx, filter)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.orders = orders
	e.generation++
	e.mu.Unlock()
	return nil
}

// Orders returns a snapshot of the working set.
func (e *Engine) Orders() []model.Order {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]model.Order, len(e.orders))
	copy(out, e.orders)
	return out
}

// Generation increments on every working-set replacement. Views key
// their caches on it.
func (e *Engine) Generation() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.generation
}

// CreateOrder validates the draft locally, creates it remotely, and
// refreshes the working set.
func (e *Engine) CreateOrder(ctx context.Context, draft model.OrderDraft) (*model.Order, error) {
	draft.CustomerName = strings.TrimSpace(draft.CustomerName)
	draft.CustomerPhone = strings.TrimSpace(draft.CustomerPhone)
	draft.CustomerAddress = strings.TrimSpace(draft.CustomerAddress)
	if err := workflow.ValidateDraft(draft); err != nil {
		return nil, err
	}

	order, err := e.client.CreateOrder(ctx, draft)
	if err != nil {
		return nil, err
	}
	if err := e.Refresh(ctx); err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateOrder validates the patch locally, applies it remotely, and
// refreshes the working set.
func (e *Engine) UpdateOrder(ctx context.Context, id int64, patch model.OrderPatch) (*model.Order, error) {
	if err := workflow.ValidatePatch(patch); err != nil {
		return nil, err
	}

	order, err := e.client.UpdateOrder(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if err := e.Refresh(ctx); err != nil {
		return nil, err
	}
	return order, nil
}

// AddDetails validates the form locally (including the dashboard-only
// future-deadline rule), submits it, and refreshes the working set.
func (e *Engine) AddDetails(ctx context.Context, id int64, form DetailsForm) (*model.Order, error) {
	details := workflow.Details{
		CustomerRequirements: form.CustomerRequirements,
		Deadline:             form.Deadline,
		Price:                form.Price,
	}
	if err := workflow.ValidateDetails(details, true); err != nil {
		return nil, err
	}

	order, err := e.client.AddDetails(ctx, id, form)
	if err != nil {
		return nil, err
	}
	if err := e.Refresh(ctx); err != nil {
		return nil, err
	}
	return order, nil
}

// Transition fires a workflow action and refreshes the working set.
func (e *Engine) Transition(ctx context.Context, id int64, action workflow.Action) (*model.Order, error) {
	order, err := e.client.Transition(ctx, id, action)
	if err != nil {
		return nil, err
	}
	if err := e.Refresh(ctx); err != nil {
		return nil, err
	}
	return order, nil
}

// Delete asks confirm before firing the remote call. A nil or declining
// confirm cancels silently.
func (e *Engine) Delete(ctx context.Context, id int64, confirm func() bool) error {
	if confirm == nil || !confirm() {
		return nil
	}
	if err := e.client.DeleteOrder(ctx, id); err != nil {
		return err
	}
	return e.Refresh(ctx)
}

// History fetches the audit trail for one order.
func (e *Engine) History(ctx context.Context, id int64) ([]model.HistoryEntry, error) {
	return e.client.GetHistory(ctx, id)
}

// OfferedActions lists the workflow actions the signed-in user may take
// on the order, in lifecycle order.
func (e *Engine) OfferedActions(order model.Order) []workflow.Action {
	user := e.session.CurrentUser()
	if user == nil {
		return nil
	}
	return workflow.ActionsFor(user.Role, order.Status)
}

// Visible applies role-based field masking at render time.
func (e *Engine) Visible(order model.Order) model.Order {
	user := e.session.CurrentUser()
	if user == nil {
		return model.Order{ID: order.ID, Status: order.Status}
	}
	return workflow.Mask(order, user.Role)
}

// Summarize computes the dashboard card counters from the working set.
func (e *Engine) Summarize() Summary {
	e.mu.RLock()
	defer e.mu.RUnlock()

	summary := Summary{Total: len(e.orders)}
	for _, order := range e.orders {
		switch order.Status {
		case model.StatusInProgress:
			summary.InProgress++
		case model.StatusReady:
			summary.Ready++
		}
	}
	return summary
}
