package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	domainErrors "github.com/NarekMan21/test-deploy-crm/internal/domain/errors"
	"github.com/NarekMan21/test-deploy-crm/internal/domain/model"
	"github.com/NarekMan21/test-deploy-crm/internal/server/http/dto"
	"github.com/NarekMan21/test-deploy-crm/internal/workflow"
)

// RemoteError is a non-auth failure reported by the store, carrying the
// HTTP status and the human-readable detail message when one was sent.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// transitionPaths maps workflow actions to their store endpoints. The
// deliver action historically lives under /ready.
var transitionPaths = map[workflow.Action]string{
	workflow.ActionSubmit:   "submit",
	workflow.ActionConfirm:  "confirm",
	workflow.ActionComplete: "complete",
	workflow.ActionDeliver:  "ready",
}

// PhotoFile is one photo attachment for the add-details call.
type PhotoFile struct {
	Name string
	Data []byte
}

// DetailsForm is the add-details payload sent by the dashboard.
type DetailsForm struct {
	CustomerRequirements string
	Deadline             time.Time
	Price                int
	MaterialPhoto        *PhotoFile
	FurniturePhoto       *PhotoFile
}

// Client talks to the store's REST API. Calls never retry: a failed
// mutation must surface immediately so the user decides what to do.
// Any 401 or 403 on an authenticated call clears the session and
// surfaces as ErrAuthExpired.
type Client struct {
	http    *resty.Client
	session *Session
}

// NewClient builds a client bound to the store at baseURL.
func NewClient(baseURL string, session *Session) *Client {
	return &Client{
		http:    resty.New().SetBaseURL(baseURL),
		session: session,
	}
}

// Login authenticates and persists the returned token and user.
func (c *Client) Login(ctx context.Context, username, password string) (*model.User, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"username": username,
			"password": password,
		}).
		Post("/api/auth/login")
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, remoteError(resp)
	}

	var body dto.LoginResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, err
	}
	user := &model.User{
		ID:       body.User.ID,
		Username: body.User.Username,
		Role:     model.Role(body.User.Role),
		Active:   true,
	}
	if err := c.session.Set(body.AccessToken, user); err != nil {
		return nil, err
	}
	return user, nil
}

// WhoAmI validates the persisted token against the store.
func (c *Client) WhoAmI(ctx context.Context) (*model.User, error) {
	resp, err := c.authed(ctx).Get("/api/auth/me")
	if err != nil {
		return nil, err
	}
	if err := c.check(resp); err != nil {
		return nil, err
	}

	var body dto.UserResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, err
	}
	return &model.User{
		ID:       body.ID,
		Username: body.Username,
		Role:     model.Role(body.Role),
		Active:   true,
	}, nil
}

// ListOrders fetches the role-scoped listing, optionally narrowed to one
// status ("all" and "" mean no narrowing).
func (c *Client) ListOrders(ctx context.Context, statusFilter string) ([]model.Order, error) {
	req := c.authed(ctx)
	if statusFilter != "" {
		req.SetQueryParam("status_filter", statusFilter)
	}
	resp, err := req.Get("/api/orders")
	if err != nil {
		return nil, err
	}
	if err := c.check(resp); err != nil {
		return nil, err
	}

	var body []dto.OrderResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, err
	}
	orders := make([]model.Order, 0, len(body))
	for _, item := range body {
		orders = append(orders, item.ToOrder())
	}
	return orders, nil
}

// GetOrder fetches one order.
func (c *Client) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	resp, err := c.authed(ctx).Get(orderPath(id))
	if err != nil {
		return nil, err
	}
	return c.decodeOrder(resp)
}

// CreateOrder registers a new draft order.
func (c *Client) CreateOrder(ctx context.Context, draft model.OrderDraft) (*model.Order, error) {
	resp, err := c.authed(ctx).
		SetFormData(map[string]string{
			"customer_name":         draft.CustomerName,
			"customer_phone":        draft.CustomerPhone,
			"customer_address":      draft.CustomerAddress,
			"phone_agreement_notes": draft.PhoneAgreementNotes,
		}).
		Post("/api/orders")
	if err != nil {
		return nil, err
	}
	return c.decodeOrder(resp)
}

// UpdateOrder sends a partial edit: only non-nil patch fields travel.
func (c *Client) UpdateOrder(ctx context.Context, id int64, patch model.OrderPatch) (*model.Order, error) {
	form := map[string]string{}
	if patch.CustomerName != nil {
		form["customer_name"] = *patch.CustomerName
	}
	if patch.CustomerPhone != nil {
		form["customer_phone"] = *patch.CustomerPhone
	}
	if patch.CustomerAddress != nil {
		form["customer_address"] = *patch.CustomerAddress
	}
	if patch.PhoneAgreementNotes != nil {
		form["phone_agreement_notes"] = *patch.PhoneAgreementNotes
	}
	if patch.CustomerRequirements != nil {
		form["customer_requirements"] = *patch.CustomerRequirements
	}
	if patch.Deadline != nil {
		form["deadline"] = patch.Deadline.Format(time.RFC3339)
	}
	if patch.Price != nil {
		form["price"] = strconv.Itoa(*patch.Price)
	}
	if patch.OrderNumber != nil {
		form["order_number"] = strconv.Itoa(*patch.OrderNumber)
	}

	resp, err := c.authed(ctx).SetFormData(form).Put(orderPath(id))
	if err != nil {
		return nil, err
	}
	return c.decodeOrder(resp)
}

// DeleteOrder removes an order.
func (c *Client) DeleteOrder(ctx context.Context, id int64) error {
	resp, err := c.authed(ctx).Delete(orderPath(id))
	if err != nil {
		return err
	}
	return c.check(resp)
}

// Transition fires a workflow action against the store.
func (c *Client) Transition(ctx context.Context, id int64, action workflow.Action) (*model.Order, error) {
	path, ok := transitionPaths[action]
	if !ok {
		return nil, domainErrors.Validation("unknown action %q", action)
	}
	resp, err := c.authed(ctx).Post(orderPath(id) + "/" + path)
	if err != nil {
		return nil, err
	}
	return c.decodeOrder(resp)
}

// AddDetails submits the requirements, deadline, price and optional
// photos as a multipart form.
func (c *Client) AddDetails(ctx context.Context, id int64, form DetailsForm) (*model.Order, error) {
	req := c.authed(ctx).
		SetFormData(map[string]string{
			"customer_requirements": form.CustomerRequirements,
			"deadline":              form.Deadline.Format(time.RFC3339),
			"price":                 strconv.Itoa(form.Price),
		})
	if form.MaterialPhoto != nil {
		req.SetFileReader("material_photo", form.MaterialPhoto.Name, bytes.NewReader(form.MaterialPhoto.Data))
	}
	if form.FurniturePhoto != nil {
		req.SetFileReader("furniture_photo", form.FurniturePhoto.Name, bytes.NewReader(form.FurniturePhoto.Data))
	}

	resp, err := req.Put(orderPath(id) + "/details")
	if err != nil {
		return nil, err
	}
	return c.decodeOrder(resp)
}

// GetHistory fetches the order's audit trail, newest first.
func (c *Client) GetHistory(ctx context.Context, id int64) ([]model.HistoryEntry, error) {
	resp, err := c.authed(ctx).Get(orderPath(id) + "/history")
	if err != nil {
		return nil, err
	}
	if err := c.check(resp); err != nil {
		return nil, err
	}

	var body []dto.HistoryResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, err
	}
	entries := make([]model.HistoryEntry, 0, len(body))
	for _, item := range body {
		entries = append(entries, model.HistoryEntry{
			Username:     item.User,
			Action:       item.Action,
			FieldChanges: model.FieldChanges(item.FieldChanges),
			Timestamp:    item.Timestamp,
		})
	}
	return entries, nil
}

func (c *Client) authed(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if token := c.session.Token(); token != "" {
		req.SetAuthToken(token)
	}
	return req
}

// check maps a failed response to an error. Authentication failures on
// an authenticated call clear the session so stale tokens never linger.
func (c *Client) check(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}
	status := resp.StatusCode()
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		c.session.Clear()
		return domainErrors.ErrAuthExpired
	}
	return remoteError(resp)
}

func (c *Client) decodeOrder(resp *resty.Response) (*model.Order, error) {
	if err := c.check(resp); err != nil {
		return nil, err
	}
	var body dto.OrderResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, err
	}
	order := body.ToOrder()
	return &order, nil
}

func remoteError(resp *resty.Response) error {
	var body dto.ErrorResponse
	_ = json.Unmarshal(resp.Body(), &body)
	return &RemoteError{Status: resp.StatusCode(), Message: body.Detail}
}

func orderPath(id int64) string {
	return "/api/orders/" + strconv.FormatInt(id, 10)
}
