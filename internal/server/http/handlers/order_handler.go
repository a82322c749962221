package handlers

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/NarekMan21/test-deploy-crm/internal/domain/errors"
	"github.com/NarekMan21/test-deploy-crm/internal/domain/model"
	"github.com/NarekMan21/test-deploy-crm/internal/server/http/dto"
	"github.com/NarekMan21/test-deploy-crm/internal/usecase"
	"github.com/NarekMan21/test-deploy-crm/internal/workflow"
)

// deadlineFormats lists accepted deadline representations, tried in order.
var deadlineFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02",
}

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// List handles GET /api/orders. An optional status_filter query narrows
// the role-scoped listing further.
func (h *OrderHandler) List(c *gin.Context) {
	actor := CurrentUser(c)
	orders, err := h.facade.Orders(c.Request.Context(), actor, c.Query("status_filter"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, dto.FromOrder(o))
	}
	c.JSON(http.StatusOK, response)
}

// Create handles POST /api/orders. The draft arrives form-encoded.
func (h *OrderHandler) Create(c *gin.Context) {
	actor := CurrentUser(c)
	draft := model.OrderDraft{
		CustomerName:        c.PostForm("customer_name"),
		CustomerPhone:       c.PostForm("customer_phone"),
		CustomerAddress:     c.PostForm("customer_address"),
		PhoneAgreementNotes: c.PostForm("phone_agreement_notes"),
	}

	order, err := h.facade.CreateOrder(c.Request.Context(), actor, draft)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromOrder(*order))
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	actor := CurrentUser(c)
	id, ok := orderID(c)
	if !ok {
		return
	}

	order, err := h.facade.Order(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromOrder(*order))
}

// Update handles PUT /api/orders/:id. Only fields present in the form
// are touched, so an empty value clears a field while an absent one
// leaves it alone.
func (h *OrderHandler) Update(c *gin.Context) {
	actor := CurrentUser(c)
	id, ok := orderID(c)
	if !ok {
		return
	}

	var patch model.OrderPatch
	if v, present := c.GetPostForm("customer_name"); present {
		patch.CustomerName = &v
	}
	if v, present := c.GetPostForm("customer_phone"); present {
		patch.CustomerPhone = &v
	}
	if v, present := c.GetPostForm("customer_address"); present {
		patch.CustomerAddress = &v
	}
	if v, present := c.GetPostForm("phone_agreement_notes"); present {
		patch.PhoneAgreementNotes = &v
	}
	if v, present := c.GetPostForm("customer_requirements"); present {
		patch.CustomerRequirements = &v
	}
	if v, present := c.GetPostForm("deadline"); present && v != "" {
		deadline, err := parseDeadline(v)
		if err != nil {
			respondError(c, domainErrors.Validation("invalid deadline format"))
			return
		}
		patch.Deadline = &deadline
	}
	if v, present := c.GetPostForm("price"); present && v != "" {
		price, err := strconv.Atoi(v)
		if err != nil {
			respondError(c, domainErrors.Validation("price must be a number"))
			return
		}
		patch.Price = &price
	}
	if v, present := c.GetPostForm("order_number"); present && v != "" {
		number, err := strconv.Atoi(v)
		if err != nil {
			respondError(c, domainErrors.Validation("order number must be a number"))
			return
		}
		patch.OrderNumber = &number
	}

	order, err := h.facade.UpdateOrder(c.Request.Context(), actor, id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromOrder(*order))
}

// Delete handles DELETE /api/orders/:id.
func (h *OrderHandler) Delete(c *gin.Context) {
	actor := CurrentUser(c)
	id, ok := orderID(c)
	if !ok {
		return
	}

	if err := h.facade.DeleteOrder(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "order deleted"})
}

// Submit handles POST /api/orders/:id/submit.
func (h *OrderHandler) Submit(c *gin.Context) {
	h.transition(c, workflow.ActionSubmit)
}

// Confirm handles POST /api/orders/:id/confirm. The store assigns the
// next free order number as part of the transition.
func (h *OrderHandler) Confirm(c *gin.Context) {
	h.transition(c, workflow.ActionConfirm)
}

// Complete handles POST /api/orders/:id/complete.
func (h *OrderHandler) Complete(c *gin.Context) {
	h.transition(c, workflow.ActionComplete)
}

// Deliver handles POST /api/orders/:id/ready.
func (h *OrderHandler) Deliver(c *gin.Context) {
	h.transition(c, workflow.ActionDeliver)
}

func (h *OrderHandler) transition(c *gin.Context, action workflow.Action) {
	actor := CurrentUser(c)
	id, ok := orderID(c)
	if !ok {
		return
	}

	order, err := h.facade.TransitionOrder(c.Request.Context(), actor, id, action)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromOrder(*order))
}

// Details handles PUT /api/orders/:id/details. Multipart: text fields
// plus optional material_photo and furniture_photo files.
func (h *OrderHandler) Details(c *gin.Context) {
	actor := CurrentUser(c)
	id, ok := orderID(c)
	if !ok {
		return
	}

	input := usecase.DetailsInput{}
	input.CustomerRequirements = c.PostForm("customer_requirements")

	if v := strings.TrimSpace(c.PostForm("deadline")); v != "" {
		deadline, err := parseDeadline(v)
		if err != nil {
			respondError(c, domainErrors.Validation("invalid deadline format"))
			return
		}
		input.Deadline = deadline
	}
	if v := strings.TrimSpace(c.PostForm("price")); v != "" {
		price, err := strconv.Atoi(v)
		if err != nil {
			respondError(c, domainErrors.Validation("price must be a number"))
			return
		}
		input.Price = price
	}

	material, err := formPhoto(c, "material_photo")
	if err != nil {
		respondError(c, err)
		return
	}
	input.MaterialPhoto = material

	furniture, err := formPhoto(c, "furniture_photo")
	if err != nil {
		respondError(c, err)
		return
	}
	input.FurniturePhoto = furniture

	order, err := h.facade.AddOrderDetails(c.Request.Context(), actor, id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromOrder(*order))
}

// History handles GET /api/orders/:id/history.
func (h *OrderHandler) History(c *gin.Context) {
	actor := CurrentUser(c)
	id, ok := orderID(c)
	if !ok {
		return
	}

	entries, err := h.facade.OrderHistory(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]dto.HistoryResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, dto.FromHistory(entry))
	}
	c.JSON(http.StatusOK, response)
}

func orderID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, domainErrors.Validation("invalid order id"))
		return 0, false
	}
	return id, true
}

func parseDeadline(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range deadlineFormats {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func formPhoto(c *gin.Context, field string) (*usecase.PhotoUpload, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile || err == http.ErrNotMultipart {
			return nil, nil
		}
		return nil, domainErrors.Validation("invalid %s upload", field)
	}

	file, err := header.Open()
	if err != nil {
		return nil, domainErrors.Validation("invalid %s upload", field)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, domainErrors.Validation("could not read %s", field)
	}

	return &usecase.PhotoUpload{Filename: header.Filename, Data: data}, nil
}
