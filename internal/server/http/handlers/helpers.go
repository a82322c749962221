package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/NarekMan21/test-deploy-crm/internal/domain/errors"
	"github.com/NarekMan21/test-deploy-crm/internal/domain/model"
	"github.com/NarekMan21/test-deploy-crm/internal/server/http/dto"
	"github.com/NarekMan21/test-deploy-crm/internal/server/http/middleware"
)

// CurrentUser extracts the authenticated user from context.
func CurrentUser(c *gin.Context) *model.User {
	val, ok := c.Get(middleware.UserContextKey)
	if !ok {
		return nil
	}
	user, _ := val.(*model.User)
	return user
}

// respondError maps domain errors to HTTP status codes with a JSON body
// carrying the failure reason in a "detail" field.
func respondError(c *gin.Context, err error) {
	var validation *domainErrors.ValidationError
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Detail: validation.Error()})
	case errors.Is(err, domainErrors.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Detail: err.Error()})
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Detail: err.Error()})
	case errors.Is(err, domainErrors.ErrUserDisabled):
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Detail: err.Error()})
	case errors.Is(err, domainErrors.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Detail: err.Error()})
	case errors.Is(err, domainErrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Detail: "order not found"})
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Detail: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Detail: "internal server error"})
	}
}
