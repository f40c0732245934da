package handlers

import (
	"errors"
	"net/http"

	"github.com/lnascimentosilva/library/internal/domain"
	"github.com/lnascimentosilva/library/internal/http/middleware"
	"github.com/lnascimentosilva/library/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every non-validation error.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// ValidationResponse lists every field error found for one input.
type ValidationResponse struct {
	Errors []domain.FieldError `json:"errors"`
}

// ConflictResponse reports an existing entity with the same unique field.
type ConflictResponse struct {
	Code    string `json:"code"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func respondError(c *gin.Context, status int, code, message string) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.JSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		RequestID: middleware.GetRequestID(c),
	})
}

// RespondDomainError maps domain errors to HTTP responses.
func RespondDomainError(c *gin.Context, err error) {
	var (
		verr     domain.ValidationError
		conflict domain.ConflictError
	)
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, ValidationResponse{Errors: verr.Errors})
	case errors.As(err, &conflict):
		c.JSON(http.StatusUnprocessableEntity, ConflictResponse{
			Code:    conflict.Code(),
			Field:   conflict.Field,
			Message: conflict.Error(),
		})
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error())
	case domain.IsForbidden(err):
		respondError(c, http.StatusForbidden, "forbidden", err.Error())
	default:
		utils.Log().Error("request failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		respondError(c, http.StatusInternalServerError, "internal_error", "unexpected error")
	}
}
