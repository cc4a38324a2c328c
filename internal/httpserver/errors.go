package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pos-terminal/internal/backend"
	"pos-terminal/internal/cart"
	"pos-terminal/internal/checkout"
	"pos-terminal/internal/domain"
	"pos-terminal/internal/service/account"
)

const backendFailureMessage = "backend request failed"

// statusFor maps a service error to a status code and the message safe to
// show to the client.
func statusFor(err error) (int, string) {
	var apiErr *backend.APIError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, account.ErrInvalidCredentials), errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, checkout.ErrInvalidTransition):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrInvalid),
		errors.Is(err, cart.ErrOutOfStock),
		errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrPaymentMethodRequired),
		errors.Is(err, checkout.ErrPaymentInvalid),
		errors.Is(err, checkout.ErrInsufficientCash):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, backend.ErrUnavailable):
		return http.StatusServiceUnavailable, err.Error()
	case errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500:
		// The backend rejected the request itself; its message is meant for
		// the operator.
		return apiErr.Status, apiErr.Message
	default:
		return http.StatusBadGateway, backendFailureMessage
	}
}

func (h *handlers) writeError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": msg})
}
