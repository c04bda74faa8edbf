// Package handlers exposes the services over HTTP with gin.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"foodiehub/apperr"
	"foodiehub/auth"
	"foodiehub/config"
	"foodiehub/middleware"
	"foodiehub/models"
	"foodiehub/service"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves every API route.
type Handler struct {
	auth     *auth.Service
	catalog  *service.CatalogService
	orders   *service.OrderService
	payments *service.PaymentService
	store    Pinger
	ui       config.UI
	devMode  bool
	started  time.Time
	logger   *slog.Logger
}

type Deps struct {
	Auth     *auth.Service
	Catalog  *service.CatalogService
	Orders   *service.OrderService
	Payments *service.PaymentService
	Store    Pinger
	UI       config.UI
	DevMode  bool
	Logger   *slog.Logger
}

func New(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		auth:     d.Auth,
		catalog:  d.Catalog,
		orders:   d.Orders,
		payments: d.Payments,
		store:    d.Store,
		ui:       d.UI,
		devMode:  d.DevMode,
		started:  time.Now(),
		logger:   logger,
	}
}

// respondError maps service errors onto status codes. Unknown errors are
// logged and reported without detail.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperr.ErrInvalidCredentials), errors.Is(err, apperr.ErrUserNotFound):
		status = http.StatusUnauthorized
	case errors.Is(err, apperr.ErrInvalidToken), errors.Is(err, apperr.ErrTokenExpired), errors.Is(err, apperr.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperr.ErrInvalidTransition):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, apperr.ErrValidation):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(c.Request.Context(), "request failed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Any("error", err))
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// bindBody decodes the JSON body into dst. On failure dst is reset to its
// zero value so the service still applies its role and country checks
// before rejecting the payload.
func bindBody[T any](c *gin.Context, dst *T) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		var zero T
		*dst = zero
		return err
	}
	return nil
}

// respondServiceError prefers the decode error over the validation error it
// caused.
func (h *Handler) respondServiceError(c *gin.Context, err, bindErr error) {
	if bindErr != nil && errors.Is(err, apperr.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + bindErr.Error()})
		return
	}
	h.respondError(c, err)
}

func (h *Handler) currentUser(c *gin.Context) (models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
	}
	return user, ok
}
