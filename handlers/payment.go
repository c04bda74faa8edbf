package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodiehub/service"
)

// ListPaymentMethods returns the payment methods of the admin's country
func (h *Handler) ListPaymentMethods(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	methods, err := h.payments.List(c.Request.Context(), user)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, methods)
}

func (h *Handler) GetPaymentMethod(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	pm, err := h.payments.Get(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pm)
}

// CreatePaymentMethod stores a payment method with its card number masked
func (h *Handler) CreatePaymentMethod(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req service.PaymentInput
	bindErr := bindBody(c, &req)

	pm, err := h.payments.Create(c.Request.Context(), user, req)
	if err != nil {
		h.respondServiceError(c, err, bindErr)
		return
	}
	c.JSON(http.StatusCreated, pm)
}

func (h *Handler) UpdatePaymentMethod(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req service.PaymentInput
	bindErr := bindBody(c, &req)

	pm, err := h.payments.Update(c.Request.Context(), user, c.Param("id"), req)
	if err != nil {
		h.respondServiceError(c, err, bindErr)
		return
	}
	c.JSON(http.StatusOK, pm)
}

func (h *Handler) DeletePaymentMethod(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	if err := h.payments.Delete(c.Request.Context(), user, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment method deleted successfully"})
}
