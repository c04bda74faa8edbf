package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodiehub/service"
)

// PlaceOrder creates a pending order
func (h *Handler) PlaceOrder(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req service.PlaceOrderInput
	bindErr := bindBody(c, &req)

	order, err := h.orders.Create(c.Request.Context(), user, req)
	if err != nil {
		h.respondServiceError(c, err, bindErr)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// GetMyOrders returns the caller's orders in their country, newest first
func (h *Handler) GetMyOrders(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	orders, err := h.orders.List(c.Request.Context(), user)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// CancelOrder cancels a pending order (admin, manager)
func (h *Handler) CancelOrder(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	order, err := h.orders.Cancel(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled successfully", "order": order})
}

// CheckoutOrder pays a pending order with a stored payment method (admin, manager)
func (h *Handler) CheckoutOrder(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req service.CheckoutInput
	bindErr := bindBody(c, &req)

	order, err := h.orders.Checkout(c.Request.Context(), user, c.Param("id"), req)
	if err != nil {
		h.respondServiceError(c, err, bindErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order paid successfully", "order": order})
}
