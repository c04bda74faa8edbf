package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListRestaurants returns the restaurants of the caller's country
func (h *Handler) ListRestaurants(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	restaurants, err := h.catalog.Restaurants(c.Request.Context(), user)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, restaurants)
}

// GetMenu returns the menu for a restaurant of the caller's country
func (h *Handler) GetMenu(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	items, err := h.catalog.Menu(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}
