package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"foodiehub/models"
	"foodiehub/seed"
	"foodiehub/statemachine"
)

// Health pings the store and reports uptime
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	uptime := time.Since(h.started).Truncate(time.Second).String()
	if err := h.store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"store":  err.Error(),
			"uptime": uptime,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.ui.AppName,
		"uptime":  uptime,
	})
}

// GetStateMachineInfo returns the order state machine for informational purposes
func (h *Handler) GetStateMachineInfo(c *gin.Context) {
	var terminal []models.OrderStatus
	for _, s := range []models.OrderStatus{models.StatusPending, models.StatusPaid, models.StatusCancelled} {
		if statemachine.IsTerminal(s) {
			terminal = append(terminal, s)
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"stateMachine":   statemachine.GetAllTransitions(),
		"initialState":   models.StatusPending,
		"terminalStates": terminal,
		"description":    "Order lifecycle: a pending order is either paid or cancelled",
	})
}

// GetConfig returns the client configuration. Sample logins are only
// exposed in dev mode.
func (h *Handler) GetConfig(c *gin.Context) {
	body := gin.H{
		"appName":        h.ui.AppName,
		"appDescription": h.ui.AppDescription,
		"countryFlags":   h.ui.CountryFlags,
		"roles":          h.ui.Roles,
		"devMode":        h.devMode,
	}
	if h.devMode {
		body["sampleUsers"] = seed.SampleUsers()
	}
	c.JSON(http.StatusOK, body)
}
