package routes

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"foodiehub/guard"
	"foodiehub/handlers"
	"foodiehub/middleware"
)

func SetupRoutes(r *gin.Engine, h *handlers.Handler, resolver middleware.TokenResolver, logger *slog.Logger) {
	r.GET("/health", h.Health)

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/auth/login", h.Login)
		public.GET("/state-machine", h.GetStateMachineInfo)
		public.GET("/config", h.GetConfig)
	}

	// ── Authenticated routes ───────────────────────────────────────
	authed := r.Group("/api")
	authed.Use(middleware.AuthRequired(resolver, logger))
	{
		authed.GET("/auth/me", h.Me)
		authed.GET("/restaurants", h.ListRestaurants)
		authed.GET("/restaurants/:id/menu", h.GetMenu)
		authed.GET("/orders", h.GetMyOrders)
		authed.POST("/orders", middleware.RoleRequired(guard.OrderPlacers...), h.PlaceOrder)
	}

	// ── Order management (admin, manager) ──────────────────────────
	orders := r.Group("/api/orders")
	orders.Use(middleware.AuthRequired(resolver, logger), middleware.RoleRequired(guard.OrderManagers...))
	{
		orders.PATCH("/:id/cancel", h.CancelOrder)
		orders.POST("/:id/checkout", h.CheckoutOrder)
	}

	// ── Payment methods (admin) ────────────────────────────────────
	payments := r.Group("/api/payments")
	payments.Use(middleware.AuthRequired(resolver, logger), middleware.RoleRequired(guard.PaymentAdmins...))
	{
		payments.GET("", h.ListPaymentMethods)
		payments.POST("", h.CreatePaymentMethod)
		payments.GET("/:id", h.GetPaymentMethod)
		payments.PUT("/:id", h.UpdatePaymentMethod)
		payments.DELETE("/:id", h.DeletePaymentMethod)
	}
}
