package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"foodiehub/apperr"
	"foodiehub/guard"
	"foodiehub/models"
)

const currentUserKey = "currentUser"

// TokenResolver turns a bearer token into the current user record.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (models.User, error)
}

// AuthRequired validates the bearer token and injects the user into context.
// A missing token is 401, a bad or expired one 403, and a token whose user
// no longer exists 401.
func AuthRequired(resolver TokenResolver, logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}
		user, err := resolver.Resolve(c.Request.Context(), token)
		switch {
		case err == nil:
			c.Set(currentUserKey, user)
			c.Next()
		case errors.Is(err, apperr.ErrUserNotFound):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		case errors.Is(err, apperr.ErrTokenExpired):
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Token expired"})
		case errors.Is(err, apperr.ErrInvalidToken):
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid token"})
		default:
			logger.ErrorContext(c.Request.Context(), "resolve token", slog.String("path", c.FullPath()), slog.Any("error", err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RoleRequired enforces that caller has one of the allowed roles.
func RoleRequired(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}
		if err := guard.AuthorizeRole(user, roles...); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user injected by AuthRequired.
func CurrentUser(c *gin.Context) (models.User, bool) {
	val, ok := c.Get(currentUserKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := val.(models.User)
	return user, ok
}
