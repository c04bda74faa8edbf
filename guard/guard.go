// Package guard decides whether a user may act on a resource. Every check is
// a pure function of its arguments.
package guard

import (
	"fmt"
	"slices"
	"strings"

	"foodiehub/apperr"
	"foodiehub/models"
)

var (
	OrderPlacers  = []models.UserRole{models.RoleAdmin, models.RoleManager, models.RoleMember}
	OrderManagers = []models.UserRole{models.RoleAdmin, models.RoleManager}
	PaymentAdmins = []models.UserRole{models.RoleAdmin}
)

// AuthorizeRole denies unless the user's role is one of allowed.
func AuthorizeRole(user models.User, allowed ...models.UserRole) error {
	if slices.Contains(allowed, user.Role) {
		return nil
	}
	return fmt.Errorf("%w: required role(s): %s", apperr.ErrForbidden, rolesString(allowed))
}

// AuthorizeCountry denies unless the resource belongs to the user's country.
// Admins get no exception.
func AuthorizeCountry(user models.User, resourceCountry string) error {
	if resourceCountry == user.Country {
		return nil
	}
	return fmt.Errorf("%w to your assigned country", apperr.ErrForbidden)
}

// Authorize applies the role check, then the country check.
func Authorize(user models.User, resourceCountry string, allowed ...models.UserRole) error {
	if err := AuthorizeRole(user, allowed...); err != nil {
		return err
	}
	return AuthorizeCountry(user, resourceCountry)
}

func rolesString(roles []models.UserRole) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, ", ")
}
