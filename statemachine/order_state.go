package statemachine

import (
	"fmt"
	"strings"

	"foodiehub/apperr"
	"foodiehub/models"
)

// Transition defines a valid state change and the roles that can perform it
type Transition struct {
	From  models.OrderStatus `json:"from"`
	To    models.OrderStatus `json:"to"`
	Roles []models.UserRole  `json:"roles"`
}

// validTransitions is the authoritative state machine definition
var validTransitions = []Transition{
	// Checkout simulates a charge against a stored payment method
	{From: models.StatusPending, To: models.StatusPaid, Roles: []models.UserRole{models.RoleAdmin, models.RoleManager}},
	{From: models.StatusPending, To: models.StatusCancelled, Roles: []models.UserRole{models.RoleAdmin, models.RoleManager}},
}

type transitionKey struct {
	From models.OrderStatus
	To   models.OrderStatus
	Role models.UserRole
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		for _, r := range t.Roles {
			m[transitionKey{t.From, t.To, r}] = true
		}
	}
	return m
}()

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// IsTerminal reports whether no transition leaves status.
func IsTerminal(status models.OrderStatus) bool {
	return len(ValidTransitionsFrom(status)) == 0
}

// CanTransition checks whether role may move an order from one state to
// another. A move the table does not contain at all fails with
// ErrInvalidTransition; a known move attempted by the wrong role fails with
// ErrForbidden.
func CanTransition(from, to models.OrderStatus, role models.UserRole) error {
	if transitionMap[transitionKey{From: from, To: to, Role: role}] {
		return nil
	}
	for _, t := range validTransitions {
		if t.From == from && t.To == to {
			return fmt.Errorf("%w: role %q cannot move an order from %s to %s", apperr.ErrForbidden, role, from, to)
		}
	}
	return fmt.Errorf("%w: %s → %s is not allowed; valid transitions from %s are: %s",
		apperr.ErrInvalidTransition, from, to, from, describeValidFrom(from))
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	parts := make([]string, len(nexts))
	for i, s := range nexts {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	out := make([]Transition, len(validTransitions))
	copy(out, validTransitions)
	return out
}
