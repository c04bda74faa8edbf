package statemachine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodiehub/apperr"
	"foodiehub/models"
)

var allStatuses = []models.OrderStatus{models.StatusPending, models.StatusPaid, models.StatusCancelled}

func TestCanTransition_FromPending(t *testing.T) {
	for _, role := range []models.UserRole{models.RoleAdmin, models.RoleManager} {
		assert.NoError(t, CanTransition(models.StatusPending, models.StatusPaid, role))
		assert.NoError(t, CanTransition(models.StatusPending, models.StatusCancelled, role))
	}
}

func TestCanTransition_MemberForbidden(t *testing.T) {
	err := CanTransition(models.StatusPending, models.StatusCancelled, models.RoleMember)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestCanTransition_TerminalStates(t *testing.T) {
	for _, from := range []models.OrderStatus{models.StatusPaid, models.StatusCancelled} {
		assert.True(t, IsTerminal(from))
		for _, to := range allStatuses {
			for _, role := range []models.UserRole{models.RoleAdmin, models.RoleManager, models.RoleMember} {
				err := CanTransition(from, to, role)
				assert.ErrorIs(t, err, apperr.ErrInvalidTransition, "%s → %s by %s", from, to, role)
			}
		}
	}
}

func TestCanTransition_PendingToPending(t *testing.T) {
	assert.ErrorIs(t, CanTransition(models.StatusPending, models.StatusPending, models.RoleAdmin), apperr.ErrInvalidTransition)
}

func TestValidTransitionsFrom(t *testing.T) {
	assert.ElementsMatch(t,
		[]models.OrderStatus{models.StatusPaid, models.StatusCancelled},
		ValidTransitionsFrom(models.StatusPending))
	assert.Empty(t, ValidTransitionsFrom(models.StatusPaid))
	assert.False(t, IsTerminal(models.StatusPending))
}

func TestGetAllTransitions_ReturnsCopy(t *testing.T) {
	all := GetAllTransitions()
	require.Len(t, all, 2)
	all[0].To = models.StatusCancelled
	assert.Equal(t, models.StatusPaid, GetAllTransitions()[0].To)
}
