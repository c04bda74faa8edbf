package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"foodiehub/models"
	"foodiehub/store"
)

func TestRun_SeedsOnce(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	seeded, err := Run(ctx, s, nil)
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = Run(ctx, s, nil)
	require.NoError(t, err)
	assert.False(t, seeded)

	india, err := s.ListRestaurants(ctx, "India")
	require.NoError(t, err)
	assert.Len(t, india, 2)
	america, err := s.ListRestaurants(ctx, "America")
	require.NoError(t, err)
	assert.Len(t, america, 2)

	total := 0
	for _, r := range append(india, america...) {
		menu, err := s.ListMenuItems(ctx, r.ID)
		require.NoError(t, err)
		total += len(menu)
	}
	assert.Equal(t, 10, total)

	americaPayments, err := s.ListPaymentMethods(ctx, "America")
	require.NoError(t, err)
	require.Len(t, americaPayments, 2)
	assert.Equal(t, "Nick Fury", americaPayments[0].HolderName)
}

func TestRun_UsersCanLogIn(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	_, err := Run(ctx, s, nil)
	require.NoError(t, err)

	for _, su := range SampleUsers() {
		u, err := s.FindUserByEmail(ctx, su.Email)
		require.NoError(t, err, su.Email)
		assert.Equal(t, su.Role, u.Role)
		assert.Equal(t, su.Country, u.Country)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(su.Password)))
	}
}

func TestSampleUsers_ReturnsCopy(t *testing.T) {
	users := SampleUsers()
	users[0].Role = models.RoleMember
	assert.Equal(t, models.RoleAdmin, SampleUsers()[0].Role)
}
