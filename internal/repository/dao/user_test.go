package dao

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserInsertAndLookup(t *testing.T) {
	userDAO := NewUserDAO(setupDB(t))
	ctx := context.Background()

	created, err := userDAO.Insert(ctx, User{
		Email:    "trader@example.com",
		Password: "hashed",
		Address:  testCaller,
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	byID, err := userDAO.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "trader@example.com", byID.Email)

	byEmail, err := userDAO.FindByEmail(ctx, "trader@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byAddress, err := userDAO.FindByAddress(ctx, testCaller)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byAddress.ID)
}

func TestUserInsertDuplicateEmail(t *testing.T) {
	userDAO := NewUserDAO(setupDB(t))
	ctx := context.Background()

	_, err := userDAO.Insert(ctx, User{Email: "dup@example.com", Password: "x", Address: "0x01"})
	require.NoError(t, err)

	_, err = userDAO.Insert(ctx, User{Email: "dup@example.com", Password: "x", Address: "0x02"})
	assert.ErrorIs(t, err, ErrUserEmailExists)
}

func TestUserNotFound(t *testing.T) {
	userDAO := NewUserDAO(setupDB(t))
	ctx := context.Background()

	_, err := userDAO.FindByID(ctx, 404)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = userDAO.FindByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = userDAO.FindByAddress(ctx, "0xghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
