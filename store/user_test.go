package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huddleup-app/huddleup-api/store"
)

func TestUserStore_InsertAllocatesUniqueIDs(t *testing.T) {
	udb := store.NewUserStore(store.New())

	alice, err := udb.Insert("Alice Smith", "alice@example.com")
	require.NoError(t, err)
	bob, err := udb.Insert("Bob Jones", "bob@example.com")
	require.NoError(t, err)

	assert.NotEmpty(t, alice.ID)
	assert.NotEmpty(t, bob.ID)
	assert.NotEqual(t, alice.ID, bob.ID)
	assert.Equal(t, "Alice Smith", alice.FullName)
}

func TestUserStore_InsertRejectsDuplicateEmail(t *testing.T) {
	udb := store.NewUserStore(store.New())

	_, err := udb.Insert("Alice Smith", "alice@example.com")
	require.NoError(t, err)

	_, err = udb.Insert("Someone Else", "alice@example.com")
	assert.ErrorIs(t, err, store.ErrDuplicateEmail)

	// a second distinct email still succeeds
	_, err = udb.Insert("Someone Else", "else@example.com")
	assert.NoError(t, err)
}

func TestUserStore_FindByCredentials(t *testing.T) {
	udb := store.NewUserStore(store.New())

	alice, err := udb.Insert("Alice Smith", "alice@example.com")
	require.NoError(t, err)

	found, err := udb.FindByCredentials("Alice Smith", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice, found)

	_, err = udb.FindByCredentials("Alice Smith", "wrong@example.com")
	assert.ErrorIs(t, err, store.ErrInvalidCredentials)

	_, err = udb.FindByCredentials("Wrong Name", "alice@example.com")
	assert.ErrorIs(t, err, store.ErrInvalidCredentials)
}

func TestUserStore_Lookups(t *testing.T) {
	udb := store.NewUserStore(store.New())

	alice, err := udb.Insert("Alice Smith", "alice@example.com")
	require.NoError(t, err)

	byName, err := udb.FindByFullName("Alice Smith")
	require.NoError(t, err)
	assert.Equal(t, alice, byName)

	byID, err := udb.FindByID(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, alice, byID)

	_, err = udb.FindByFullName("Nobody")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}
