package mock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clientmock/clientmock/pkg/client"
)

func TestRegisterAssignsIncreasingIDs(t *testing.T) {
	store := NewStore()

	a := store.Register(NewEntry("GET", "/a"))
	b := store.Register(NewEntry("GET", "/b"))
	c := store.Register(NewEntry("GET", "/c"))

	assert.Less(t, a.ID(), b.ID())
	assert.Less(t, b.ID(), c.ID())
}

func TestIDsSurviveClear(t *testing.T) {
	store := NewStore()

	before := store.Register(NewEntry("GET", "/a")).ID()
	store.Clear()
	after := store.Register(NewEntry("GET", "/b")).ID()

	assert.Greater(t, after, before, "the id counter is not reset by Clear")
}

func TestIDsUniqueAcrossStores(t *testing.T) {
	first := NewStore().Register(NewEntry("GET", "/a")).ID()
	second := NewStore().Register(NewEntry("GET", "/b")).ID()

	assert.NotEqual(t, first, second)
}

func TestRegisterReturnsEntryForChaining(t *testing.T) {
	store := NewStore()
	e := NewEntry("GET", "/users")

	handle := store.Register(e)

	assert.Same(t, e, handle)
	assert.Equal(t, 1, store.Len())
}

func TestUnusedCount(t *testing.T) {
	store := NewStore()

	used := store.Register(NewEntry("GET", "/users").Respond(200, nil, "[]"))
	store.Register(NewEntry("GET", "/posts"))
	store.Register(NewEntry("DELETE", "/users/1"))

	assert.Equal(t, 3, store.UnusedCount())

	_, err := store.Lookup(client.NewRequest("GET", "/users"))
	require.NoError(t, err)

	assert.Equal(t, 2, store.UnusedCount())
	assert.Equal(t, 1, used.CallCount())
}

func TestClearEmptiesRegistry(t *testing.T) {
	store := NewStore()
	store.Register(NewEntry("GET", "/users").Respond(200, nil, "[]"))

	store.Clear()

	assert.Equal(t, 0, store.UnusedCount())
	assert.Equal(t, 0, store.Len())

	_, err := store.Lookup(client.NewRequest("GET", "/users"))
	var noMatch *NoMatchError
	assert.ErrorAs(t, err, &noMatch, "prior registrations are gone after Clear")
}

func TestCallsAppendOnly(t *testing.T) {
	store := NewStore()
	e := store.Register(NewEntry("POST", "/orders").Respond(201, nil, ""))

	req := client.NewRequest("POST", "/orders").WithBody(`{"sku": "A-1"}`)
	for i := 0; i < 3; i++ {
		_, err := store.Lookup(req)
		require.NoError(t, err)
	}

	calls := e.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, "POST", calls[0].Method)
	assert.Equal(t, "/orders", calls[0].URL)
	assert.Equal(t, `{"sku": "A-1"}`, calls[0].Body)
	assert.True(t, calls[0].HasBody)

	// Mutating the returned slice must not affect the history.
	calls[0].Method = "tampered"
	assert.Equal(t, "POST", e.Calls()[0].Method)
}
