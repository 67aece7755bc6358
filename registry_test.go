package roletree

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRegistryMembership(t *testing.T) {
	reg := NewMemoryRegistry()
	ctx := context.Background()
	manager := NewRole("MANAGER")

	ok, err := reg.HasHolder(ctx, manager, "alice")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, reg.AddHolder(ctx, manager, "alice"))
	ok, err = reg.HasHolder(ctx, manager, "alice")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, reg.RemoveHolder(ctx, manager, "alice"))
	ok, err = reg.HasHolder(ctx, manager, "alice")
	require.NoError(t, err)
	assert.False(t, ok)

	// Removing an absent holder is a no-op.
	require.NoError(t, reg.RemoveHolder(ctx, manager, "alice"))
}

func TestMemoryRegistryEvents(t *testing.T) {
	reg := NewMemoryRegistry()
	ctx := context.Background()
	manager := NewRole("MANAGER")
	user := NewRole("USER")

	require.NoError(t, reg.RecordEvent(ctx, &Event{Action: ActionGranted, Role: manager, Principal: "alice", Actor: "g0"}))
	require.NoError(t, reg.RecordEvent(ctx, &Event{Action: ActionGranted, Role: user, Principal: "bob", Actor: "alice"}))
	require.NoError(t, reg.RecordEvent(ctx, &Event{Action: ActionRevoked, Role: manager, Principal: "alice", Actor: "g0"}))

	all, err := reg.Events(ctx, NewEventFilter())
	require.NoError(t, err)
	require.Len(t, all, 3)

	// Newest first.
	assert.Equal(t, ActionRevoked, all[0].Action)
	assert.False(t, all[0].Timestamp.IsZero())

	byActor, err := reg.Events(ctx, NewEventFilter().WithActor("g0"))
	require.NoError(t, err)
	assert.Len(t, byActor, 2)

	byRole, err := reg.Events(ctx, NewEventFilter().WithRole(user))
	require.NoError(t, err)
	require.Len(t, byRole, 1)
	assert.Equal(t, Principal("bob"), byRole[0].Principal)

	byPrincipal, err := reg.Events(ctx, NewEventFilter().WithPrincipal("alice").WithAction(ActionGranted))
	require.NoError(t, err)
	assert.Len(t, byPrincipal, 1)
}

func TestMemoryRegistryEventsPagination(t *testing.T) {
	reg := NewMemoryRegistry()
	ctx := context.Background()
	role := NewRole("R")

	for i := 0; i < 5; i++ {
		p := Principal(string(rune('a' + i)))
		require.NoError(t, reg.RecordEvent(ctx, &Event{Action: ActionGranted, Role: role, Principal: p}))
	}

	page, err := reg.Events(ctx, NewEventFilter().WithLimit(2))
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, Principal("e"), page[0].Principal)

	page, err = reg.Events(ctx, NewEventFilter().WithLimit(2).WithOffset(2))
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, Principal("c"), page[0].Principal)
}

func TestMemoryRegistryEventsTimeRange(t *testing.T) {
	reg := NewMemoryRegistry()
	ctx := context.Background()
	role := NewRole("R")

	old := time.Now().Add(-time.Hour)
	require.NoError(t, reg.RecordEvent(ctx, &Event{Action: ActionGranted, Role: role, Principal: "old", Timestamp: old}))
	require.NoError(t, reg.RecordEvent(ctx, &Event{Action: ActionGranted, Role: role, Principal: "new"}))

	recent, err := reg.Events(ctx, NewEventFilter().WithTimeRange(time.Now().Add(-time.Minute), time.Time{}))
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, Principal("new"), recent[0].Principal)
}
