// ABOUTME: Unit tests for MockStore behavior not covered by the shared contract
// ABOUTME: Focuses on timestamps, copy isolation and id allocation

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockStore_Timestamps(t *testing.T) {
	store := NewMockStore()
	ctx := context.Background()

	created := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.Now = func() time.Time { return created }
	_, err := store.AddUser(ctx, "clock")
	require.NoError(t, err)

	updated := created.Add(time.Hour)
	store.Now = func() time.Time { return updated }
	_, err = store.UpdateUserSolvedProblems(ctx, "clock", []int{1})
	require.NoError(t, err)

	user, err := store.GetUser(ctx, "clock")
	require.NoError(t, err)
	assert.Equal(t, created, user.LastCheckTime, "check time is never revisited")
	assert.Equal(t, updated, user.LastUpdateTime)
}

func TestMockStore_ReturnsCopies(t *testing.T) {
	store := NewMockStore()
	ctx := context.Background()

	_, err := store.AddUser(ctx, "copy")
	require.NoError(t, err)
	solved := []int{1, 2}
	_, err = store.UpdateUserSolvedProblems(ctx, "copy", solved)
	require.NoError(t, err)

	// mutating the caller's slice or a returned user must not leak into the store
	solved[0] = 99
	user, err := store.GetUser(ctx, "copy")
	require.NoError(t, err)
	user.SolvedProblems[1] = 42
	user.Handle = "changed"

	again, err := store.GetUser(ctx, "copy")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, again.SolvedProblems)
	assert.Equal(t, "copy", again.Handle)
}

func TestMockStore_IDsPerTable(t *testing.T) {
	store := NewMockStore()
	ctx := context.Background()

	srv, err := store.AddServer(ctx, "S")
	require.NoError(t, err)
	ch, err := store.AddChannel(ctx, "C", srv)
	require.NoError(t, err)
	user, err := store.AddUser(ctx, "u")
	require.NoError(t, err)

	assert.Equal(t, int64(1), srv)
	assert.Equal(t, int64(1), ch)
	assert.Equal(t, int64(1), user)
}

func TestMockStore_DanglingChannelSkippedInJoin(t *testing.T) {
	store := NewMockStore()
	ctx := context.Background()

	_, err := store.AddUser(ctx, "eve")
	require.NoError(t, err)
	_, err = store.MapUserToChannel(ctx, "eve", 555, 777)
	require.NoError(t, err)

	got, err := store.GetUserChannels(ctx, "eve")
	require.NoError(t, err)
	assert.Empty(t, got)
}
