package app

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdim/roomchat/internal/domain"
)

func TestMembershipRefreshReplacesWholesale(t *testing.T) {
	dir := &fakeDirectory{roster: []domain.User{
		{ID: "1", Username: "alice"},
		{ID: "2", Username: "bob"},
	}}
	c := NewMembershipCache(zerolog.Nop(), dir, "general")

	require.True(t, c.Refresh(context.Background(), nil))
	assert.Equal(t, []string{"alice", "bob"}, c.Usernames())

	dir.setRoster([]domain.User{{ID: "2", Username: "bob"}})
	require.True(t, c.Refresh(context.Background(), nil))
	assert.Equal(t, []string{"bob"}, c.Usernames())
}

func TestMembershipFetchFailureKeepsPreviousSnapshot(t *testing.T) {
	dir := &fakeDirectory{roster: []domain.User{{ID: "1", Username: "alice"}}}
	c := NewMembershipCache(zerolog.Nop(), dir, "general")
	require.True(t, c.Refresh(context.Background(), nil))

	dir.setRosterErr(errors.New("collaborator down"))
	assert.False(t, c.Refresh(context.Background(), nil))
	assert.Equal(t, []string{"alice"}, c.Usernames())
}

func TestMembershipStaleResultDiscarded(t *testing.T) {
	dir := &fakeDirectory{roster: []domain.User{{ID: "1", Username: "alice"}}}
	c := NewMembershipCache(zerolog.Nop(), dir, "general")

	assert.False(t, c.Refresh(context.Background(), func() bool { return true }))
	assert.Empty(t, c.Snapshot())
}

func TestMembershipSnapshotIsACopy(t *testing.T) {
	dir := &fakeDirectory{roster: []domain.User{{ID: "1", Username: "alice"}}}
	c := NewMembershipCache(zerolog.Nop(), dir, "general")
	require.True(t, c.Refresh(context.Background(), nil))

	snap := c.Snapshot()
	snap[0].Username = "mutated"
	assert.Equal(t, "alice", c.Snapshot()[0].Username)
}
