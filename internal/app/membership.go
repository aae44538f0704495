package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/avdim/roomchat/internal/core"
	"github.com/avdim/roomchat/internal/domain"
)

// MembershipCache holds the most recently fetched full roster of the
// room. Each successful refresh replaces the snapshot wholesale; a
// failed fetch keeps the previous one. The snapshot is eventually
// consistent with the transcript, nothing more.
type MembershipCache struct {
	log  zerolog.Logger
	dir  core.Directory
	room domain.RoomID

	mu    sync.RWMutex
	users []domain.User
}

func NewMembershipCache(log zerolog.Logger, dir core.Directory, room domain.RoomID) *MembershipCache {
	return &MembershipCache{log: log, dir: dir, room: room}
}

// Refresh fetches the current roster and replaces the snapshot. A
// fetch failure is logged and leaves the old snapshot in place; it is
// never surfaced to the transcript. stale is consulted after the fetch
// returns: a true result means the caller no longer wants the roster
// (session left the room mid-flight) and the response is discarded.
func (c *MembershipCache) Refresh(ctx context.Context, stale func() bool) bool {
	users, err := c.dir.Roster(ctx, c.room)
	if err != nil {
		c.log.Warn().Err(err).Str("module", "app.membership").Str("room", string(c.room)).Msg("roster fetch failed, keeping previous snapshot")
		return false
	}
	if stale != nil && stale() {
		c.log.Debug().Str("module", "app.membership").Msg("discarding roster fetched for a closed session")
		return false
	}
	c.mu.Lock()
	c.users = users
	c.mu.Unlock()
	c.log.Debug().Str("module", "app.membership").Int("count", len(users)).Msg("roster replaced")
	return true
}

// Snapshot returns a copy of the current roster in arrival order.
func (c *MembershipCache) Snapshot() []domain.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.User(nil), c.users...)
}

// Usernames is a convenience projection for display.
func (c *MembershipCache) Usernames() []string {
	return lo.Map(c.Snapshot(), func(u domain.User, _ int) string { return u.Username })
}
