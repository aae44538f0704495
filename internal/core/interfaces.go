package core

import (
	"context"

	"github.com/avdim/roomchat/internal/domain"
)

// Transport is one live duplex channel instance, good for a single
// connection attempt. Owned exclusively by the session; nobody else
// may Close() it.
type Transport interface {
	Send(Frame) error
	Close() error
}

// TransportHooks receive lifecycle signals from a transport. Inbound
// frames may keep arriving on a lingering transport after a newer one
// was dialed; the pipeline's dedup window absorbs the overlap.
type TransportHooks interface {
	OnInbound(Frame)
	OnError(error)
	OnClosed(error)
}

// Dialer opens a transport to the room+participant scoped endpoint.
type Dialer interface {
	Dial(ctx context.Context, room domain.RoomID, user domain.UserID, hooks TransportHooks) (Transport, error)
}

// Directory is the collaborator request/response API: room meta and
// the current roster. Consumed only, never implemented here.
type Directory interface {
	RoomInfo(ctx context.Context, room domain.RoomID) (domain.Room, error)
	Roster(ctx context.Context, room domain.RoomID) ([]domain.User, error)
}
