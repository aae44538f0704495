package core

// Frame is a raw payload as read from or written to the transport.
type Frame []byte

type PresenceKind string

const (
	PresenceJoined PresenceKind = "joined"
	PresenceLeft   PresenceKind = "left"
)

// Event is a classified inbound payload. Values are immutable; the
// pipeline passes them by value through dedup into the transcript.
type Event interface {
	isEvent()
}

// Presence reports a participant join/leave and the resulting total
// connected count as carried by the server frame.
type Presence struct {
	Kind  PresenceKind
	Count int
	Text  string
}

// Content carries a chat message and its sender's display name.
type Content struct {
	Sender string
	Text   string
}

// Unrecognized wraps a payload that matched neither shape. Such events
// are dropped before dedup, silently.
type Unrecognized struct {
	Raw Frame
}

func (Presence) isEvent()     {}
func (Content) isEvent()      {}
func (Unrecognized) isEvent() {}
