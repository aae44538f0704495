// Package ws is the websocket transport adapter: one Conn per dial
// attempt, read pump feeding the session's hooks.
package ws

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/avdim/roomchat/internal/core"
	"github.com/avdim/roomchat/internal/domain"
)

var ErrClosed = errors.New("transport closed")

const writeWait = 5 * time.Second

// Dialer opens room+participant scoped websocket connections against
// the chat server, e.g. ws://host:8000/ws/room/{room}/messages/{user}.
type Dialer struct {
	Base             string
	HandshakeTimeout time.Duration
	Log              zerolog.Logger
}

func (d *Dialer) Dial(ctx context.Context, room domain.RoomID, user domain.UserID, hooks core.TransportHooks) (core.Transport, error) {
	u := fmt.Sprintf("%s/ws/room/%s/messages/%s", strings.TrimRight(d.Base, "/"), room, user)
	wd := websocket.Dialer{HandshakeTimeout: d.HandshakeTimeout}
	conn, _, err := wd.DialContext(ctx, u, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u, err)
	}
	d.Log.Info().Str("module", "adapters.ws").Str("url", u).Msg("websocket connected")

	c := &Conn{conn: conn, hooks: hooks, log: d.Log}
	go c.readPump()
	return c, nil
}

// Conn is a single live websocket. The session owns it; the read pump
// reports inbound frames and the terminal close through the hooks.
type Conn struct {
	conn  *websocket.Conn
	hooks core.TransportHooks
	log   zerolog.Logger

	mu     sync.Mutex
	closed bool
}

func (c *Conn) Send(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, f)
}

func (c *Conn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()
	return c.conn.Close()
}

func (c *Conn) readPump() {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			explicit := c.closed
			c.closed = true
			c.mu.Unlock()

			if !explicit {
				_ = c.conn.Close()
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					c.hooks.OnError(err)
				}
			}
			c.hooks.OnClosed(err)
			return
		}
		c.hooks.OnInbound(core.Frame(data))
	}
}
