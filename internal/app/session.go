package app

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"

	"github.com/avdim/roomchat/internal/core"
	"github.com/avdim/roomchat/internal/domain"
)

const (
	// DefaultReconnectDelay is the flat delay before an automatic
	// reconnect attempt. No backoff, no jitter, no attempt cap.
	DefaultReconnectDelay = 3 * time.Second

	DefaultFetchTimeout = 5 * time.Second
)

type Options struct {
	Room      domain.RoomID
	Self      domain.User
	Dialer    core.Dialer
	Directory core.Directory

	Clock          clock.Clock   // nil: wall clock
	ReconnectDelay time.Duration // 0: DefaultReconnectDelay
	DedupWindow    time.Duration // 0: DefaultDedupWindow
	FetchTimeout   time.Duration // 0: DefaultFetchTimeout
	Logger         zerolog.Logger
}

// Session owns the connection lifecycle for one room: at most one live
// transport, at most one pending reconnect timer, and the pipeline
// (classify -> dedup -> transcript) fed by inbound frames. All state
// transitions happen under one mutex, so they are serialized the same
// way discrete events on a single thread would be.
type Session struct {
	log zerolog.Logger
	clk clock.Clock

	room domain.RoomID
	self domain.User

	dialer core.Dialer
	dir    core.Directory

	reconnectDelay time.Duration
	fetchTimeout   time.Duration

	dedup      *Deduplicator
	transcript *Transcript
	members    *MembershipCache

	updates chan struct{}

	titleOnce sync.Once

	mu        sync.Mutex
	ctx       context.Context
	state     State
	transport core.Transport
	epoch     int // bumped per dial attempt; stale transports are ignored
	reconnect *clock.Timer
	disarmed  bool // explicit leave happened; reconnect edge is gone for good
	title     string
}

func NewSession(opts Options) *Session {
	clk := opts.Clock
	if clk == nil {
		clk = clock.New()
	}
	if opts.ReconnectDelay <= 0 {
		opts.ReconnectDelay = DefaultReconnectDelay
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	return &Session{
		log:            opts.Logger,
		clk:            clk,
		room:           opts.Room,
		self:           opts.Self,
		dialer:         opts.Dialer,
		dir:            opts.Directory,
		reconnectDelay: opts.ReconnectDelay,
		fetchTimeout:   opts.FetchTimeout,
		dedup:          NewDeduplicator(clk, opts.DedupWindow),
		transcript:     NewTranscript(clk, opts.Self.Username),
		members:        NewMembershipCache(opts.Logger, opts.Directory, opts.Room),
		updates:        make(chan struct{}, 1),
		state:          StateIdle,
	}
}

// Open starts a connection attempt. A no-op while a transport is
// already connecting or open, and permanently a no-op after an
// explicit Close. ctx bounds the session: it is reused for automatic
// reconnect dials.
func (s *Session) Open(ctx context.Context) {
	s.mu.Lock()
	if s.disarmed {
		s.mu.Unlock()
		s.log.Warn().Str("module", "app.session").Msg("open after explicit close ignored")
		return
	}
	if s.state == StateConnecting || s.state == StateOpen {
		s.mu.Unlock()
		return
	}
	s.ctx = ctx
	s.state = StateConnecting
	s.epoch++
	epoch := s.epoch
	s.mu.Unlock()

	s.log.Info().Str("module", "app.session").Str("room", string(s.room)).Int("attempt", epoch).Msg("connecting")
	s.notify()
	go s.dial(ctx, epoch)
}

func (s *Session) dial(ctx context.Context, epoch int) {
	t, err := s.dialer.Dial(ctx, s.room, s.self.ID, transportHooks{s: s, epoch: epoch})

	s.mu.Lock()
	if epoch != s.epoch || s.disarmed {
		s.mu.Unlock()
		if t != nil {
			_ = t.Close()
		}
		s.log.Debug().Str("module", "app.session").Int("attempt", epoch).Msg("discarding stale dial result")
		return
	}
	if err != nil {
		s.state = StateClosed
		s.scheduleReconnectLocked()
		s.mu.Unlock()
		s.log.Warn().Err(err).Str("module", "app.session").Str("room", string(s.room)).Msg("connect failed")
		s.notify()
		return
	}
	if s.state != StateConnecting {
		// the transport died before the dial result landed: its closed
		// signal already ran, moved the state and armed the reconnect
		// timer. Registering the dead transport now would pin the
		// session "Connected" with no timer left to fire.
		s.mu.Unlock()
		_ = t.Close()
		s.log.Debug().Str("module", "app.session").Int("attempt", epoch).Msg("transport closed before dial settled")
		return
	}
	s.transport = t
	s.state = StateOpen
	s.mu.Unlock()

	s.log.Info().Str("module", "app.session").Str("room", string(s.room)).Msg("connected")
	s.notify()
	s.titleOnce.Do(func() { go s.fetchTitle() })
	go s.refreshRoster()
}

// Send writes a chat message. It reports false, without buffering or
// retrying, when the text trims to empty or the session is not open;
// the caller must re-offer the input itself.
func (s *Session) Send(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	s.mu.Lock()
	if s.state != StateOpen || s.transport == nil {
		s.mu.Unlock()
		return false
	}
	t := s.transport
	s.mu.Unlock()

	frame, err := json.Marshal(struct {
		Message string `json:"message"`
	}{Message: text})
	if err != nil {
		return false
	}
	if err := t.Send(core.Frame(frame)); err != nil {
		s.log.Warn().Err(err).Str("module", "app.session").Msg("send failed")
		return false
	}
	return true
}

// Close is the explicit leave: cancels any pending reconnect, closes
// the live transport and disarms the automatic reconnect edge for the
// rest of this session's life. Idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	if s.disarmed {
		s.mu.Unlock()
		return
	}
	if s.state == StateIdle {
		// never opened; nothing to tear down, but the session stays dead
		s.disarmed = true
		s.mu.Unlock()
		return
	}
	s.disarmed = true
	if s.reconnect != nil {
		s.reconnect.Stop()
		s.reconnect = nil
	}
	t := s.transport
	s.transport = nil
	s.epoch++ // invalidate in-flight dials and lingering transports
	s.state = StateClosing
	s.mu.Unlock()

	if t != nil {
		_ = t.Close()
	}

	s.mu.Lock()
	s.state = StateClosed
	s.mu.Unlock()
	s.log.Info().Str("module", "app.session").Str("room", string(s.room)).Msg("left room")
	s.notify()
}

// transportHooks tags transport signals with the dial attempt that
// produced them, so a lingering old transport cannot flip the state of
// its replacement. Inbound frames are not epoch-filtered: overlap
// between an old and a new transport is what the dedup window is for.
type transportHooks struct {
	s     *Session
	epoch int
}

func (h transportHooks) OnInbound(f core.Frame) { h.s.handleInbound(f) }
func (h transportHooks) OnError(err error)      { h.s.handleError(err) }
func (h transportHooks) OnClosed(err error)     { h.s.handleClosed(h.epoch, err) }

func (s *Session) handleInbound(raw core.Frame) {
	switch ev := Classify(raw).(type) {
	case core.Presence:
		if !s.dedup.Accept(domain.CategorySystem, ev.Text) {
			s.log.Debug().Str("module", "app.session").Str("text", ev.Text).Msg("duplicate presence suppressed")
			return
		}
		s.transcript.AppendSystem(ev.Text, ev.Count)
		s.notify()
		go s.refreshRoster()
	case core.Content:
		if !s.dedup.Accept(domain.CategoryContent, ev.Text) {
			s.log.Debug().Str("module", "app.session").Str("text", ev.Text).Msg("duplicate message suppressed")
			return
		}
		s.transcript.AppendContent(ev.Sender, ev.Text)
		s.notify()
	case core.Unrecognized:
		s.log.Debug().Str("module", "app.session").Bytes("raw", ev.Raw).Msg("unrecognized frame dropped")
	}
}

// Transport errors are recoverable: the transport is expected to close
// right after, and the closed signal drives the state change.
func (s *Session) handleError(err error) {
	s.log.Warn().Err(err).Str("module", "app.session").Msg("transport error")
}

func (s *Session) handleClosed(epoch int, err error) {
	s.mu.Lock()
	if epoch != s.epoch {
		s.mu.Unlock()
		s.log.Debug().Int("attempt", epoch).Str("module", "app.session").Msg("closed signal from stale transport")
		return
	}
	s.transport = nil
	s.state = StateClosed
	armed := !s.disarmed
	if armed {
		s.scheduleReconnectLocked()
	}
	s.mu.Unlock()

	s.log.Info().Err(err).Str("module", "app.session").Bool("reconnecting", armed).Msg("transport closed")
	s.notify()
}

// caller holds s.mu. Never schedules a second timer next to a pending one.
func (s *Session) scheduleReconnectLocked() {
	if s.reconnect != nil {
		return
	}
	s.reconnect = s.clk.AfterFunc(s.reconnectDelay, s.reconnectFire)
}

func (s *Session) reconnectFire() {
	s.mu.Lock()
	s.reconnect = nil
	if s.disarmed || s.state != StateClosed {
		s.mu.Unlock()
		return
	}
	ctx := s.ctx
	s.mu.Unlock()

	s.log.Info().Str("module", "app.session").Str("room", string(s.room)).Msg("attempting to reconnect")
	s.Open(ctx)
}

func (s *Session) refreshRoster() {
	ctx, cancel := context.WithTimeout(context.Background(), s.fetchTimeout)
	defer cancel()
	if s.members.Refresh(ctx, s.leftRoom) {
		s.notify()
	}
}

func (s *Session) leftRoom() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disarmed
}

func (s *Session) fetchTitle() {
	ctx, cancel := context.WithTimeout(context.Background(), s.fetchTimeout)
	defer cancel()
	room, err := s.dir.RoomInfo(ctx, s.room)
	title := room.Title
	if err != nil {
		s.log.Warn().Err(err).Str("module", "app.session").Str("room", string(s.room)).Msg("room info fetch failed")
	}
	if title == "" {
		title = domain.UnknownRoomTitle
	}
	s.mu.Lock()
	s.title = title
	s.mu.Unlock()
	s.notify()
}

// notify pokes the presentation layer without blocking; signals
// coalesce, consumers re-read the snapshots.
func (s *Session) notify() {
	select {
	case s.updates <- struct{}{}:
	default:
	}
}

// Updates signals that some read-only projection changed.
func (s *Session) Updates() <-chan struct{} { return s.updates }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Status is the user-facing connection indicator.
func (s *Session) Status() string { return s.State().Status() }

// Title is the room title, empty until fetched, a placeholder when the
// fetch failed.
func (s *Session) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title
}

func (s *Session) Entries() []domain.TranscriptEntry { return s.transcript.Entries() }

func (s *Session) ParticipantCount() int { return s.transcript.ParticipantCount() }

func (s *Session) Roster() []domain.User { return s.members.Snapshot() }

func (s *Session) RosterNames() []string { return s.members.Usernames() }
