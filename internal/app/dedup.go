package app

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/avdim/roomchat/internal/domain"
)

// DefaultDedupWindow is the trailing interval within which two events
// with equal category and text are treated as one.
const DefaultDedupWindow = time.Second

// Deduplicator suppresses repeats of an event already accepted within
// a trailing window. This is a best-effort heuristic against a frame
// surfacing twice in rapid succession (redelivery, or a reconnect
// overlapping a lingering old transport), not a delivery guarantee:
// two genuinely distinct identical messages inside the window are
// indistinguishable from duplicates and get suppressed too.
type Deduplicator struct {
	mu     sync.Mutex
	clk    clock.Clock
	window time.Duration
	seen   []dedupEntry
}

type dedupEntry struct {
	category domain.EntryCategory
	text     string
	seenAt   time.Time
}

func NewDeduplicator(clk clock.Clock, window time.Duration) *Deduplicator {
	if window <= 0 {
		window = DefaultDedupWindow
	}
	return &Deduplicator{clk: clk, window: window}
}

// Accept reports whether the event is new within the window and, if
// so, records it. Stale entries are evicted lazily on each call.
func (d *Deduplicator) Accept(category domain.EntryCategory, text string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.clk.Now()
	windowStart := now.Add(-d.window)

	fresh := d.seen[:0]
	for _, e := range d.seen {
		if e.seenAt.After(windowStart) {
			fresh = append(fresh, e)
		}
	}
	d.seen = fresh

	for _, e := range d.seen {
		if e.category == category && e.text == text {
			return false
		}
	}

	d.seen = append(d.seen, dedupEntry{category: category, text: text, seenAt: now})
	return true
}
