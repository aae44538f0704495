package app

import (
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/avdim/roomchat/internal/domain"
)

// Transcript is the append-only ordered log of accepted events plus
// the live connected count derived from presence frames. Entries are
// never mutated or removed; consumers get copies.
type Transcript struct {
	mu       sync.RWMutex
	clk      clock.Clock
	selfName string
	entries  []domain.TranscriptEntry
	count    int
}

func NewTranscript(clk clock.Clock, selfName string) *Transcript {
	return &Transcript{clk: clk, selfName: selfName}
}

// AppendSystem records a presence line and sets the connected count to
// the value the frame carried, whatever the prior value was.
func (t *Transcript) AppendSystem(text string, count int) domain.TranscriptEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	e := domain.TranscriptEntry{
		ID:         uuid.NewString(),
		ReceivedAt: t.clk.Now(),
		Category:   domain.CategorySystem,
		Text:       text,
	}
	t.entries = append(t.entries, e)
	t.count = count
	return e
}

// AppendContent records a chat line. IsSelf compares display names:
// two participants sharing a name are conflated here, same as the
// collaborator API does (roster ids are not carried in content frames).
func (t *Transcript) AppendContent(sender, text string) domain.TranscriptEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	e := domain.TranscriptEntry{
		ID:         uuid.NewString(),
		ReceivedAt: t.clk.Now(),
		Category:   domain.CategoryContent,
		Text:       text,
		SenderName: sender,
		IsSelf:     sender == t.selfName,
	}
	t.entries = append(t.entries, e)
	return e
}

// Entries returns a copy of the log in arrival order.
func (t *Transcript) Entries() []domain.TranscriptEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]domain.TranscriptEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// ParticipantCount is the live connected count from the latest
// presence frame.
func (t *Transcript) ParticipantCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.count
}
