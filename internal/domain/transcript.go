package domain

import "time"

type EntryCategory string

const (
	CategorySystem  EntryCategory = "system"
	CategoryContent EntryCategory = "content"
)

// TranscriptEntry is one accepted line of the room transcript.
// Entries are immutable once created; the transcript never edits or
// removes them.
type TranscriptEntry struct {
	ID         string
	ReceivedAt time.Time
	Category   EntryCategory
	Text       string
	SenderName string // empty for system entries
	IsSelf     bool
}
