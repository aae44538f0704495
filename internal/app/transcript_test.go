package app

import (
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdim/roomchat/internal/domain"
)

func TestTranscriptAppendOrder(t *testing.T) {
	tr := NewTranscript(clock.NewMock(), "bob")

	tr.AppendSystem("Alice joined", 2)
	tr.AppendContent("Alice", "hello")
	tr.AppendContent("bob", "hi there")

	entries := tr.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, domain.CategorySystem, entries[0].Category)
	assert.Equal(t, "Alice joined", entries[0].Text)
	assert.Equal(t, domain.CategoryContent, entries[1].Category)
	assert.Equal(t, "Alice", entries[1].SenderName)
	assert.False(t, entries[1].IsSelf)
	assert.True(t, entries[2].IsSelf)
}

func TestTranscriptCountTracksCarriedValue(t *testing.T) {
	tr := NewTranscript(clock.NewMock(), "bob")

	tr.AppendSystem("Alice joined", 1)
	assert.Equal(t, 1, tr.ParticipantCount())

	// the carried value wins regardless of the prior count
	tr.AppendSystem("many joined at once", 5)
	assert.Equal(t, 5, tr.ParticipantCount())

	tr.AppendSystem("Alice left", 4)
	assert.Equal(t, 4, tr.ParticipantCount())
}

func TestTranscriptEntriesIsACopy(t *testing.T) {
	tr := NewTranscript(clock.NewMock(), "bob")
	tr.AppendContent("Alice", "hello")

	entries := tr.Entries()
	entries[0].Text = "mutated"

	assert.Equal(t, "hello", tr.Entries()[0].Text)
}

func TestTranscriptEntryIDsUnique(t *testing.T) {
	tr := NewTranscript(clock.NewMock(), "bob")
	a := tr.AppendContent("Alice", "hello")
	b := tr.AppendContent("Alice", "hello")
	assert.NotEqual(t, a.ID, b.ID)
}
