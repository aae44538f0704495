package app

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"

	"github.com/avdim/roomchat/internal/domain"
)

func TestDedupRejectsRepeatWithinWindow(t *testing.T) {
	clk := clock.NewMock()
	d := NewDeduplicator(clk, time.Second)

	assert.True(t, d.Accept(domain.CategoryContent, "hello"))
	assert.False(t, d.Accept(domain.CategoryContent, "hello"))

	clk.Add(500 * time.Millisecond)
	assert.False(t, d.Accept(domain.CategoryContent, "hello"))
}

func TestDedupAcceptsRepeatOutsideWindow(t *testing.T) {
	clk := clock.NewMock()
	d := NewDeduplicator(clk, time.Second)

	assert.True(t, d.Accept(domain.CategoryContent, "hello"))
	clk.Add(1500 * time.Millisecond)
	assert.True(t, d.Accept(domain.CategoryContent, "hello"))
}

func TestDedupCategoryIsPartOfIdentity(t *testing.T) {
	clk := clock.NewMock()
	d := NewDeduplicator(clk, time.Second)

	assert.True(t, d.Accept(domain.CategorySystem, "Alice joined"))
	assert.True(t, d.Accept(domain.CategoryContent, "Alice joined"))
	assert.False(t, d.Accept(domain.CategorySystem, "Alice joined"))
}

func TestDedupDistinctTexts(t *testing.T) {
	clk := clock.NewMock()
	d := NewDeduplicator(clk, time.Second)

	assert.True(t, d.Accept(domain.CategoryContent, "hello"))
	assert.True(t, d.Accept(domain.CategoryContent, "world"))
}

func TestDedupDefaultWindow(t *testing.T) {
	d := NewDeduplicator(clock.NewMock(), 0)
	assert.Equal(t, DefaultDedupWindow, d.window)
}
