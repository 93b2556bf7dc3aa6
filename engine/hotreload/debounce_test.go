package hotreload

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebounceCell(t *testing.T) {
	c := NewDebounceCell()
	base := time.Unix(1000, 0)

	assert.False(t, c.TakeIfElapsed(base, DefaultQuietPeriod), "empty cell")

	c.Mark(base)
	c.Mark(base.Add(50 * time.Millisecond))

	at, ok := c.Pending()
	assert.True(t, ok)
	assert.Equal(t, base.Add(50*time.Millisecond), at, "last mark wins")

	assert.False(t, c.TakeIfElapsed(base.Add(249*time.Millisecond), DefaultQuietPeriod))
	assert.True(t, c.TakeIfElapsed(base.Add(250*time.Millisecond), DefaultQuietPeriod))

	_, ok = c.Pending()
	assert.False(t, ok, "take clears the cell")
	assert.False(t, c.TakeIfElapsed(base.Add(time.Hour), DefaultQuietPeriod))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "validation_failed", StateValidationFailed.String())
	assert.Equal(t, "unknown", State(42).String())
	assert.True(t, StateRebuildFailed.Failed())
	assert.False(t, StateRebuilt.Failed())
}
