package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCursorMovedReplacesPosition(t *testing.T) {
	m := NewManager()
	m.Process(Event{Kind: EventCursorMoved, X: 10, Y: 20})
	m.Process(Event{Kind: EventCursorMoved, X: 100, Y: 200})

	x, y := m.Position()
	assert.Equal(t, 100.0, x)
	assert.Equal(t, 200.0, y)
}

func TestMouseWheelAccumulates(t *testing.T) {
	m := NewManager()
	m.Process(Event{Kind: EventMouseWheel, X: 1, Y: -2})
	m.Process(Event{Kind: EventMouseWheel, X: 0.5, Y: -1, Phase: PhaseMoved})
	m.Process(Event{Kind: EventMouseWheel, X: 100, Y: 100, Phase: PhaseEnded})

	wx, wy := m.Scroll()
	assert.Equal(t, 1.5, wx)
	assert.Equal(t, -3.0, wy)
}

func TestMouseMotionAccumulatesDelta(t *testing.T) {
	m := NewManager()
	m.Process(Event{Kind: EventMouseMotion, X: 3, Y: 4})
	m.Process(Event{Kind: EventMouseMotion, X: -1, Y: 1})

	dx, dy := m.Delta()
	assert.Equal(t, 2.0, dx)
	assert.Equal(t, 5.0, dy)

	x, y := m.Position()
	assert.Zero(t, x)
	assert.Zero(t, y)
}

func TestKeyState(t *testing.T) {
	m := NewManager()
	assert.False(t, m.IsKeyDown(65))

	m.Process(Event{Kind: EventKeyDown, Key: 65})
	assert.True(t, m.IsKeyDown(65))

	m.Process(Event{Kind: EventKeyUp, Key: 65})
	assert.False(t, m.IsKeyDown(65))
}
