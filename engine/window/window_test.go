package window

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-stoy/common"
	"github.com/Carmen-Shannon/oxy-stoy/engine/input"
	"github.com/stretchr/testify/assert"
)

func TestPointerTracker(t *testing.T) {
	var p pointerTracker

	first := p.move(10, 20)
	assert.Equal(t, []input.Event{{Kind: input.EventCursorMoved, X: 10, Y: 20}}, first)

	second := p.move(15, 18)
	assert.Equal(t, []input.Event{
		{Kind: input.EventCursorMoved, X: 15, Y: 18},
		{Kind: input.EventMouseMotion, X: 5, Y: -2},
	}, second)
}

func TestKeyAndScrollEvents(t *testing.T) {
	assert.Equal(t, input.Event{Kind: input.EventKeyDown, Key: common.KeyW}, keyEvent(common.KeyW, true))
	assert.Equal(t, input.Event{Kind: input.EventKeyUp, Key: common.KeyW}, keyEvent(common.KeyW, false))
	assert.Equal(t, input.Event{Kind: input.EventMouseWheel, X: 0, Y: -1}, scrollEvent(0, -1))
}

func TestEmitWithoutCallback(t *testing.T) {
	w := &engineWindow{}
	assert.NotPanics(t, func() { w.emit(scrollEvent(0, 1)) })

	var got []input.Event
	w.SetInputCallback(func(ev input.Event) { got = append(got, ev) })
	w.emit(w.pointer.move(1, 1)...)
	w.emit(w.pointer.move(2, 3)...)
	assert.Len(t, got, 3)
	assert.False(t, w.IsRunning(), "a window that was never spawned is not running")
}
