// Package input normalizes window events and accumulates pointer, scroll and key state
// for the frame loop.
package input

import "sync"

// EventKind identifies the kind of a normalized input Event.
type EventKind int

const (
	// EventCursorMoved carries an absolute pointer position in window coordinates.
	EventCursorMoved EventKind = iota
	// EventMouseWheel carries a scroll delta.
	EventMouseWheel
	// EventMouseMotion carries a raw relative pointer delta.
	EventMouseMotion
	// EventKeyDown reports a key press.
	EventKeyDown
	// EventKeyUp reports a key release.
	EventKeyUp
)

// Phase is the touch/trackpad phase attached to scroll events.
type Phase int

const (
	// PhaseNone is used by devices that do not report phases, such as mouse wheels.
	PhaseNone Phase = iota
	PhaseStarted
	PhaseMoved
	// PhaseEnded marks the final event of a gesture; its delta is ignored.
	PhaseEnded
)

// Event is a normalized window input event.
type Event struct {
	Kind EventKind

	// X, Y hold the pointer position for EventCursorMoved and the delta for
	// EventMouseWheel and EventMouseMotion.
	X, Y float64

	// Phase applies to EventMouseWheel.
	Phase Phase

	// Key applies to EventKeyDown and EventKeyUp.
	Key int
}

// manager is the implementation of Manager.
type manager struct {
	mu *sync.Mutex

	x, y   float64
	wx, wy float64
	dx, dy float64
	keys   map[int]bool
}

// Manager accumulates input state across events.
type Manager interface {
	// Process folds one event into the accumulated state.
	//
	// Parameters:
	//   - ev: the event to process
	Process(ev Event)

	// Position returns the last reported pointer position in window coordinates.
	//
	// Returns:
	//   - x, y: the pointer position
	Position() (x, y float64)

	// Scroll returns the accumulated scroll deltas since construction.
	//
	// Returns:
	//   - wx, wy: the accumulated scroll on each axis
	Scroll() (wx, wy float64)

	// Delta returns the accumulated raw pointer motion since construction.
	//
	// Returns:
	//   - dx, dy: the accumulated motion on each axis
	Delta() (dx, dy float64)

	// IsKeyDown reports whether a key is currently held.
	//
	// Parameters:
	//   - key: the key code
	//
	// Returns:
	//   - bool: true while the key is held
	IsKeyDown(key int) bool
}

var _ Manager = &manager{}

// NewManager creates an empty input Manager.
//
// Returns:
//   - Manager: the new manager
func NewManager() Manager {
	return &manager{
		mu:   &sync.Mutex{},
		keys: make(map[int]bool),
	}
}

func (m *manager) Process(ev Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch ev.Kind {
	case EventCursorMoved:
		m.x, m.y = ev.X, ev.Y
	case EventMouseWheel:
		if ev.Phase == PhaseEnded {
			return
		}
		m.wx += ev.X
		m.wy += ev.Y
	case EventMouseMotion:
		m.dx += ev.X
		m.dy += ev.Y
	case EventKeyDown:
		m.keys[ev.Key] = true
	case EventKeyUp:
		delete(m.keys, ev.Key)
	}
}

func (m *manager) Position() (float64, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.x, m.y
}

func (m *manager) Scroll() (float64, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.wx, m.wy
}

func (m *manager) Delta() (float64, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dx, m.dy
}

func (m *manager) IsKeyDown(key int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.keys[key]
}
