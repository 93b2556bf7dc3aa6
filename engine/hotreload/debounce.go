package hotreload

import (
	"sync"
	"time"
)

// DebounceCell records the time of the most recent shader file change. The watcher goroutine
// writes it and the render loop reads it; the lock is held only for the read or write.
type DebounceCell struct {
	mu  *sync.Mutex
	at  time.Time
	set bool
}

// NewDebounceCell creates an empty cell.
func NewDebounceCell() *DebounceCell {
	return &DebounceCell{mu: &sync.Mutex{}}
}

// Mark records t as the latest change. The last write wins.
func (c *DebounceCell) Mark(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.at = t
	c.set = true
}

// TakeIfElapsed clears the cell and returns true when a change is recorded and at least quiet
// has passed since it. Otherwise the cell is left as is.
func (c *DebounceCell) TakeIfElapsed(now time.Time, quiet time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.set || now.Sub(c.at) < quiet {
		return false
	}
	c.set = false
	c.at = time.Time{}
	return true
}

// Pending returns the recorded change time without clearing it.
func (c *DebounceCell) Pending() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.at, c.set
}
