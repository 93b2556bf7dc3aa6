package hotreload

import "time"

// WatcherBuilderOption is a functional option applied to a watcher during NewWatcher.
type WatcherBuilderOption func(*watcher)

// WithWatchClock sets the clock used to timestamp changes. The default is time.Now.
//
// Parameters:
//   - clock: the time source
//
// Returns:
//   - WatcherBuilderOption: a function that sets the clock
func WithWatchClock(clock func() time.Time) WatcherBuilderOption {
	return func(w *watcher) {
		w.clock = clock
	}
}

// WithPollInterval sets how often a removed root directory is checked for.
//
// Parameters:
//   - d: the poll interval
//
// Returns:
//   - WatcherBuilderOption: a function that sets the poll interval
func WithPollInterval(d time.Duration) WatcherBuilderOption {
	return func(w *watcher) {
		if d > 0 {
			w.pollInterval = d
		}
	}
}

// WithErrorBuffer sets the capacity of the Errors channel.
//
// Parameters:
//   - n: the channel capacity
//
// Returns:
//   - WatcherBuilderOption: a function that sets the buffer size
func WithErrorBuffer(n int) WatcherBuilderOption {
	return func(w *watcher) {
		if n > 0 {
			w.errBuffer = n
		}
	}
}
