package util

import "sync"

// Disposer guards a cleanup function so it runs at most once, making
// Destroy()/Close() idempotent regardless of how many times callers invoke
// it or whether they do so concurrently. This backs the specification's
// "disposal is idempotent; a second call is a no-op" invariant (spec.md
// §4.1, Testable Property 4).
type Disposer struct {
	mu       sync.Mutex
	disposed bool
	fn       func()
}

// NewDisposer wraps fn so it only ever runs once.
func NewDisposer(fn func()) *Disposer {
	return &Disposer{fn: fn}
}

// Dispose runs the wrapped function on the first call and is a no-op on
// every subsequent call, even if called concurrently.
func (d *Disposer) Dispose() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.disposed {
		return
	}
	d.disposed = true
	if d.fn != nil {
		d.fn()
	}
}

// Disposed reports whether Dispose has already run.
func (d *Disposer) Disposed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.disposed
}
