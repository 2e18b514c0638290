// Package capture produces rendered screenshots of pages. The real
// implementation drives headless Chrome through a fixed pool of tabs; the
// pipeline only sees the interfaces below.
package capture

import "context"

// Session is one acquired capture resource. A comparison task acquires a
// session once, captures both sides with it, and releases it exactly once,
// on success and failure paths alike.
type Session interface {
	// Capture renders the page at pageURL and writes the screenshot to
	// outPath, overwriting any artifact from an earlier attempt.
	Capture(ctx context.Context, pageURL, outPath string) error
	// Release returns the underlying resource to the pool.
	Release()
}

// Capturer hands out capture sessions backed by a bounded resource pool.
type Capturer interface {
	// AcquireSession blocks until a capture resource is free.
	AcquireSession(ctx context.Context) (Session, error)
	// Close tears down all capture resources.
	Close() error
}
