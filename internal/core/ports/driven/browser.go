package driven

import (
	"context"
	"time"
)

// BrowserLauncher starts browser sessions for the resolver.
type BrowserLauncher interface {
	// Launch starts a new session. The caller must Close it.
	Launch(ctx context.Context) (BrowserSession, error)
}

// BrowserSession is a single live browser tab.
// Sessions are used sequentially by one goroutine.
type BrowserSession interface {
	// Navigate loads url and returns once navigation has started.
	Navigate(ctx context.Context, url string) error

	// CurrentURL returns the address currently shown, after any redirects.
	CurrentURL(ctx context.Context) (string, error)

	// ClickButtonContaining clicks the first button inside a form whose text
	// contains any of labels, waiting at most timeout for it to appear.
	// A button that never appears returns (false, nil).
	ClickButtonContaining(ctx context.Context, labels []string, timeout time.Duration) (bool, error)

	// Close releases the session. Safe to call more than once.
	Close() error
}
