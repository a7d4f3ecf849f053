package chrome

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/placemap/internal/core/domain"
	"github.com/custodia-labs/placemap/internal/core/ports/driven"
)

// Ensure Session implements the interface.
var _ driven.BrowserSession = (*Session)(nil)

// Session is a single Chrome tab.
type Session struct {
	mu              sync.Mutex
	ctx             context.Context
	cancelAlloc     context.CancelFunc
	limiter         *rate.Limiter
	navigateTimeout time.Duration
	closed          bool
}

// Navigate loads url, waiting for the navigation rate limit first.
func (s *Session) Navigate(ctx context.Context, url string) error {
	if s.isClosed() {
		return domain.ErrSessionClosed
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("wait for rate limit: %w", err)
	}
	if err := s.run(ctx, s.navigateTimeout, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate: %w", err)
	}
	return nil
}

// CurrentURL returns the tab's current address.
func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	var location string
	if err := s.run(ctx, s.navigateTimeout, chromedp.Location(&location)); err != nil {
		return "", fmt.Errorf("read location: %w", err)
	}
	return location, nil
}

// ClickButtonContaining clicks the first form button whose text contains any
// of labels. If none becomes visible within timeout it returns (false, nil).
func (s *Session) ClickButtonContaining(ctx context.Context, labels []string, timeout time.Duration) (bool, error) {
	if len(labels) == 0 {
		return false, nil
	}

	selector := consentXPath(labels)

	err := s.run(ctx, timeout, chromedp.WaitVisible(selector, chromedp.BySearch))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return false, nil
		}
		return false, fmt.Errorf("wait for consent button: %w", err)
	}

	if err := s.run(ctx, s.navigateTimeout, chromedp.Click(selector, chromedp.BySearch, chromedp.NodeVisible)); err != nil {
		return false, fmt.Errorf("click consent button: %w", err)
	}
	return true, nil
}

// Close stops the tab and the Chrome process. Safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	err := chromedp.Cancel(s.ctx)
	s.cancelAlloc()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("close chrome: %w", err)
	}
	return nil
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// run executes actions on the tab, bounded by timeout and cancelled with ctx.
func (s *Session) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	if s.isClosed() {
		return domain.ErrSessionClosed
	}

	runCtx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// consentXPath matches a button inside a form whose text contains any label.
func consentXPath(labels []string) string {
	conditions := make([]string, 0, len(labels))
	for _, label := range labels {
		conditions = append(conditions, "contains(., "+xpathLiteral(label)+")")
	}
	return "//form//button[" + strings.Join(conditions, " or ") + "]"
}

// xpathLiteral quotes s as an XPath 1.0 string literal. XPath has no escape
// sequences, so a value with both quote kinds is built with concat().
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}

	parts := strings.Split(s, "'")
	quoted := make([]string, 0, len(parts)*2)
	for i, part := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		if part != "" {
			quoted = append(quoted, "'"+part+"'")
		}
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}
