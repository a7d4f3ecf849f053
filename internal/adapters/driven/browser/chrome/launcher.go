package chrome

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/placemap/internal/core/domain"
	"github.com/custodia-labs/placemap/internal/core/ports/driven"
	"github.com/custodia-labs/placemap/internal/logger"
)

// Ensure Launcher implements the interface.
var _ driven.BrowserLauncher = (*Launcher)(nil)

// DefaultNavigateTimeout bounds a single page load or click.
const DefaultNavigateTimeout = 30 * time.Second

// Options configures the Chrome process and session behaviour.
type Options struct {
	Headless  bool
	ExecPath  string
	UserAgent string

	// RatePerSecond caps navigations per second. Zero or less disables the cap.
	RatePerSecond float64

	// NavigateTimeout bounds each navigation and click.
	NavigateTimeout time.Duration
}

// OptionsFromSettings maps browser settings onto launcher options.
func OptionsFromSettings(s domain.BrowserSettings) Options {
	return Options{
		Headless:        s.Headless,
		ExecPath:        s.ExecPath,
		UserAgent:       s.UserAgent,
		RatePerSecond:   s.RatePerSecond,
		NavigateTimeout: DefaultNavigateTimeout,
	}
}

// Launcher starts Chrome sessions.
type Launcher struct {
	opts Options
}

// NewLauncher creates a launcher with the given options.
func NewLauncher(opts Options) *Launcher {
	if opts.NavigateTimeout <= 0 {
		opts.NavigateTimeout = DefaultNavigateTimeout
	}
	return &Launcher{opts: opts}
}

// Launch starts a Chrome process and opens a tab.
// The process outlives ctx and is stopped by Session.Close; ctx only bounds
// the start-up.
func (l *Launcher) Launch(ctx context.Context) (driven.BrowserSession, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocatorOptions(l.opts)...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	stop := context.AfterFunc(ctx, browserCancel)
	err := chromedp.Run(browserCtx)
	stop()
	if err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("%w: start chrome: %w", domain.ErrBrowserUnavailable, err)
	}

	logger.Debug("Chrome started (headless=%v)", l.opts.Headless)

	return &Session{
		ctx:             browserCtx,
		cancelAlloc:     allocCancel,
		limiter:         newLimiter(l.opts.RatePerSecond),
		navigateTimeout: l.opts.NavigateTimeout,
	}, nil
}

// allocatorOptions builds the Chrome command line: chromedp's defaults plus
// --disable-gpu and --no-sandbox, with headless mode switchable.
func allocatorOptions(opts Options) []chromedp.ExecAllocatorOption {
	allocOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	allocOpts = append(allocOpts,
		chromedp.Flag("headless", opts.Headless),
		chromedp.DisableGPU,
		chromedp.NoSandbox,
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	return allocOpts
}

func newLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}
