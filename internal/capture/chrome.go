package capture

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"

	apperrors "go-visual-diff/internal/errors"
	"go-visual-diff/internal/logger"
)

// Options configures the headless Chrome capturer.
type Options struct {
	// Tabs is the size of the capture resource pool.
	Tabs int
	// ViewportWidth and ViewportHeight set the emulated viewport.
	ViewportWidth  int
	ViewportHeight int
	// Timeout bounds a single page capture.
	Timeout time.Duration
	// SettleDelay is how long to wait after navigation before the
	// screenshot, giving lazy-loaded content a chance to render.
	SettleDelay time.Duration
	// ConsentSelector, when set, is clicked once per tab to dismiss a
	// consent banner. The accepted state lives on the tab for the duration
	// of the run and nowhere else.
	ConsentSelector string
	// Quality is the screenshot quality: 100 produces PNG, lower JPEG.
	Quality int
}

// tab is one pooled browser tab. consentDone is only touched by the task
// currently holding the tab, so it needs no lock.
type tab struct {
	ctx         context.Context
	cancel      context.CancelFunc
	consentDone bool
}

// ChromeCapturer drives headless Chrome with a fixed pool of tabs.
type ChromeCapturer struct {
	opts        Options
	allocCancel context.CancelFunc
	tabs        []*tab
	pool        *Pool[*tab]
}

// NewChromeCapturer starts a headless browser and opens Options.Tabs tabs.
func NewChromeCapturer(opts Options) (*ChromeCapturer, error) {
	if opts.Tabs < 1 {
		opts.Tabs = 1
	}
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = 100
	}

	execOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("disable-gpu", true),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), execOpts...)

	c := &ChromeCapturer{opts: opts, allocCancel: allocCancel}

	// The first context starts the browser; the rest become tabs of it.
	firstCtx, firstCancel := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(firstCtx); err != nil {
		firstCancel()
		allocCancel()
		return nil, apperrors.NewCaptureError("failed to start headless browser", err)
	}
	c.tabs = append(c.tabs, &tab{ctx: firstCtx, cancel: firstCancel})

	for i := 1; i < opts.Tabs; i++ {
		tabCtx, tabCancel := chromedp.NewContext(firstCtx)
		if err := chromedp.Run(tabCtx); err != nil {
			tabCancel()
			c.Close()
			return nil, apperrors.NewCaptureError(fmt.Sprintf("failed to open tab %d", i), err)
		}
		c.tabs = append(c.tabs, &tab{ctx: tabCtx, cancel: tabCancel})
	}

	c.pool = NewPool(c.tabs)
	logger.WithFields(logrus.Fields{
		"tabs":     opts.Tabs,
		"viewport": fmt.Sprintf("%dx%d", opts.ViewportWidth, opts.ViewportHeight),
	}).Info("Headless browser ready")
	return c, nil
}

// AcquireSession blocks until a tab is free.
func (c *ChromeCapturer) AcquireSession(ctx context.Context) (Session, error) {
	t, err := c.pool.Acquire(ctx)
	if err != nil {
		return nil, apperrors.NewCaptureError("capture pool acquisition cancelled", err)
	}
	return &chromeSession{capturer: c, tab: t}, nil
}

// Close tears down all tabs and the browser process.
func (c *ChromeCapturer) Close() error {
	for _, t := range c.tabs {
		t.cancel()
	}
	c.allocCancel()
	return nil
}

type chromeSession struct {
	capturer *ChromeCapturer
	tab      *tab
	released bool
}

func (s *chromeSession) Capture(ctx context.Context, pageURL, outPath string) error {
	if err := ctx.Err(); err != nil {
		return apperrors.NewCaptureError("capture cancelled", err)
	}
	opts := s.capturer.opts

	runCtx, cancel := context.WithTimeout(s.tab.ctx, opts.Timeout)
	defer cancel()

	if err := chromedp.Run(runCtx,
		chromedp.EmulateViewport(int64(opts.ViewportWidth), int64(opts.ViewportHeight)),
		chromedp.Navigate(pageURL),
	); err != nil {
		return apperrors.NewCaptureError(fmt.Sprintf("navigation to %s failed", pageURL), err)
	}

	s.dismissConsentBanner()

	var buf []byte
	if err := chromedp.Run(runCtx,
		chromedp.Sleep(opts.SettleDelay),
		chromedp.FullScreenshot(&buf, opts.Quality),
	); err != nil {
		return apperrors.NewCaptureError(fmt.Sprintf("screenshot of %s failed", pageURL), err)
	}

	if err := os.WriteFile(outPath, buf, 0o644); err != nil {
		return apperrors.NewCaptureError(fmt.Sprintf("failed to write screenshot %s", outPath), err)
	}
	logger.WithFields(logrus.Fields{"url": pageURL, "path": outPath}).Debug("Captured page")
	return nil
}

// dismissConsentBanner clicks the configured selector once per tab. The
// click is best-effort: the banner may already be gone, or the site may not
// show one at all.
func (s *chromeSession) dismissConsentBanner() {
	opts := s.capturer.opts
	if opts.ConsentSelector == "" || s.tab.consentDone {
		return
	}
	clickCtx, cancel := context.WithTimeout(s.tab.ctx, 3*time.Second)
	defer cancel()
	if err := chromedp.Run(clickCtx, chromedp.Click(opts.ConsentSelector, chromedp.NodeVisible)); err != nil {
		logger.WithError(err).Debug("No consent banner to dismiss")
	}
	s.tab.consentDone = true
}

// Release returns the tab to the pool. Safe to call once per session only;
// the guard keeps a double call from corrupting the pool.
func (s *chromeSession) Release() {
	if s.released {
		return
	}
	s.released = true
	s.capturer.pool.Release(s.tab)
}
