// internal/transport/browser.go
package transport

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// Surface is one rendering tab
type Surface interface {
	Load(ctx context.Context, html string) error
	Print(ctx context.Context) error
	PDF(ctx context.Context) ([]byte, error)
	Close()
}

// SurfaceOpener creates rendering tabs
type SurfaceOpener interface {
	Open(ctx context.Context) (Surface, error)
}

// BrowserConfig configures the Chrome instance behind the markup transports
type BrowserConfig struct {
	ExecPath string
	Headless bool
	Timeout  time.Duration
}

// Browser owns one Chrome process and hands out tabs
type Browser struct {
	config   BrowserConfig
	logger   *zap.Logger
	mu       sync.Mutex
	allocCtx context.Context
	cancel   context.CancelFunc
}

// NewBrowser prepares the allocator. Chrome itself starts on the first Open.
func NewBrowser(config BrowserConfig, logger *zap.Logger) *Browser {
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}

	opts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", config.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("kiosk-printing", !config.Headless),
	)
	if config.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(config.ExecPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Browser{
		config:   config,
		logger:   logger.With(zap.String("component", "browser")),
		allocCtx: allocCtx,
		cancel:   cancel,
	}
}

// Open creates a new tab. Failure to start Chrome surfaces here.
func (b *Browser) Open(ctx context.Context) (Surface, error) {
	b.mu.Lock()
	allocCtx := b.allocCtx
	b.mu.Unlock()
	if allocCtx == nil {
		return nil, fmt.Errorf("browser closed")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tabCtx, cancel := chromedp.NewContext(allocCtx)

	// The first Run allocates the browser and the tab; it must use the tab
	// context itself or a caller timeout would tear the tab down later.
	if err := chromedp.Run(tabCtx); err != nil {
		cancel()
		b.logger.Warn("Failed to open tab", zap.Error(err))
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return &tab{browser: b, ctx: tabCtx, cancel: cancel}, nil
}

// Close terminates Chrome
func (b *Browser) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
		b.allocCtx = nil
	}
}

// bound derives an action context from the tab that also ends with the
// caller's context and the configured timeout
func (b *Browser) bound(caller, tabCtx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(tabCtx, b.config.Timeout)
	stop := context.AfterFunc(caller, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

type tab struct {
	browser *Browser
	ctx     context.Context
	cancel  context.CancelFunc
}

func (t *tab) Load(ctx context.Context, html string) error {
	runCtx, stop := t.browser.bound(ctx, t.ctx)
	defer stop()

	err := chromedp.Run(runCtx,
		chromedp.Navigate("data:text/html;charset=utf-8,"+urlEncode(html)),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("failed to load receipt: %w", err)
	}
	return nil
}

func (t *tab) Print(ctx context.Context) error {
	runCtx, stop := t.browser.bound(ctx, t.ctx)
	defer stop()

	// Deferred so the evaluation returns before the modal dialog blocks the page
	var timer int
	if err := chromedp.Run(runCtx, chromedp.Evaluate(`setTimeout(() => window.print(), 0)`, &timer)); err != nil {
		return fmt.Errorf("failed to invoke print: %w", err)
	}
	return nil
}

func (t *tab) PDF(ctx context.Context) ([]byte, error) {
	runCtx, stop := t.browser.bound(ctx, t.ctx)
	defer stop()

	var pdf []byte
	err := chromedp.Run(runCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		data, _, err := page.PrintToPDF().
			WithPrintBackground(true).
			WithPreferCSSPageSize(true).
			Do(ctx)
		if err != nil {
			return err
		}
		pdf = data
		return nil
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return pdf, nil
}

func (t *tab) Close() {
	t.cancel()
}

// urlEncode encodes HTML for a data URL
func urlEncode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
