package chromedp_renderer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/user/sitekit/internal/repository"
)

const userAgent = `Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36 sitekit-audit`

// ChromedpRenderer renders pages in headless Chrome so client-side content is
// present in the audited DOM.
type ChromedpRenderer struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	timeout     time.Duration
	logger      *zap.Logger

	mu     sync.Mutex
	closed bool
}

// NewChromedpRenderer creates a renderer backed by a single browser allocator.
func NewChromedpRenderer(pageLoadTimeout time.Duration, logger *zap.Logger) *ChromedpRenderer {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(userAgent),
	)
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChromedpRenderer{
		allocCtx:    allocCtx,
		allocCancel: cancel,
		timeout:     pageLoadTimeout,
		logger:      logger,
	}
}

var _ repository.PageRenderer = (*ChromedpRenderer)(nil)

// Render navigates to url and returns the outer HTML of the document.
func (r *ChromedpRenderer) Render(ctx context.Context, url string) (string, error) {
	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		return "", fmt.Errorf("%w: renderer closed", repository.ErrRenderFailed)
	}

	taskCtx, cancel := chromedp.NewContext(r.allocCtx, chromedp.WithLogf(r.logger.Sugar().Debugf))
	defer cancel()

	// Tie the browser tab to the caller's context as well as the render timeout.
	taskCtx, cancelTimeout := context.WithTimeout(taskCtx, r.timeout)
	defer cancelTimeout()
	stop := context.AfterFunc(ctx, cancelTimeout)
	defer stop()

	start := time.Now()
	var html string
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		if errors.Is(taskCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %s after %s", repository.ErrRenderTimeout, url, r.timeout)
		}
		return "", fmt.Errorf("%w: %s: %v", repository.ErrRenderFailed, url, err)
	}

	r.logger.Info("rendered page",
		zap.String("url", url),
		zap.Int("bytes", len(html)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return html, nil
}

// Close shuts the browser down. Further Render calls fail.
func (r *ChromedpRenderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.allocCancel()
}
