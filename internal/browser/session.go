// internal/browser/session.go
package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kestrelqa/authproof-cli/api/schemas"
	"github.com/kestrelqa/authproof-cli/internal/config"
)

// Session represents one browser tab and implements schemas.Driver.
type Session struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger
	cfg    config.BrowserConfig

	mu       sync.Mutex
	isClosed bool
}

var _ schemas.Driver = (*Session)(nil)

func newSession(ctx context.Context, cancel context.CancelFunc, cfg config.BrowserConfig, logger *zap.Logger) *Session {
	sessionID := uuid.New().String()
	return &Session{
		id:     sessionID,
		ctx:    ctx,
		cancel: cancel,
		cfg:    cfg,
		logger: logger.Named("session").With(zap.String("session_id", sessionID)),
	}
}

// ID returns the unique identifier for the session.
func (s *Session) ID() string {
	return s.id
}

// runActions executes chromedp actions, respecting both the session
// lifetime (s.ctx) and the incoming request context (ctx).
func (s *Session) runActions(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := CombineContext(s.ctx, ctx)
	defer cancel()

	return chromedp.Run(runCtx, actions...)
}

// Navigate loads the URL and waits for the document body to be ready.
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.logger.Debug("Navigating.", zap.String("url", url))

	navTimeout := s.cfg.NavigationTimeout
	if navTimeout <= 0 {
		navTimeout = 90 * time.Second
	}
	navCtx, navCancel := context.WithTimeout(ctx, navTimeout)
	defer navCancel()

	err := s.runActions(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		if navCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("navigation to %s timed out after %s: %w", url, navTimeout, err)
		}
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	return nil
}

// WaitVisible blocks until the selector matches a visible element or the
// timeout elapses.
func (s *Session) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.runActions(waitCtx, chromedp.WaitVisible(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("element '%s' not visible within %s: %w", selector, timeout, err)
	}
	return nil
}

// Fill clears and types into the element matching the selector.
func (s *Session) Fill(ctx context.Context, selector, value string) error {
	s.logger.Debug("Filling element.", zap.String("selector", selector), zap.Int("value_length", len(value)))

	fillCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	err := s.runActions(fillCtx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Clear(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, value, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("fill action failed for selector '%s': %w", selector, err)
	}
	return nil
}

// Click clicks the element matching the selector.
func (s *Session) Click(ctx context.Context, selector string) error {
	s.logger.Debug("Clicking element.", zap.String("selector", selector))

	clickCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	err := s.runActions(clickCtx,
		chromedp.ScrollIntoView(selector, chromedp.ByQuery),
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Click(selector, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("click action failed for selector '%s': %w", selector, err)
	}
	return nil
}

// Text returns the trimmed text content of the first element matching the
// selector.
func (s *Session) Text(ctx context.Context, selector string) (string, error) {
	textCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	var content string
	err := s.runActions(textCtx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Text(selector, &content, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("text extraction failed for selector '%s': %w", selector, err)
	}
	return strings.TrimSpace(content), nil
}

// CurrentURL reports the location of the active page.
func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	var url string
	if err := s.runActions(ctx, chromedp.Location(&url)); err != nil {
		return "", fmt.Errorf("failed to read current location: %w", err)
	}
	return url, nil
}

// Screenshot captures a full-page screenshot into the configured directory
// and returns the written path.
func (s *Session) Screenshot(ctx context.Context, name string) (string, error) {
	dir := s.cfg.ScreenshotDir
	if dir == "" {
		dir = "screenshots"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create screenshot dir %s: %w", dir, err)
	}

	shotCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	var buf []byte
	err := s.runActions(shotCtx, chromedp.FullScreenshot(&buf, 90))
	if err != nil {
		return "", fmt.Errorf("screenshot capture failed: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s-%s.png", name, uuid.New().String()[:8]))
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return "", fmt.Errorf("failed to write screenshot %s: %w", path, err)
	}
	s.logger.Debug("Screenshot captured.", zap.String("path", path))
	return path, nil
}

// ClearStorage wipes local/session storage and cookies for the current
// origin. The login flow uses it to guarantee a clean slate between runs.
func (s *Session) ClearStorage(ctx context.Context) error {
	clearCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := s.runActions(clearCtx,
		chromedp.Evaluate(`(() => { try { localStorage.clear(); sessionStorage.clear(); } catch (e) {} })()`, nil),
		chromedp.ActionFunc(func(c context.Context) error {
			return network.ClearBrowserCookies().Do(c)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to clear storage: %w", err)
	}
	return nil
}

// Close terminates the tab.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.isClosed {
		s.mu.Unlock()
		return nil
	}
	s.isClosed = true
	s.mu.Unlock()

	s.logger.Debug("Closing browser session.")
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}
