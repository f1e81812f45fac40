// internal/browser/manager.go
package browser

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/kestrelqa/authproof-cli/internal/config"
)

// Manager owns the browser process lifecycle and hands out tab sessions.
// Scenarios never touch allocator contexts directly.
type Manager struct {
	logger *zap.Logger
	cfg    config.BrowserConfig

	allocCtx    context.Context
	allocCancel context.CancelFunc

	mu       sync.Mutex
	sessions []*Session

	initOnce sync.Once
	initErr  error
}

// NewManager creates a browser manager. Browser launch is deferred until the
// first session is requested.
func NewManager(cfg config.BrowserConfig, logger *zap.Logger) *Manager {
	return &Manager{
		logger: logger.Named("browser_manager"),
		cfg:    cfg,
	}
}

// execOptions translates the browser config into chromedp allocator options.
func (m *Manager) execOptions() []chromedp.ExecAllocatorOption {
	// chromedp defaults plus flags needed for stability in containers and
	// hardened CI environments.
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if m.cfg.Headless {
		opts = append(opts, chromedp.Headless)
	} else {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	return opts
}

// initialize creates the exec allocator on first use.
func (m *Manager) initialize(ctx context.Context) error {
	m.initOnce.Do(func() {
		m.logger.Info("Launching browser allocator.", zap.Bool("headless", m.cfg.Headless))
		m.allocCtx, m.allocCancel = chromedp.NewExecAllocator(ctx, m.execOptions()...)
	})
	return m.initErr
}

// NewSession creates a fresh tab session. The returned Session implements
// schemas.Driver.
func (m *Manager) NewSession(ctx context.Context) (*Session, error) {
	if err := m.initialize(ctx); err != nil {
		return nil, err
	}

	tabCtx, tabCancel := chromedp.NewContext(m.allocCtx)

	// Force target creation now so session construction fails eagerly when
	// the browser cannot start.
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		return nil, fmt.Errorf("failed to start browser tab: %w", err)
	}

	s := newSession(tabCtx, tabCancel, m.cfg, m.logger)

	m.mu.Lock()
	m.sessions = append(m.sessions, s)
	m.mu.Unlock()

	return s, nil
}

// Shutdown closes all sessions and the browser process.
func (m *Manager) Shutdown(ctx context.Context) {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = nil
	m.mu.Unlock()

	for _, s := range sessions {
		if err := s.Close(ctx); err != nil {
			m.logger.Warn("Session close failed during shutdown.", zap.Error(err))
		}
	}

	if m.allocCancel != nil {
		m.allocCancel()
	}
	m.logger.Debug("Browser manager shut down.")
}
