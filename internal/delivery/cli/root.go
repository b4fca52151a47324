// Package cli wires configuration, logging and the tracking and validation
// packages into the sitekit command tree.
package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/user/sitekit/internal/adapter/chromedp_renderer"
	"github.com/user/sitekit/internal/repository"
	"github.com/user/sitekit/pkg/config"
	"github.com/user/sitekit/pkg/logger"
)

// RendererFactory opens a page renderer and returns a function releasing it.
type RendererFactory func(timeout time.Duration, logger *zap.Logger) (repository.PageRenderer, func())

// App holds state shared by every subcommand once the root pre-run has loaded it.
type App struct {
	envFile string

	cfg    *config.Config
	logger *zap.Logger

	newRenderer RendererFactory
	httpClient  *http.Client
}

// Option customizes an App.
type Option func(*App)

// WithRenderer replaces the headless browser used for URL audits.
func WithRenderer(f RendererFactory) Option {
	return func(a *App) { a.newRenderer = f }
}

// WithHTTPClient sets the client used for Measurement Protocol hits.
func WithHTTPClient(c *http.Client) Option {
	return func(a *App) { a.httpClient = c }
}

func defaultRenderer(timeout time.Duration, logger *zap.Logger) (repository.PageRenderer, func()) {
	r := chromedp_renderer.NewChromedpRenderer(timeout, logger)
	return r, r.Close
}

// NewRootCommand builds the sitekit command tree.
func NewRootCommand(opts ...Option) *cobra.Command {
	a := &App{newRenderer: defaultRenderer}
	for _, opt := range opts {
		opt(a)
	}

	root := &cobra.Command{
		Use:   "sitekit",
		Short: "Analytics and content tooling for the food truck school site",
		Long: `sitekit audits site pages for heading, content and SEO problems and
drives the analytics pipeline end to end for smoke testing.

Configuration comes from an optional env file and the process environment.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "env file to read configuration from")

	root.AddCommand(a.newAuditCommand())
	root.AddCommand(a.newTrackCommand())
	return root
}

func (a *App) setup(_ *cobra.Command, _ []string) error {
	cfg, err := config.LoadFile(a.envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	l, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.cfg = cfg
	a.logger = l
	return nil
}
