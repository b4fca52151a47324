package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/user/sitekit/internal/delivery/http/handler"
	"github.com/user/sitekit/internal/delivery/http/router"
	"github.com/user/sitekit/internal/delivery/http/server"
	"github.com/user/sitekit/internal/entity"
	"github.com/user/sitekit/internal/repository"
	"github.com/user/sitekit/internal/usecase"
	"github.com/user/sitekit/internal/validation"
	"github.com/user/sitekit/internal/watch"
	"github.com/user/sitekit/pkg/metrics"
)

// ErrAuditFailed is returned by audit --fail-on-error when errors were found.
var ErrAuditFailed = errors.New("audit found errors")

type auditFlags struct {
	selector    string
	baseURL     string
	format      string
	watch       bool
	metricsAddr string
	failOnError bool
}

func (a *App) newAuditCommand() *cobra.Command {
	var f auditFlags
	cmd := &cobra.Command{
		Use:   "audit <file|url>",
		Short: "Check a page for heading, content and SEO issues",
		Long: `Audit parses an HTML file, or renders a URL in headless Chrome, and reports
heading hierarchy, content length and readability, and SEO problems.

Examples:
  sitekit audit public/lessons/permits.html
  sitekit audit --selector main https://foodtruck.school/lessons/permits
  sitekit audit --watch --metrics-addr :9090 public/index.html
  sitekit audit --format yaml public/index.html | less`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAudit(cmd.Context(), cmd.OutOrStdout(), args[0], f)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&f.selector, "selector", "", "CSS selector of the content container (default: body)")
	flags.StringVar(&f.baseURL, "base-url", "", "site origin used to classify links (default: SITE_URL)")
	flags.StringVarP(&f.format, "format", "o", "", "output format: table, json or yaml (default: table on a terminal, json otherwise)")
	flags.BoolVarP(&f.watch, "watch", "w", false, "re-run the audit whenever the file changes")
	flags.StringVar(&f.metricsAddr, "metrics-addr", "", "serve /metrics, /healthz and /api/audit while watching (default: METRICS_ADDR)")
	flags.BoolVar(&f.failOnError, "fail-on-error", false, "exit non-zero when the audit reports any error")
	return cmd
}

func (a *App) runAudit(ctx context.Context, out io.Writer, target string, f auditFlags) error {
	format, err := detectFormat(f.format, out)
	if err != nil {
		return err
	}
	remote := usecase.IsRemote(target)
	if f.watch && remote {
		return errors.New("--watch only supports local files")
	}

	base, err := a.baseURL(f.baseURL, remote)
	if err != nil {
		return err
	}

	var m *metrics.Metrics
	reg := prometheus.NewRegistry()
	if f.watch {
		m = metrics.New(reg)
	}

	var renderer repository.PageRenderer
	if remote {
		r, release := a.newRenderer(time.Duration(a.cfg.RenderTimeout)*time.Second, a.logger)
		defer release()
		renderer = r
	}
	auditor := usecase.NewAuditUseCase(
		validation.NewValidator(a.logger, m),
		renderer,
		usecase.AuditOptions{Selector: f.selector, BaseURL: base},
		m,
		a.logger,
	)

	if f.watch {
		return a.watchAudit(ctx, out, target, format, f, auditor, m, reg)
	}

	result, err := auditor.Audit(ctx, target)
	if err != nil {
		return err
	}
	if err := a.emit(out, result, format); err != nil {
		return err
	}
	if f.failOnError && result.Count(entity.IssueError) > 0 {
		return ErrAuditFailed
	}
	return nil
}

func (a *App) watchAudit(
	ctx context.Context,
	out io.Writer,
	target string,
	format validation.Format,
	f auditFlags,
	auditor usecase.Auditor,
	m *metrics.Metrics,
	reg *prometheus.Registry,
) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	h := handler.NewHandler(a.logger)
	var outMu sync.Mutex
	rerun := func() {
		result, err := auditor.Audit(ctx, target)
		if err != nil {
			a.logger.Error("audit failed", zap.String("source", target), zap.Error(err))
			return
		}
		h.Publish(result)
		outMu.Lock()
		defer outMu.Unlock()
		if err := a.emit(out, result, format); err != nil {
			a.logger.Error("write audit report", zap.Error(err))
		}
	}

	w, err := watch.New(target, time.Duration(a.cfg.WatchDebounceMS)*time.Millisecond, rerun, a.logger)
	if err != nil {
		return err
	}
	defer w.Close()

	addr := f.metricsAddr
	if addr == "" {
		addr = a.cfg.MetricsAddr
	}
	serverErr := make(chan error, 1)
	if addr != "" {
		srv := server.New(addr, router.New(h, m, reg, a.logger), a.logger)
		go func() { serverErr <- srv.Run(ctx) }()
	}

	rerun()
	a.logger.Info("watching for changes", zap.String("path", w.Path()))

	watchErr := make(chan error, 1)
	go func() { watchErr <- w.Run(ctx) }()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	case err := <-watchErr:
		return err
	case <-ctx.Done():
		return nil
	}
}

// emit writes result in format. The table report is a development aid; in
// production a single summary line is logged instead.
func (a *App) emit(out io.Writer, result entity.ValidationResult, format validation.Format) error {
	if format == validation.FormatTable && a.cfg.IsProduction() {
		a.logger.Info("content validation",
			zap.String("source", result.Source),
			zap.Int("errors", result.Count(entity.IssueError)),
			zap.Int("warnings", result.Count(entity.IssueWarning)),
			zap.Int("info", result.Count(entity.IssueInfo)),
			zap.Int("words", result.Metrics.WordCount),
		)
		return nil
	}
	return validation.Encode(out, result, format, !a.cfg.IsProduction())
}

// baseURL picks the origin used to classify links. A URL target without an
// explicit --base-url is left to the auditor, which uses the target itself.
func (a *App) baseURL(flagValue string, remote bool) (*url.URL, error) {
	raw := flagValue
	if raw == "" && !remote {
		raw = a.cfg.SiteURL
	}
	if raw == "" {
		return nil, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", raw, err)
	}
	return u, nil
}

// detectFormat honors an explicit format, otherwise picks a table for
// terminals and JSON for pipes and redirects.
func detectFormat(explicit string, w io.Writer) (validation.Format, error) {
	if explicit != "" {
		return validation.ParseFormat(explicit)
	}
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return validation.FormatTable, nil
	}
	return validation.FormatJSON, nil
}
