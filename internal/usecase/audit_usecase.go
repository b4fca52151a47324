package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/user/sitekit/internal/entity"
	"github.com/user/sitekit/internal/repository"
	"github.com/user/sitekit/internal/validation"
	"github.com/user/sitekit/pkg/metrics"
)

// ErrNoRenderer is returned when a URL is audited without a page renderer.
var ErrNoRenderer = errors.New("no page renderer configured for remote targets")

// Auditor validates a single page, given as a local path or an http(s) URL.
type Auditor interface {
	Audit(ctx context.Context, target string) (entity.ValidationResult, error)
}

// AuditOptions tunes every audit run by an Auditor.
type AuditOptions struct {
	Selector string
	// BaseURL classifies links. When nil, a URL target is its own base.
	BaseURL *url.URL
}

type auditUseCase struct {
	validator *validation.Validator
	renderer  repository.PageRenderer
	opts      AuditOptions
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewAuditUseCase creates an Auditor. renderer may be nil when only local
// files are audited.
func NewAuditUseCase(
	validator *validation.Validator,
	renderer repository.PageRenderer,
	opts AuditOptions,
	m *metrics.Metrics,
	logger *zap.Logger,
) Auditor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &auditUseCase{
		validator: validator,
		renderer:  renderer,
		opts:      opts,
		metrics:   m,
		logger:    logger,
	}
}

// IsRemote reports whether target is fetched over HTTP rather than read from disk.
func IsRemote(target string) bool {
	return strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://")
}

func (uc *auditUseCase) Audit(ctx context.Context, target string) (entity.ValidationResult, error) {
	startTime := time.Now()
	base := uc.opts.BaseURL

	var markup string
	var err error
	if IsRemote(target) {
		if base == nil {
			base, err = url.Parse(target)
			if err != nil {
				return entity.ValidationResult{}, fmt.Errorf("invalid url %q: %w", target, err)
			}
		}
		markup, err = uc.render(ctx, target)
	} else {
		markup, err = uc.read(target)
	}
	if err != nil {
		return entity.ValidationResult{}, err
	}
	uc.logger.Debug("page loaded", zap.String("target", target), zap.Duration("elapsed", time.Since(startTime)))

	return uc.validator.ValidateHTML(strings.NewReader(markup), validation.Options{
		Selector: uc.opts.Selector,
		BaseURL:  base,
		Source:   target,
	})
}

func (uc *auditUseCase) render(ctx context.Context, target string) (string, error) {
	if uc.renderer == nil {
		uc.countFailure("no_renderer")
		return "", ErrNoRenderer
	}
	markup, err := uc.renderer.Render(ctx, target)
	if err != nil {
		failureType := "unknown"
		switch {
		case errors.Is(err, repository.ErrRenderTimeout):
			failureType = "render_timeout"
		case errors.Is(err, repository.ErrRenderFailed):
			failureType = "render_failed"
		}
		uc.countFailure(failureType)
		uc.logger.Error("rendering failed", zap.String("url", target), zap.String("reason", failureType), zap.Error(err))
		return "", fmt.Errorf("render %s: %w", target, err)
	}
	return markup, nil
}

func (uc *auditUseCase) read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		uc.countFailure("read_failed")
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func (uc *auditUseCase) countFailure(status string) {
	if uc.metrics != nil {
		uc.metrics.AuditsTotal.WithLabelValues(status).Inc()
	}
}
