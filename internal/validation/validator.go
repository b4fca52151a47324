package validation

import (
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/user/sitekit/internal/entity"
	"github.com/user/sitekit/pkg/metrics"
)

// Options selects what a validation run inspects.
type Options struct {
	// Selector picks the container checked for headings, content and
	// images. Empty, or a selector matching nothing, selects the whole
	// document; head content is never counted as visible text.
	Selector string
	// BaseURL resolves relative links when telling internal from external.
	BaseURL *url.URL
	// Source labels the result (file path or URL).
	Source string
}

// Validator runs the heading, content and SEO checks. It never modifies the
// document and never fails: a panic during traversal is logged and reported
// as an info issue on an otherwise empty result.
type Validator struct {
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewValidator creates a validator. Both arguments may be nil.
func NewValidator(logger *zap.Logger, m *metrics.Metrics) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{logger: logger, metrics: m}
}

// ValidateHTML parses r and validates the resulting document.
func (v *Validator) ValidateHTML(r io.Reader, opts Options) (entity.ValidationResult, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return entity.ValidationResult{}, fmt.Errorf("parse html: %w", err)
	}
	return v.Validate(doc, opts), nil
}

// Validate runs every check against doc.
func (v *Validator) Validate(doc *goquery.Document, opts Options) (result entity.ValidationResult) {
	start := time.Now()
	status := "ok"
	defer func() {
		if r := recover(); r != nil {
			status = "recovered"
			v.logger.Error("content validation failed", zap.String("source", opts.Source), zap.Any("panic", r))
			result = entity.ValidationResult{
				Source: opts.Source,
				Issues: []entity.Issue{{
					Type:     entity.IssueInfo,
					Category: entity.IssueContent,
					Message:  fmt.Sprintf("Validation aborted: %v", r),
				}},
				Metrics: entity.ContentMetrics{HeadingCount: map[int]int{}},
			}
		}
		v.observe(result, status, time.Since(start))
	}()

	container := containerOf(doc, opts.Selector)

	issues := ValidateHeadings(container)
	contentIssues, m := ValidateContent(container)
	issues = append(issues, contentIssues...)
	issues = append(issues, ValidateSEO(doc, container, opts.BaseURL)...)

	if issues == nil {
		issues = []entity.Issue{}
	}
	return entity.ValidationResult{Source: opts.Source, Issues: issues, Metrics: m}
}

func containerOf(doc *goquery.Document, selector string) *goquery.Selection {
	if selector != "" {
		if sel := doc.Find(selector); sel.Length() > 0 {
			return sel.First()
		}
	}
	return doc.Selection
}

func (v *Validator) observe(result entity.ValidationResult, status string, elapsed time.Duration) {
	if v.metrics == nil {
		return
	}
	v.metrics.AuditsTotal.WithLabelValues(status).Inc()
	v.metrics.AuditDuration.Observe(elapsed.Seconds())
	for _, issue := range result.Issues {
		v.metrics.AuditIssues.WithLabelValues(string(issue.Type), string(issue.Category)).Inc()
	}
}
