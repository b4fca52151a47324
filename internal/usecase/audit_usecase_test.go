package usecase

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/sitekit/internal/repository"
	"github.com/user/sitekit/internal/validation"
	"github.com/user/sitekit/pkg/metrics"
)

type fakeRenderer struct {
	markup string
	err    error
}

func (f fakeRenderer) Render(context.Context, string) (string, error) {
	return f.markup, f.err
}

const page = `<html><body><h1>Food truck permits</h1>
<a href="https://foodtruck.school/lessons">Lessons</a>
<a href="https://discord.gg/trucks">Discord</a></body></html>`

func TestAuditLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")
	require.NoError(t, os.WriteFile(path, []byte(page), 0o644))

	base, _ := url.Parse("https://foodtruck.school")
	uc := NewAuditUseCase(validation.NewValidator(nil, nil), nil, AuditOptions{BaseURL: base}, nil, nil)

	result, err := uc.Audit(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, result.Source)
	assert.Equal(t, 2, result.Metrics.LinkCount)
}

func TestAuditURLIsItsOwnBase(t *testing.T) {
	uc := NewAuditUseCase(validation.NewValidator(nil, nil), fakeRenderer{markup: page}, AuditOptions{}, nil, nil)

	result, err := uc.Audit(context.Background(), "https://foodtruck.school/permits")
	require.NoError(t, err)

	var external int
	for _, issue := range result.Issues {
		if issue.Message == `1 external links missing rel="noopener noreferrer"` {
			external++
		}
	}
	assert.Equal(t, 1, external)
}

func TestAuditURLWithoutRenderer(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	uc := NewAuditUseCase(validation.NewValidator(nil, m), nil, AuditOptions{}, m, nil)

	_, err := uc.Audit(context.Background(), "https://foodtruck.school/")
	assert.ErrorIs(t, err, ErrNoRenderer)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuditsTotal.WithLabelValues("no_renderer")))
}

func TestAuditRenderFailuresClassified(t *testing.T) {
	cases := map[string]error{
		"render_timeout": fmt.Errorf("%w: after 30s", repository.ErrRenderTimeout),
		"render_failed":  fmt.Errorf("%w: net::ERR_NAME_NOT_RESOLVED", repository.ErrRenderFailed),
		"unknown":        fmt.Errorf("browser crashed"),
	}
	for status, renderErr := range cases {
		t.Run(status, func(t *testing.T) {
			m := metrics.New(prometheus.NewRegistry())
			uc := NewAuditUseCase(validation.NewValidator(nil, m), fakeRenderer{err: renderErr}, AuditOptions{}, m, nil)

			_, err := uc.Audit(context.Background(), "https://foodtruck.school/")
			assert.ErrorIs(t, err, renderErr)
			assert.Equal(t, 1.0, testutil.ToFloat64(m.AuditsTotal.WithLabelValues(status)))
		})
	}
}

func TestAuditMissingFile(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	uc := NewAuditUseCase(validation.NewValidator(nil, m), nil, AuditOptions{}, m, nil)

	_, err := uc.Audit(context.Background(), filepath.Join(t.TempDir(), "missing.html"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuditsTotal.WithLabelValues("read_failed")))
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("https://foodtruck.school"))
	assert.True(t, IsRemote("http://localhost:3000/lessons"))
	assert.False(t, IsRemote("public/index.html"))
	assert.False(t, IsRemote("ftp://example.com/file"))
}
