package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/user/sitekit/internal/entity"
	"github.com/user/sitekit/internal/repository"
)

const lessonPage = `<html><head><title>Short</title></head><body>
<h1>Start your food truck</h1><h1>Second title</h1>
<p>Permits first. Then the menu.</p>
<a href="https://discord.gg/trucks">Discord</a>
</body></html>`

func baseEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("ANALYTICS_ENABLED", "false")
	t.Setenv("QUEUE_BACKEND", "memory")
	t.Setenv("SITE_URL", "https://foodtruck.school")
	return filepath.Join(t.TempDir(), "missing.env")
}

func execute(t *testing.T, args []string, opts ...Option) (string, error) {
	t.Helper()
	root := NewRootCommand(opts...)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writePage(t *testing.T, markup string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lesson.html")
	require.NoError(t, os.WriteFile(path, []byte(markup), 0o644))
	return path
}

func TestAuditFileJSON(t *testing.T) {
	envFile := baseEnv(t)
	path := writePage(t, lessonPage)

	out, err := execute(t, []string{"audit", "--env-file", envFile, "--format", "json", path})
	require.NoError(t, err)

	var result entity.ValidationResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, path, result.Source)

	var messages []string
	for _, issue := range result.Issues {
		messages = append(messages, issue.Message)
	}
	assert.Contains(t, messages, "Multiple H1 headings found (2)")
	assert.Contains(t, messages, "Missing meta description")
	assert.Contains(t, messages, `1 external links missing rel="noopener noreferrer"`)
}

func TestAuditFailOnError(t *testing.T) {
	envFile := baseEnv(t)
	path := writePage(t, lessonPage)

	_, err := execute(t, []string{"audit", "--env-file", envFile, "-o", "yaml", "--fail-on-error", path})
	assert.True(t, errors.Is(err, ErrAuditFailed))
}

func TestAuditTableDevelopmentOnly(t *testing.T) {
	envFile := baseEnv(t)
	path := writePage(t, lessonPage)

	out, err := execute(t, []string{"audit", "--env-file", envFile, "--format", "table", path})
	require.NoError(t, err)
	assert.Contains(t, out, "Content validation: "+path)
	assert.Contains(t, out, "HEADING (1)")

	t.Setenv("ENVIRONMENT", "production")
	out, err = execute(t, []string{"audit", "--env-file", envFile, "--format", "table", path})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestAuditRejectsBadFormat(t *testing.T) {
	envFile := baseEnv(t)
	path := writePage(t, lessonPage)

	_, err := execute(t, []string{"audit", "--env-file", envFile, "--format", "xml", path})
	assert.ErrorContains(t, err, "invalid format")
}

func TestAuditMissingFile(t *testing.T) {
	envFile := baseEnv(t)
	_, err := execute(t, []string{"audit", "--env-file", envFile, "--format", "json", filepath.Join(t.TempDir(), "nope.html")})
	assert.Error(t, err)
}

type staticRenderer struct {
	markup string
	urls   []string
}

func (r *staticRenderer) Render(_ context.Context, url string) (string, error) {
	r.urls = append(r.urls, url)
	return r.markup, nil
}

func TestAuditURLUsesRenderer(t *testing.T) {
	envFile := baseEnv(t)
	r := &staticRenderer{markup: `<html><body><h1>Rendered lesson page</h1>
		<a href="https://discord.gg/trucks">Discord</a>
		<a href="https://example.com/about">About</a></body></html>`}
	released := false
	factory := func(time.Duration, *zap.Logger) (repository.PageRenderer, func()) {
		return r, func() { released = true }
	}

	out, err := execute(t, []string{"audit", "--env-file", envFile, "--format", "json", "https://example.com/lessons/1"}, WithRenderer(factory))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/lessons/1"}, r.urls)
	assert.True(t, released)

	var result entity.ValidationResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "https://example.com/lessons/1", result.Source)
	var external []string
	for _, issue := range result.Issues {
		if strings.Contains(issue.Message, "external links") {
			external = append(external, issue.Message)
		}
	}
	assert.Equal(t, []string{`1 external links missing rel="noopener noreferrer"`}, external)
}

func TestAuditWatchRejectsURL(t *testing.T) {
	envFile := baseEnv(t)
	_, err := execute(t, []string{"audit", "--env-file", envFile, "--watch", "--format", "json", "https://example.com"})
	assert.ErrorContains(t, err, "--watch")
}

type hit struct {
	Query  string
	Name   string
	Params map[string]any
}

func collectServer(t *testing.T, status int) (*httptest.Server, func() []hit) {
	t.Helper()
	var (
		mu   sync.Mutex
		hits []hit
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Events []struct {
				Name   string         `json:"name"`
				Params map[string]any `json:"params"`
			} `json:"events"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			mu.Lock()
			for _, ev := range body.Events {
				hits = append(hits, hit{Query: r.URL.RawQuery, Name: ev.Name, Params: ev.Params})
			}
			mu.Unlock()
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []hit {
		mu.Lock()
		defer mu.Unlock()
		return append([]hit(nil), hits...)
	}
}

func enableAnalytics(t *testing.T, endpoint string) {
	t.Helper()
	t.Setenv("ANALYTICS_ENABLED", "true")
	t.Setenv("GA_MEASUREMENT_ID", "G-TEST123")
	t.Setenv("GA_API_SECRET", "secret")
	t.Setenv("GA_ENDPOINT", endpoint)
	t.Setenv("GA_CLIENT_ID", "client-1")
}

func TestTrackDisabled(t *testing.T) {
	envFile := baseEnv(t)
	srv, hits := collectServer(t, http.StatusNoContent)
	t.Setenv("GA_ENDPOINT", srv.URL)

	out, err := execute(t, []string{"track", "--env-file", envFile, "pageview", "/lessons"})
	require.NoError(t, err)
	assert.Contains(t, out, "analytics disabled")
	assert.Empty(t, hits())
}

func TestTrackPageView(t *testing.T) {
	envFile := baseEnv(t)
	srv, hits := collectServer(t, http.StatusNoContent)
	enableAnalytics(t, srv.URL)

	out, err := execute(t, []string{"track", "--env-file", envFile, "pageview", "/lessons/permits?ref=nav"})
	require.NoError(t, err)
	assert.Contains(t, out, "state=loaded")
	assert.Contains(t, out, "client_id=client-1")

	got := hits()
	require.Len(t, got, 1)
	assert.Equal(t, "page_view", got[0].Name)
	assert.Equal(t, "/lessons/permits?ref=nav", got[0].Params["page_path"])
	assert.Equal(t, "https://foodtruck.school/lessons/permits?ref=nav", got[0].Params["page_location"])
	assert.Contains(t, got[0].Query, "measurement_id=G-TEST123")
}

func TestTrackEvent(t *testing.T) {
	envFile := baseEnv(t)
	srv, hits := collectServer(t, http.StatusNoContent)
	enableAnalytics(t, srv.URL)

	_, err := execute(t, []string{"track", "--env-file", envFile, "event",
		"--action", "subscribe", "--category", "conversion", "--label", "newsletter", "--value", "5"})
	require.NoError(t, err)

	got := hits()
	require.Len(t, got, 1)
	assert.Equal(t, "subscribe", got[0].Name)
	assert.Equal(t, "conversion", got[0].Params["event_category"])
	assert.Equal(t, "newsletter", got[0].Params["event_label"])
	assert.Equal(t, 5.0, got[0].Params["value"])
}

func TestTrackEventValidation(t *testing.T) {
	envFile := baseEnv(t)
	enableAnalytics(t, "http://127.0.0.1:1")

	_, err := execute(t, []string{"track", "--env-file", envFile, "event", "--action", "hover", "--category", "content"})
	assert.ErrorContains(t, err, `invalid action "hover"`)

	_, err = execute(t, []string{"track", "--env-file", envFile, "event", "--action", "view", "--category", "blog"})
	assert.ErrorContains(t, err, `invalid category "blog"`)
}

func TestTrackReportsDeliveryFailure(t *testing.T) {
	envFile := baseEnv(t)
	srv, _ := collectServer(t, http.StatusInternalServerError)
	enableAnalytics(t, srv.URL)

	_, err := execute(t, []string{"track", "--env-file", envFile, "pageview", "/"})
	assert.ErrorContains(t, err, "unexpected status 500")
}

func TestTrackRequiresCredentials(t *testing.T) {
	envFile := baseEnv(t)
	t.Setenv("GA_MEASUREMENT_ID", "")
	t.Setenv("GA_API_SECRET", "")

	_, err := execute(t, []string{"track", "--env-file", envFile, "--enabled", "pageview", "/"})
	assert.ErrorContains(t, err, "GA_MEASUREMENT_ID")
}
