package tracking

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/user/sitekit/internal/entity"
	"github.com/user/sitekit/internal/repository"
	"github.com/user/sitekit/pkg/metrics"
)

// ScriptEndpoint is the vendor loader the site's script tag points at.
const ScriptEndpoint = "https://www.googletagmanager.com/gtag/js"

// ScriptURL returns the loader URL for a measurement ID.
func ScriptURL(measurementID string) string {
	return ScriptEndpoint + "?id=" + url.QueryEscape(measurementID)
}

// DefaultConsent is issued once at initialization: analytics allowed,
// advertising denied.
var DefaultConsent = map[string]any{
	"analytics_storage": "granted",
	"ad_storage":        "denied",
}

// BootstrapOptions configures Bootstrap.
type BootstrapOptions struct {
	MeasurementID string
	// InitialPath, when set, is reported as the page of the config command.
	InitialPath string
	Logger      *zap.Logger
	Metrics     *metrics.Metrics
	Now         func() time.Time
}

// Bootstrap creates the DataLayer over queue and enqueues the js, consent
// default and config commands in that order. It is not guarded against
// repeated calls; a second call enqueues the bootstrap commands again.
func Bootstrap(ctx context.Context, queue repository.CommandQueue, opts BootstrapOptions) (*DataLayer, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	dl := NewDataLayer(queue, opts.Logger, opts.Metrics)

	configParams := map[string]any{}
	if opts.InitialPath != "" {
		configParams["page_path"] = opts.InitialPath
	}

	consent := make(map[string]any, len(DefaultConsent))
	for k, v := range DefaultConsent {
		consent[k] = v
	}

	commands := []entity.Command{
		{Name: entity.CommandJS, IssuedAt: now()},
		{Name: entity.CommandConsent, Target: "default", Params: consent, IssuedAt: now()},
		{Name: entity.CommandConfig, Target: opts.MeasurementID, Params: configParams, IssuedAt: now()},
	}
	for _, cmd := range commands {
		if err := dl.Push(ctx, cmd); err != nil {
			return nil, fmt.Errorf("bootstrap dataLayer: %w", err)
		}
	}
	return dl, nil
}
