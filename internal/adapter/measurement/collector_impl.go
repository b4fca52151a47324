package measurement

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/user/sitekit/internal/entity"
)

// DefaultEndpoint is the GA4 Measurement Protocol collection URL.
const DefaultEndpoint = "https://www.google-analytics.com/mp/collect"

// Options configures the Measurement Protocol collector.
type Options struct {
	Endpoint      string
	MeasurementID string
	APISecret     string
	ClientID      string // generated when empty
	SiteURL       string // origin used to build page_location
	HTTPClient    *http.Client
	Logger        *zap.Logger
}

type consentState struct {
	analyticsGranted bool
	adsGranted       bool
}

// CollectorImpl forwards queued gtag commands to GA4 over the Measurement Protocol.
type CollectorImpl struct {
	endpoint      string
	measurementID string
	apiSecret     string
	clientID      string
	siteURL       string
	client        *http.Client
	logger        *zap.Logger

	mu      sync.Mutex
	consent consentState
}

type payload struct {
	ClientID string          `json:"client_id"`
	Consent  *payloadConsent `json:"consent,omitempty"`
	Events   []payloadEvent  `json:"events"`
}

type payloadConsent struct {
	AdUserData        string `json:"ad_user_data"`
	AdPersonalization string `json:"ad_personalization"`
}

type payloadEvent struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params,omitempty"`
}

// NewCollector creates a new collector. Until a consent command is seen,
// analytics storage is treated as granted and ad storage as denied.
func NewCollector(opts Options) *CollectorImpl {
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	clientID := opts.ClientID
	if clientID == "" {
		clientID = uuid.New().String()
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CollectorImpl{
		endpoint:      endpoint,
		measurementID: opts.MeasurementID,
		apiSecret:     opts.APISecret,
		clientID:      clientID,
		siteURL:       strings.TrimRight(opts.SiteURL, "/"),
		client:        client,
		logger:        logger,
		consent:       consentState{analyticsGranted: true},
	}
}

// ClientID returns the pseudonymous client identifier sent with every hit.
func (c *CollectorImpl) ClientID() string {
	return c.clientID
}

// Collect delivers one command. js commands and configs without a page are
// bookkeeping only and produce no request.
func (c *CollectorImpl) Collect(ctx context.Context, cmd entity.Command) error {
	switch cmd.Name {
	case entity.CommandJS:
		return nil
	case entity.CommandConsent:
		c.applyConsent(cmd)
		return nil
	case entity.CommandConfig:
		pagePath, _ := cmd.Params["page_path"].(string)
		if pagePath == "" {
			return nil
		}
		return c.send(ctx, payloadEvent{
			Name: "page_view",
			Params: map[string]any{
				"page_path":     pagePath,
				"page_location": c.siteURL + pagePath,
			},
		})
	case entity.CommandEvent:
		return c.send(ctx, payloadEvent{Name: cmd.Target, Params: cmd.Params})
	default:
		c.logger.Debug("ignoring unknown command", zap.String("name", cmd.Name))
		return nil
	}
}

func (c *CollectorImpl) applyConsent(cmd entity.Command) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := cmd.Params["analytics_storage"].(string); ok {
		c.consent.analyticsGranted = v == "granted"
	}
	if v, ok := cmd.Params["ad_storage"].(string); ok {
		c.consent.adsGranted = v == "granted"
	}
}

func (c *CollectorImpl) send(ctx context.Context, ev payloadEvent) error {
	c.mu.Lock()
	consent := c.consent
	c.mu.Unlock()

	if !consent.analyticsGranted {
		c.logger.Debug("analytics storage denied, dropping hit", zap.String("event", ev.Name))
		return nil
	}

	adValue := "DENIED"
	if consent.adsGranted {
		adValue = "GRANTED"
	}
	body, err := json.Marshal(payload{
		ClientID: c.clientID,
		Consent:  &payloadConsent{AdUserData: adValue, AdPersonalization: adValue},
		Events:   []payloadEvent{ev},
	})
	if err != nil {
		return fmt.Errorf("encode measurement payload: %w", err)
	}

	q := url.Values{}
	q.Set("measurement_id", c.measurementID)
	q.Set("api_secret", c.apiSecret)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"?"+q.Encode(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build measurement request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send %s hit: %w", ev.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("send %s hit: unexpected status %d", ev.Name, resp.StatusCode)
	}
	c.logger.Debug("hit delivered", zap.String("event", ev.Name), zap.Int("status", resp.StatusCode))
	return nil
}
