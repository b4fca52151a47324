package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/user/sitekit/internal/adapter/measurement"
	"github.com/user/sitekit/internal/adapter/memory"
	"github.com/user/sitekit/internal/adapter/redis"
	"github.com/user/sitekit/internal/entity"
	"github.com/user/sitekit/internal/repository"
	"github.com/user/sitekit/internal/tracking"
	"github.com/user/sitekit/pkg/metrics"
)

func (a *App) newTrackCommand() *cobra.Command {
	var enabled bool
	cmd := &cobra.Command{
		Use:   "track",
		Short: "Send analytics hits through the full tracking pipeline",
		Long: `Track bootstraps a provider exactly as a page load would, attaches the
Measurement Protocol collector and sends one hit. Use it to smoke test
GA_MEASUREMENT_ID and GA_API_SECRET.`,
	}
	cmd.PersistentFlags().BoolVar(&enabled, "enabled", false, "force analytics on regardless of ANALYTICS_ENABLED")

	pageview := &cobra.Command{
		Use:   "pageview <path>",
		Short: "Report a page view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, query, _ := strings.Cut(args[0], "?")
			return a.runTrack(cmd.Context(), cmd.OutOrStdout(), enabled, "page view "+args[0], func(ctx context.Context, p *tracking.Provider) {
				p.RouteChanged(ctx, path, query)
			})
		},
	}

	var (
		action, category, label string
		value                   int64
	)
	event := &cobra.Command{
		Use:   "event",
		Short: "Report a custom event",
		Example: `  sitekit track event --action download --category resource --label "checklist: Permit checklist"
  sitekit track event --action subscribe --category conversion --label newsletter --value 1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ev := entity.Event{Action: entity.Action(action), Category: entity.Category(category), Label: label}
			if !ev.Action.Valid() {
				return fmt.Errorf("invalid action %q: must be one of %s", action, joinActions())
			}
			if !ev.Category.Valid() {
				return fmt.Errorf("invalid category %q: must be one of %s", category, joinCategories())
			}
			if cmd.Flags().Changed("value") {
				ev.Value = entity.IntValue(value)
			}
			return a.runTrack(cmd.Context(), cmd.OutOrStdout(), enabled, "event "+action, func(ctx context.Context, p *tracking.Provider) {
				p.TrackEvent(ctx, ev)
			})
		},
	}
	event.Flags().StringVar(&action, "action", "", "event action")
	event.Flags().StringVar(&category, "category", "", "event category")
	event.Flags().StringVar(&label, "label", "", "event label")
	event.Flags().Int64Var(&value, "value", 0, "numeric event value")
	_ = event.MarkFlagRequired("action")
	_ = event.MarkFlagRequired("category")

	cmd.AddCommand(pageview, event)
	return cmd
}

func (a *App) runTrack(ctx context.Context, out io.Writer, force bool, what string, send func(context.Context, *tracking.Provider)) error {
	enabled := force || a.cfg.AnalyticsEnabled
	if !enabled {
		fmt.Fprintln(out, "analytics disabled; nothing sent (set ANALYTICS_ENABLED=true or pass --enabled)")
		return nil
	}
	if a.cfg.MeasurementID == "" || a.cfg.APISecret == "" {
		return fmt.Errorf("GA_MEASUREMENT_ID and GA_API_SECRET are required to send hits")
	}

	queue, closeQueue, err := a.openQueue(ctx)
	if err != nil {
		return err
	}
	defer closeQueue()

	collector := measurement.NewCollector(measurement.Options{
		Endpoint:      a.cfg.CollectEndpoint,
		MeasurementID: a.cfg.MeasurementID,
		APISecret:     a.cfg.APISecret,
		ClientID:      a.cfg.ClientID,
		SiteURL:       a.cfg.SiteURL,
		HTTPClient:    a.httpClient,
		Logger:        a.logger,
	})
	recorded := &recordingCollector{next: collector}

	provider := tracking.NewProvider(tracking.ProviderOptions{
		Enabled:       true,
		MeasurementID: a.cfg.MeasurementID,
		Queue:         queue,
		Collector:     recorded,
		Debug:         !a.cfg.IsProduction(),
		Logger:        a.logger,
		Metrics:       metrics.New(prometheus.NewRegistry()),
	})
	if err := provider.Mount(ctx); err != nil {
		return fmt.Errorf("mount analytics: %w", err)
	}

	send(ctx, provider)

	if err := recorded.Err(); err != nil {
		return fmt.Errorf("send %s: %w", what, err)
	}
	fmt.Fprintf(out, "sent %s (state=%s, client_id=%s)\n", what, provider.State(), collector.ClientID())
	return nil
}

func (a *App) openQueue(ctx context.Context) (repository.CommandQueue, func(), error) {
	switch strings.ToLower(a.cfg.QueueBackend) {
	case "", "memory":
		return memory.NewQueueRepo(), func() {}, nil
	case "redis":
		client := goredis.NewClient(&goredis.Options{
			Addr:     a.cfg.RedisAddr,
			Password: a.cfg.RedisPassword,
			DB:       a.cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("connect to redis at %s: %w", a.cfg.RedisAddr, err)
		}
		closeFn := func() {
			if err := client.Close(); err != nil {
				a.logger.Warn("close redis client", zap.Error(err))
			}
		}
		return redis.NewQueueRepo(client, a.cfg.RedisQueueKey), closeFn, nil
	default:
		return nil, nil, fmt.Errorf("unknown QUEUE_BACKEND %q: must be memory or redis", a.cfg.QueueBackend)
	}
}

// recordingCollector remembers the last delivery failure so the command can
// report it; the tracking layer itself only logs failures.
type recordingCollector struct {
	next repository.Collector

	mu  sync.Mutex
	err error
}

func (c *recordingCollector) Collect(ctx context.Context, cmd entity.Command) error {
	err := c.next.Collect(ctx, cmd)
	if err != nil {
		c.mu.Lock()
		c.err = err
		c.mu.Unlock()
	}
	return err
}

func (c *recordingCollector) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func joinActions() string {
	names := make([]string, len(entity.Actions))
	for i, a := range entity.Actions {
		names[i] = string(a)
	}
	return strings.Join(names, ", ")
}

func joinCategories() string {
	names := make([]string, len(entity.Categories))
	for i, c := range entity.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
