package out

import (
	"context"
	"fmt"
	"strings"

	hclog "github.com/hashicorp/go-hclog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"chalkup/internal/modules/session/domain"
	sessionout "chalkup/internal/modules/session/port/out"
	"chalkup/internal/platform/logging"
)

const meterName = "chalkup"

type MetricsConfig struct {
	Endpoint       string
	Insecure       bool
	ServiceVersion string
}

// OTelMetrics pushes per-session counters and histograms to an OTLP
// collector. Recording never fails the caller.
type OTelMetrics struct {
	provider      *sdkmetric.MeterProvider
	logger        hclog.Logger
	sessionsTotal metric.Int64Counter
	climbsTotal   metric.Int64Counter
	sendsTotal    metric.Int64Counter
	durationHist  metric.Float64Histogram
	climbsHist    metric.Int64Histogram
}

func NewOTelMetrics(ctx context.Context, cfg MetricsConfig, logger hclog.Logger) (sessionout.MetricsExporter, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, fmt.Errorf("metrics endpoint is required")
	}
	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts,
			otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
			otlpmetricgrpc.WithInsecure(),
		)
	}
	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	version := cfg.ServiceVersion
	if version == "" {
		version = "dev"
	}
	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(meterName),
		semconv.ServiceVersion(version),
	))
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)
	m, err := newOTelMetrics(provider, logger)
	if err != nil {
		_ = provider.Shutdown(ctx)
		return nil, err
	}
	return m, nil
}

func newOTelMetrics(provider *sdkmetric.MeterProvider, logger hclog.Logger) (*OTelMetrics, error) {
	meter := provider.Meter(meterName)

	sessionsTotal, err := meter.Int64Counter("chalkup_sessions_total",
		metric.WithDescription("Finished sessions"),
		metric.WithUnit("{session}"))
	if err != nil {
		return nil, fmt.Errorf("create sessions counter: %w", err)
	}
	climbsTotal, err := meter.Int64Counter("chalkup_climbs_total",
		metric.WithDescription("Logged climbs"),
		metric.WithUnit("{climb}"))
	if err != nil {
		return nil, fmt.Errorf("create climbs counter: %w", err)
	}
	sendsTotal, err := meter.Int64Counter("chalkup_sends_total",
		metric.WithDescription("Logged climbs that were sent"),
		metric.WithUnit("{climb}"))
	if err != nil {
		return nil, fmt.Errorf("create sends counter: %w", err)
	}
	durationHist, err := meter.Float64Histogram("chalkup_session_duration_minutes",
		metric.WithDescription("Session duration in minutes"),
		metric.WithUnit("min"))
	if err != nil {
		return nil, fmt.Errorf("create duration histogram: %w", err)
	}
	climbsHist, err := meter.Int64Histogram("chalkup_session_climbs",
		metric.WithDescription("Climbs logged per session"),
		metric.WithUnit("{climb}"))
	if err != nil {
		return nil, fmt.Errorf("create climbs histogram: %w", err)
	}

	return &OTelMetrics{
		provider:      provider,
		logger:        logging.OrDiscard(logger).Named("metrics"),
		sessionsTotal: sessionsTotal,
		climbsTotal:   climbsTotal,
		sendsTotal:    sendsTotal,
		durationHist:  durationHist,
		climbsHist:    climbsHist,
	}, nil
}

func (m *OTelMetrics) ClimbLogged(ctx context.Context, session domain.Session, climb domain.ClimbLog) {
	opt := metric.WithAttributes(
		attribute.String("workout_id", workoutAttr(session)),
		attribute.String("grade", string(climb.Grade)),
	)
	m.climbsTotal.Add(ctx, 1, opt)
	if climb.Sent {
		m.sendsTotal.Add(ctx, 1, opt)
	}
}

func (m *OTelMetrics) SessionFinished(ctx context.Context, session domain.Session) {
	opt := metric.WithAttributes(attribute.String("workout_id", workoutAttr(session)))
	m.sessionsTotal.Add(ctx, 1, opt)
	m.durationHist.Record(ctx, float64(session.DurationMinutes), opt)
	m.climbsHist.Record(ctx, int64(len(session.Climbs)), opt)
	m.logger.Debug("session metrics recorded", "session", session.ID)
}

// Close flushes pending data points before shutting the provider down.
func (m *OTelMetrics) Close(ctx context.Context) error {
	if err := m.provider.ForceFlush(ctx); err != nil {
		m.logger.Warn("flush metrics", "error", err)
	}
	return m.provider.Shutdown(ctx)
}

func workoutAttr(session domain.Session) string {
	if session.WorkoutID == "" {
		return "freeform"
	}
	return session.WorkoutID
}
