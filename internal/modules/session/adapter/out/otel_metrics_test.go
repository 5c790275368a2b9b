package out

import (
	"context"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"chalkup/internal/modules/session/domain"
)

func TestOTelMetricsRecordsClimbsAndSessions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := newOTelMetrics(provider, nil)
	if err != nil {
		t.Fatalf("new metrics: %v", err)
	}

	session := domain.NewSession("s-1", "w1", time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC))
	sent := domain.ClimbLog{ID: "c-1", Grade: "V4", Attempts: 1, Sent: true}
	m.ClimbLogged(ctx, session, sent)
	m.ClimbLogged(ctx, session, domain.ClimbLog{ID: "c-2", Grade: "V5", Attempts: 3})
	session.Climbs = []domain.ClimbLog{sent}
	session.DurationMinutes = 42
	m.SessionFinished(ctx, session)

	rm := metricdata.ResourceMetrics{}
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	sums := map[string]int64{}
	histograms := map[string]uint64{}
	for _, scope := range rm.ScopeMetrics {
		for _, metric := range scope.Metrics {
			switch data := metric.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					sums[metric.Name] += dp.Value
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					histograms[metric.Name] += dp.Count
				}
			case metricdata.Histogram[int64]:
				for _, dp := range data.DataPoints {
					histograms[metric.Name] += dp.Count
				}
			}
		}
	}
	if sums["chalkup_climbs_total"] != 2 || sums["chalkup_sends_total"] != 1 || sums["chalkup_sessions_total"] != 1 {
		t.Fatalf("unexpected counters: %+v", sums)
	}
	if histograms["chalkup_session_duration_minutes"] != 1 || histograms["chalkup_session_climbs"] != 1 {
		t.Fatalf("unexpected histograms: %+v", histograms)
	}
	if err := m.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestNewOTelMetricsRequiresEndpoint(t *testing.T) {
	t.Parallel()
	if _, err := NewOTelMetrics(context.Background(), MetricsConfig{}, nil); err == nil {
		t.Fatalf("expected missing endpoint error")
	}
}
