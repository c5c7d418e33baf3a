package metrics

import (
	"context"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	PlanRequestsTotal   metric.Int64Counter
	PlanDurationSeconds metric.Float64Histogram
	ProviderCallsTotal  metric.Int64Counter
	ProviderErrorsTotal metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metric instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("AITravelPlanner")
		var err error
		m := &AppMetrics{}

		m.PlanRequestsTotal, err = meter.Int64Counter(
			"plan_requests_total",
			metric.WithDescription("Total number of plan generations completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create plan_requests_total: %v", err)
		}

		m.PlanDurationSeconds, err = meter.Float64Histogram(
			"plan_duration_seconds",
			metric.WithDescription("Duration of plan generations in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create plan_duration_seconds: %v", err)
		}

		m.ProviderCallsTotal, err = meter.Int64Counter(
			"provider_calls_total",
			metric.WithDescription("Total number of upstream provider calls (cache misses)"),
			metric.WithUnit("{call}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create provider_calls_total: %v", err)
		}

		m.ProviderErrorsTotal, err = meter.Int64Counter(
			"provider_errors_total",
			metric.WithDescription("Total number of degraded provider calls"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create provider_errors_total: %v", err)
		}

		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// RecordPlan records one completed plan generation. No-op until
// InitAppMetrics has run, so library code and tests need no setup.
func RecordPlan(ctx context.Context, d time.Duration, success bool) {
	if appMetrics == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.Bool("success", success))
	appMetrics.PlanRequestsTotal.Add(ctx, 1, attrs)
	appMetrics.PlanDurationSeconds.Record(ctx, d.Seconds(), attrs)
}

// CountProviderCall records one upstream provider invocation.
func CountProviderCall(ctx context.Context, provider string) {
	if appMetrics == nil {
		return
	}
	appMetrics.ProviderCallsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("provider", provider)))
}

// CountProviderError records one degraded provider call.
func CountProviderError(ctx context.Context, provider string) {
	if appMetrics == nil {
		return
	}
	appMetrics.ProviderErrorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("provider", provider)))
}
