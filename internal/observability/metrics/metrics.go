package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	HTTPRequestsTotal      metric.Int64Counter
	HTTPRequestDuration    metric.Float64Histogram
	AuthRequestsTotal      metric.Int64Counter
	PostsCreatedTotal      metric.Int64Counter
	ClaimsTotal            metric.Int64Counter
	PointsAwardedTotal     metric.Int64Counter
	CO2SavedKilograms      metric.Float64Counter
	DBQueryDurationSeconds metric.Float64Histogram
	DBQueryErrorsTotal     metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("greencampus")
		var err error
		m := &AppMetrics{}

		m.HTTPRequestsTotal, err = meter.Int64Counter(
			"http_requests_total",
			metric.WithDescription("Total number of HTTP requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_requests_total: %v", err)
		}

		m.HTTPRequestDuration, err = meter.Float64Histogram(
			"http_request_duration_seconds",
			metric.WithDescription("Duration of HTTP requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_request_duration_seconds: %v", err)
		}

		m.AuthRequestsTotal, err = meter.Int64Counter(
			"auth_requests_total",
			metric.WithDescription("Total number of authentication requests"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create auth_requests_total: %v", err)
		}

		m.PostsCreatedTotal, err = meter.Int64Counter(
			"posts_created_total",
			metric.WithDescription("Total listings created across food, e-waste and donations"),
			metric.WithUnit("{post}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create posts_created_total: %v", err)
		}

		m.ClaimsTotal, err = meter.Int64Counter(
			"claims_total",
			metric.WithDescription("Total successful claims across food, e-waste and donations"),
			metric.WithUnit("{claim}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create claims_total: %v", err)
		}

		m.PointsAwardedTotal, err = meter.Int64Counter(
			"volunteer_points_awarded_total",
			metric.WithDescription("Total volunteer points awarded on event completion"),
			metric.WithUnit("{point}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create volunteer_points_awarded_total: %v", err)
		}

		m.CO2SavedKilograms, err = meter.Float64Counter(
			"co2_saved_kilograms_total",
			metric.WithDescription("Total estimated CO2 savings from recycled e-waste"),
			metric.WithUnit("kg"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create co2_saved_kilograms_total: %v", err)
		}

		m.DBQueryDurationSeconds, err = meter.Float64Histogram(
			"db_query_duration_seconds",
			metric.WithDescription("Duration of database queries in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_duration_seconds: %v", err)
		}

		m.DBQueryErrorsTotal, err = meter.Int64Counter(
			"db_query_errors_total",
			metric.WithDescription("Total number of database query errors"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_errors_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}
