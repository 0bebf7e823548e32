package server

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/AlexandreSajus/moasim/internal/server"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// metrics holds the request counters. With no meter provider registered
// these are no-ops.
type metrics struct {
	requests      metric.Int64Counter
	invalidParams metric.Int64Counter
	shots         metric.Int64Counter
}

func newMetrics() *metrics {
	m := &metrics{}
	m.requests, _ = meter().Int64Counter("simulate.requests",
		metric.WithDescription("Simulation requests served"))
	m.invalidParams, _ = meter().Int64Counter("simulate.invalid_parameters",
		metric.WithDescription("Simulation requests rejected for invalid parameters"))
	m.shots, _ = meter().Int64Counter("simulate.shots",
		metric.WithDescription("Total shots simulated"))
	return m
}
