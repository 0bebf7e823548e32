package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/AlexandreSajus/moasim/internal/geo"
	"github.com/AlexandreSajus/moasim/internal/influx"
	"github.com/AlexandreSajus/moasim/internal/sim"
	"github.com/AlexandreSajus/moasim/internal/util"
)

// simulateRequest is the POST /api/v1/simulate body. Pointer fields
// distinguish "absent, use the configured default" from an explicit zero.
type simulateRequest struct {
	DistanceMeters       float64 `json:"distanceMeters"`
	TargetDiameterMeters float64 `json:"targetDiameterMeters"`
	DispersionMOA        float64 `json:"dispersionMOA"`
	TotalShots           *int    `json:"totalShots,omitempty"`
	DisplayCap           *int    `json:"displayCap,omitempty"`
	Seed                 *uint64 `json:"seed,omitempty"`
}

type displayPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type simulateResponse struct {
	HitProbability      float64        `json:"hitProbability"`
	HitPercent          string         `json:"hitPercent"`
	MaxRadiusMeters     float64        `json:"maxRadiusMeters"`
	TargetRadiusMeters  float64        `json:"targetRadiusMeters"`
	AnalyticProbability float64        `json:"analyticProbability"`
	Hits                []displayPoint `json:"hits"`
	Misses              []displayPoint `json:"misses"`
	TotalShots          int            `json:"totalShots"`
	DurationMs          float64        `json:"durationMs"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.requests.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "bad_request")))
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	params := sim.Parameters{
		DistanceMeters:       req.DistanceMeters,
		TargetDiameterMeters: req.TargetDiameterMeters,
		DispersionMOA:        req.DispersionMOA,
	}
	opts := sim.Options{
		TotalShots: s.simCfg.Shots,
		DisplayCap: s.simCfg.DisplayShots,
		Workers:    s.simCfg.Workers,
	}
	if req.TotalShots != nil {
		opts.TotalShots = *req.TotalShots
	}
	if req.DisplayCap != nil {
		opts.DisplayCap = *req.DisplayCap
	}

	seed := sim.RandomSeed()
	if req.Seed != nil {
		seed = *req.Seed
	}

	start := time.Now()
	res, err := runSimulation(params, opts, seed)
	if err != nil {
		if errors.Is(err, sim.ErrInvalidParameter) {
			s.metrics.requests.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "invalid_parameters")))
			s.metrics.invalidParams.Add(ctx, 1)
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		s.metrics.requests.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "error")))
		s.log.Error("Simulation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "simulation failed"})
		return
	}
	duration := time.Since(start)

	cone, err := geo.NewCone(params.DistanceMeters, params.DispersionMOA)
	if err != nil {
		s.log.Error("Cone construction failed after simulation", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "simulation failed"})
		return
	}
	analytic, err := sim.AnalyticHitProbability(params)
	if err != nil {
		s.log.Error("Analytic probability failed after simulation", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "simulation failed"})
		return
	}

	resp := simulateResponse{
		HitProbability:      res.HitProbability,
		HitPercent:          util.FormatPercent(res.HitProbability),
		MaxRadiusMeters:     cone.MaxRadiusMeters,
		TargetRadiusMeters:  params.TargetRadiusMeters(),
		AnalyticProbability: analytic,
		Hits:                toDisplayPoints(res.Hits),
		Misses:              toDisplayPoints(res.Misses),
		TotalShots:          res.TotalShots,
		DurationMs:          float64(duration.Microseconds()) / 1000.0,
	}

	s.runCount.Add(1)
	s.metrics.requests.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "ok")))
	s.metrics.shots.Add(ctx, int64(res.TotalShots))

	s.recordRun(ctx, params, opts, res, duration)

	s.log.Info("Simulation run complete",
		"distanceMeters", params.DistanceMeters,
		"targetDiameterMeters", params.TargetDiameterMeters,
		"dispersionMOA", params.DispersionMOA,
		"totalShots", res.TotalShots,
		"hitProbability", res.HitProbability,
		"durationMs", resp.DurationMs,
	)

	writeJSON(w, http.StatusOK, resp)
}

// runSimulation picks the sequential or partitioned runner based on the
// worker count.
func runSimulation(params sim.Parameters, opts sim.Options, seed uint64) (sim.Result, error) {
	if opts.Workers > 1 {
		return sim.SimulateParallel(params, opts, sim.SeededFactory(seed))
	}
	return sim.Simulate(params, opts, sim.NewSeededSource(seed))
}

// recordRun ships the run to InfluxDB when a manager is wired up. Failures
// are logged, never surfaced to the caller.
func (s *Server) recordRun(ctx context.Context, params sim.Parameters, opts sim.Options, res sim.Result, duration time.Duration) {
	if s.influx == nil {
		return
	}
	point := influx.NewSimulationPoint(params, opts, res, duration)
	if err := s.influx.WritePoint(ctx, influx.RunsBucket, point); err != nil {
		s.log.Warn("Failed to record run in InfluxDB", "error", err)
	}
}

func toDisplayPoints(points []geom.XY) []displayPoint {
	out := make([]displayPoint, len(points))
	for i, p := range points {
		out[i] = displayPoint{X: p.X, Y: p.Y}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
