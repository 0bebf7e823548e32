package main

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/AlexandreSajus/moasim/internal/config"
	"github.com/AlexandreSajus/moasim/internal/geo"
	"github.com/AlexandreSajus/moasim/internal/influx"
	"github.com/AlexandreSajus/moasim/internal/sim"
	"github.com/AlexandreSajus/moasim/internal/util"
)

// runReport is the JSON printed (and optionally exported) for a one-shot run.
type runReport struct {
	DistanceMeters       float64 `json:"distanceMeters"`
	TargetDiameterMeters float64 `json:"targetDiameterMeters"`
	DispersionMOA        float64 `json:"dispersionMOA"`
	TotalShots           int     `json:"totalShots"`
	HitCount             int     `json:"hitCount"`
	HitProbability       float64 `json:"hitProbability"`
	HitPercent           string  `json:"hitPercent"`
	AnalyticProbability  float64 `json:"analyticProbability"`
	MaxRadiusMeters      float64 `json:"maxRadiusMeters"`
	TargetRadiusMeters   float64 `json:"targetRadiusMeters"`
	DurationMs           float64 `json:"durationMs"`
}

// runSimulateCommand runs one simulation from positional arguments:
// <distanceMeters> <targetDiameterMeters> <dispersionMOA> [totalShots]
func runSimulateCommand(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: %s simulate <distanceMeters> <targetDiameterMeters> <dispersionMOA> [totalShots]", AppName)
	}

	distance, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid distance %q: %w", args[0], err)
	}
	diameter, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid target diameter %q: %w", args[1], err)
	}
	moa, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("invalid dispersion %q: %w", args[2], err)
	}

	simCfg := config.GetSimulationConfig()
	opts := sim.Options{
		TotalShots: simCfg.Shots,
		DisplayCap: simCfg.DisplayShots,
		Workers:    simCfg.Workers,
	}
	if len(args) > 3 {
		opts.TotalShots, err = strconv.Atoi(args[3])
		if err != nil {
			return fmt.Errorf("invalid shot count %q: %w", args[3], err)
		}
	}

	params := sim.Parameters{
		DistanceMeters:       distance,
		TargetDiameterMeters: diameter,
		DispersionMOA:        moa,
	}

	seed := sim.RandomSeed()
	start := time.Now()
	var res sim.Result
	if opts.Workers > 1 {
		res, err = sim.SimulateParallel(params, opts, sim.SeededFactory(seed))
	} else {
		res, err = sim.Simulate(params, opts, sim.NewSeededSource(seed))
	}
	if err != nil {
		return err
	}
	duration := time.Since(start)

	cone, err := geo.NewCone(params.DistanceMeters, params.DispersionMOA)
	if err != nil {
		return err
	}
	analytic, err := sim.AnalyticHitProbability(params)
	if err != nil {
		return err
	}

	report := runReport{
		DistanceMeters:       params.DistanceMeters,
		TargetDiameterMeters: params.TargetDiameterMeters,
		DispersionMOA:        params.DispersionMOA,
		TotalShots:           res.TotalShots,
		HitCount:             res.HitCount,
		HitProbability:       res.HitProbability,
		HitPercent:           util.FormatPercent(res.HitProbability),
		AnalyticProbability:  analytic,
		MaxRadiusMeters:      cone.MaxRadiusMeters,
		TargetRadiusMeters:   params.TargetRadiusMeters(),
		DurationMs:           float64(duration.Microseconds()) / 1000.0,
	}

	reportJSON, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshalling run report: %w", err)
	}
	fmt.Println(string(reportJSON))

	if InfluxManager != nil {
		point := influx.NewSimulationPoint(params, opts, res, duration)
		if err := InfluxManager.WritePoint(context.Background(), influx.RunsBucket, point); err != nil {
			Logger.Warn("Failed to record run in InfluxDB", "error", err)
		}
	}

	if outputDir := config.GetString("export.outputDir"); outputDir != "" {
		if err := exportReport(outputDir, reportJSON); err != nil {
			return err
		}
	}

	return nil
}

// exportReport gzips the report into outputDir.
func exportReport(outputDir string, reportJSON []byte) error {
	if _, err := os.Stat(outputDir); os.IsNotExist(err) {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("error creating export directory: %w", err)
		}
	}

	fileName := util.ExportFilePath(outputDir, time.Now().UTC())
	f, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	defer func() { _ = f.Close() }()

	gzWriter := gzip.NewWriter(f)
	defer func() { _ = gzWriter.Close() }()
	if _, err = gzWriter.Write(reportJSON); err != nil {
		return fmt.Errorf("error writing to gzip: %w", err)
	}

	fmt.Println("Wrote run data to ", fileName)
	return nil
}
