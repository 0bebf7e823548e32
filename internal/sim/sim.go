// Package sim implements the Monte Carlo shot simulator: it draws simulated
// landing points inside a rifle's dispersion cone, classifies each against a
// circular target, and reports the empirical hit probability plus a bounded
// sample of shot coordinates for display.
package sim

import (
	"errors"
	"fmt"
	"math"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/AlexandreSajus/moasim/internal/geo"
)

// ErrInvalidParameter is returned when a simulation is requested with a
// negative distance, target diameter or dispersion, or a non-positive shot
// count. Validation happens once at the entry point; the sampling loop itself
// cannot fail.
var ErrInvalidParameter = errors.New("invalid simulation parameter")

// Reference values matching the original simulator.
const (
	DefaultTotalShots = 10000
	DefaultDisplayCap = 100
)

// Parameters is one simulation configuration. Immutable once constructed.
type Parameters struct {
	DistanceMeters       float64
	TargetDiameterMeters float64
	DispersionMOA        float64
}

// Validate rejects configurations the simulator cannot evaluate.
func (p Parameters) Validate() error {
	if p.DistanceMeters < 0 {
		return fmt.Errorf("%w: distance %f is negative", ErrInvalidParameter, p.DistanceMeters)
	}
	if p.TargetDiameterMeters < 0 {
		return fmt.Errorf("%w: target diameter %f is negative", ErrInvalidParameter, p.TargetDiameterMeters)
	}
	if p.DispersionMOA < 0 {
		return fmt.Errorf("%w: dispersion %f MOA is negative", ErrInvalidParameter, p.DispersionMOA)
	}
	return nil
}

// TargetRadiusMeters is the radius of the target circle.
func (p Parameters) TargetRadiusMeters() float64 {
	return p.TargetDiameterMeters / 2
}

// Options controls the size of a run. The zero value is not valid; use
// the Default* constants for the reference configuration.
type Options struct {
	// TotalShots is the number of independent draws behind the probability
	// estimate. Must be at least 1.
	TotalShots int

	// DisplayCap is the maximum number of draws retained for display, taken
	// from the first draws of the run. May be 0.
	DisplayCap int

	// Workers splits the run across goroutines when greater than 1. Only
	// SimulateParallel honors it.
	Workers int
}

func (o Options) validate() error {
	if o.TotalShots < 1 {
		return fmt.Errorf("%w: totalShots %d, need at least 1 trial", ErrInvalidParameter, o.TotalShots)
	}
	if o.DisplayCap < 0 {
		return fmt.Errorf("%w: displayCap %d is negative", ErrInvalidParameter, o.DisplayCap)
	}
	return nil
}

// Result is the outcome of one run. Hits and Misses hold the first
// DisplayCap draws of the run partitioned by classification, in draw order.
type Result struct {
	HitProbability float64
	Hits           []geom.XY
	Misses         []geom.XY
	TotalShots     int
	HitCount       int
}

// Simulate runs a sequential Monte Carlo estimate of the hit probability.
// It is deterministic for a fixed source and performs no I/O.
func Simulate(params Parameters, opts Options, src Source) (Result, error) {
	if err := params.Validate(); err != nil {
		return Result{}, err
	}
	if err := opts.validate(); err != nil {
		return Result{}, err
	}

	cone, err := geo.NewCone(params.DistanceMeters, params.DispersionMOA)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	targetRadius := params.TargetRadiusMeters()

	res := Result{TotalShots: opts.TotalShots}
	for i := 0; i < opts.TotalShots; i++ {
		x, y := drawShot(cone.MaxRadiusMeters, src)
		hit := geo.WithinRadius(x, y, targetRadius)
		if hit {
			res.HitCount++
		}
		if i < opts.DisplayCap {
			p := geom.XY{X: x, Y: y}
			if hit {
				res.Hits = append(res.Hits, p)
			} else {
				res.Misses = append(res.Misses, p)
			}
		}
	}

	res.HitProbability = float64(res.HitCount) / float64(res.TotalShots)
	return res, nil
}

// drawShot draws one landing point. The radius is uniform over
// [0, maxRadius] rather than uniform over the landing area, so density is
// highest at the cone center. This matches the original model exactly; a
// collapsed cone (maxRadius 0) lands every shot at the origin.
func drawShot(maxRadius float64, src Source) (x, y float64) {
	radius := src.Float64() * maxRadius
	angle := src.Float64() * 2 * math.Pi
	return radius * math.Cos(angle), radius * math.Sin(angle)
}

// AnalyticHitProbability is the closed-form hit probability under the
// uniform-radius sampling rule: min(1, targetRadius/maxRadius). A collapsed
// cone lands every shot at the origin, which the inclusive boundary counts
// as a hit even for a zero-diameter target.
func AnalyticHitProbability(params Parameters) (float64, error) {
	if err := params.Validate(); err != nil {
		return 0, err
	}
	cone, err := geo.NewCone(params.DistanceMeters, params.DispersionMOA)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	if cone.MaxRadiusMeters == 0 {
		return 1, nil
	}
	return math.Min(1, params.TargetRadiusMeters()/cone.MaxRadiusMeters), nil
}
