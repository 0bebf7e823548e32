// Package geo holds the dispersion-cone geometry used by the shot simulator.
//
// All coordinates are meters in a local plane perpendicular to the line of
// fire, origin at the target center. X is horizontal offset, Y is vertical.
package geo

import (
	"errors"
	"math"

	geom "github.com/peterstace/simplefeatures/geom"
)

// ErrInvalidGeometry is returned when a cone is built from negative inputs.
var ErrInvalidGeometry = errors.New("invalid dispersion geometry")

// minutesPerDegree converts minutes-of-angle to degrees.
const minutesPerDegree = 60.0

// MOAToRadians converts a dispersion value in minutes-of-angle to the full
// cone angle in radians.
func MOAToRadians(moa float64) float64 {
	return moa / minutesPerDegree * math.Pi / 180
}

// Cone is a rifle's dispersion cone evaluated at a fixed distance. It is
// derived deterministically from distance and MOA and has no lifecycle of
// its own.
type Cone struct {
	// HalfAngleRadians is half the full cone angle. The MOA value is treated
	// as the cone's full width, so a shot deviates from the line of fire by
	// at most this angle.
	HalfAngleRadians float64

	// MaxRadiusMeters is the radius of the circle of possible landing points
	// at the evaluated distance.
	MaxRadiusMeters float64
}

// NewCone builds the dispersion cone for a rifle with the given dispersion,
// evaluated at the given distance. Zero distance or zero MOA collapse the
// cone to a point, which is valid.
func NewCone(distanceMeters, dispersionMOA float64) (Cone, error) {
	if distanceMeters < 0 || dispersionMOA < 0 {
		return Cone{}, ErrInvalidGeometry
	}
	halfAngle := MOAToRadians(dispersionMOA) / 2
	return Cone{
		HalfAngleRadians: halfAngle,
		MaxRadiusMeters:  distanceMeters * math.Sin(halfAngle),
	}, nil
}

// WithinRadius reports whether the offset (x, y) lies within the given radius
// of the origin. The boundary counts as inside.
func WithinRadius(x, y, radius float64) bool {
	return math.Hypot(x, y) <= radius
}

// PointFromOffset builds a 2D point for a shot offset, for consumers that
// want geometry values rather than raw floats.
func PointFromOffset(x, y float64) geom.Point {
	return geom.NewPoint(
		geom.Coordinates{
			XY:   geom.XY{X: x, Y: y},
			Type: geom.DimXY,
		},
	)
}
