package influx

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/AlexandreSajus/moasim/internal/sim"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func TestNewSimulationPoint(t *testing.T) {
	params := sim.Parameters{
		DistanceMeters:       1000,
		TargetDiameterMeters: 0.3,
		DispersionMOA:        4,
	}
	opts := sim.Options{TotalShots: 10000, DisplayCap: 100, Workers: 4}
	res := sim.Result{
		HitProbability: 0.2578,
		TotalShots:     10000,
		HitCount:       2578,
	}

	point := NewSimulationPoint(params, opts, res, 42*time.Millisecond)

	line := influxdb2_write.PointToLineProtocol(point, time.Nanosecond)
	assert.True(t, strings.HasPrefix(line, "simulation_run,"), line)
	assert.Contains(t, line, "parallel=true")
	assert.Contains(t, line, "distanceMeters=1000")
	assert.Contains(t, line, "dispersionMOA=4")
	assert.Contains(t, line, "hitProbability=0.2578")
	assert.Contains(t, line, "hitCount=2578i")
	assert.Contains(t, line, "durationMs=42")
}

func TestNewSimulationPoint_SequentialTag(t *testing.T) {
	point := NewSimulationPoint(sim.Parameters{}, sim.Options{Workers: 1}, sim.Result{TotalShots: 1}, 0)

	line := influxdb2_write.PointToLineProtocol(point, time.Nanosecond)
	assert.Contains(t, line, "parallel=false")
}

func TestNewManager_Defaults(t *testing.T) {
	m := NewManager(testLogger(), "backup.gz")

	assert.False(t, m.IsValid)
	assert.Equal(t, []string{RunsBucket}, m.BucketNames)
	assert.Equal(t, "backup.gz", m.BackupPath)
	assert.NotNil(t, m.Writers)
}

func TestWritePoint_NoClientNoBackup(t *testing.T) {
	m := NewManager(testLogger(), "")

	point := influxdb2_write.NewPointWithMeasurement("simulation_run")
	err := m.WritePoint(context.Background(), RunsBucket, point)
	assert.Error(t, err)
}
