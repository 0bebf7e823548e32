package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulateParallel_Deterministic(t *testing.T) {
	opts := Options{TotalShots: 10000, DisplayCap: 100, Workers: 4}

	a, err := SimulateParallel(referenceParams, opts, SeededFactory(21))
	require.NoError(t, err)
	b, err := SimulateParallel(referenceParams, opts, SeededFactory(21))
	require.NoError(t, err)

	assert.Equal(t, a.HitProbability, b.HitProbability)
	assert.Equal(t, a.Hits, b.Hits)
	assert.Equal(t, a.Misses, b.Misses)
}

func TestSimulateParallel_MatchesAnalyticValue(t *testing.T) {
	opts := Options{TotalShots: 200000, DisplayCap: 0, Workers: 8}

	res, err := SimulateParallel(referenceParams, opts, SeededFactory(13))
	require.NoError(t, err)

	want, err := AnalyticHitProbability(referenceParams)
	require.NoError(t, err)
	assert.InDelta(t, want, res.HitProbability, 0.008)
}

func TestSimulateParallel_DisplayCapInvariant(t *testing.T) {
	tests := []struct {
		name       string
		totalShots int
		displayCap int
		workers    int
	}{
		{"even split", 10000, 100, 4},
		{"uneven split", 10001, 100, 3},
		{"cap above total", 50, 100, 4},
		{"more workers than shots", 5, 10, 16},
		{"cap zero", 1000, 0, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{TotalShots: tt.totalShots, DisplayCap: tt.displayCap, Workers: tt.workers}
			res, err := SimulateParallel(referenceParams, opts, SeededFactory(2))
			require.NoError(t, err)

			wantShown := tt.displayCap
			if tt.totalShots < wantShown {
				wantShown = tt.totalShots
			}
			assert.Equal(t, wantShown, len(res.Hits)+len(res.Misses))
			assert.Equal(t, tt.totalShots, res.TotalShots)
		})
	}
}

func TestSimulateParallel_SingleWorkerMatchesSequential(t *testing.T) {
	opts := Options{TotalShots: 5000, DisplayCap: 50, Workers: 1}
	factory := SeededFactory(77)

	par, err := SimulateParallel(referenceParams, opts, factory)
	require.NoError(t, err)
	seq, err := Simulate(referenceParams, Options{TotalShots: 5000, DisplayCap: 50}, factory(0))
	require.NoError(t, err)

	assert.Equal(t, seq.HitProbability, par.HitProbability)
	assert.Equal(t, seq.Hits, par.Hits)
	assert.Equal(t, seq.Misses, par.Misses)
}

func TestSimulateParallel_HitCountSumsAcrossPartitions(t *testing.T) {
	opts := Options{TotalShots: 10000, DisplayCap: 0, Workers: 4}

	res, err := SimulateParallel(referenceParams, opts, SeededFactory(4))
	require.NoError(t, err)
	assert.Equal(t, float64(res.HitCount)/float64(res.TotalShots), res.HitProbability)
}

func TestSimulateParallel_InvalidParameters(t *testing.T) {
	opts := Options{TotalShots: 0, DisplayCap: 100, Workers: 4}

	_, err := SimulateParallel(referenceParams, opts, SeededFactory(1))
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestSeededFactory_PartitionStreamsDiffer(t *testing.T) {
	factory := SeededFactory(123)

	a := factory(0).Float64()
	b := factory(1).Float64()
	assert.NotEqual(t, a, b)
}

func TestNewSeededSource_Replicable(t *testing.T) {
	a := NewSeededSource(55)
	b := NewSeededSource(55)

	for i := 0; i < 100; i++ {
		va := a.Float64()
		require.Equal(t, va, b.Float64())
		require.GreaterOrEqual(t, va, 0.0)
		require.Less(t, va, 1.0)
	}
}
