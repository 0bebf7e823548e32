package sim

import (
	"sync"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/AlexandreSajus/moasim/internal/geo"
)

// SimulateParallel splits the run across opts.Workers goroutines. Each draw
// is independent, so per-worker hit counts merge by summation.
//
// Display merge rule: worker w owns the contiguous global draw indexes
// [start_w, start_w+count_w) and retains only draws with global index below
// DisplayCap. Concatenating the per-worker buffers in worker order therefore
// reproduces global draw order, same as a sequential run over the merged
// streams. A parallel run is deterministic for a fixed (factory, workers)
// pair; it draws different streams than a sequential run with the same seed.
func SimulateParallel(params Parameters, opts Options, factory SourceFactory) (Result, error) {
	if err := params.Validate(); err != nil {
		return Result{}, err
	}
	if err := opts.validate(); err != nil {
		return Result{}, err
	}

	workers := opts.Workers
	if workers > opts.TotalShots {
		workers = opts.TotalShots
	}
	if workers <= 1 {
		return Simulate(params, opts, factory(0))
	}

	cone, err := geo.NewCone(params.DistanceMeters, params.DispersionMOA)
	if err != nil {
		return Result{}, err
	}
	targetRadius := params.TargetRadiusMeters()

	type partial struct {
		hitCount int
		hits     []geom.XY
		misses   []geom.XY
	}
	partials := make([]partial, workers)

	chunk := opts.TotalShots / workers
	remainder := opts.TotalShots % workers

	var wg sync.WaitGroup
	start := 0
	for w := 0; w < workers; w++ {
		count := chunk
		if w < remainder {
			count++
		}

		wg.Add(1)
		go func(w, start, count int) {
			defer wg.Done()
			src := factory(w)
			p := &partials[w]
			for i := 0; i < count; i++ {
				x, y := drawShot(cone.MaxRadiusMeters, src)
				hit := geo.WithinRadius(x, y, targetRadius)
				if hit {
					p.hitCount++
				}
				if start+i < opts.DisplayCap {
					pt := geom.XY{X: x, Y: y}
					if hit {
						p.hits = append(p.hits, pt)
					} else {
						p.misses = append(p.misses, pt)
					}
				}
			}
		}(w, start, count)

		start += count
	}
	wg.Wait()

	res := Result{TotalShots: opts.TotalShots}
	for w := range partials {
		res.HitCount += partials[w].hitCount
		res.Hits = append(res.Hits, partials[w].hits...)
		res.Misses = append(res.Misses, partials[w].misses...)
	}
	res.HitProbability = float64(res.HitCount) / float64(res.TotalShots)
	return res, nil
}
