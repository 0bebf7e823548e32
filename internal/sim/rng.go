package sim

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"time"
)

// Source yields independent uniform values in [0, 1). It is injected into
// the simulator so runs are reproducible under a fixed seed and so parallel
// partitions can draw from independent streams without shared state.
type Source interface {
	Float64() float64
}

// SourceFactory returns the random source for one partition of a parallel
// run. Partition indexes are dense, starting at 0.
type SourceFactory func(partition int) Source

type seededSource struct {
	r *rand.Rand
}

// NewSeededSource returns a deterministic source for the given seed.
func NewSeededSource(seed uint64) Source {
	return &seededSource{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededSource) Float64() float64 {
	return s.r.Float64()
}

// SeededFactory derives one independent stream per partition from a base
// seed. The same (seed, partition) pair always yields the same stream.
func SeededFactory(seed uint64) SourceFactory {
	return func(partition int) Source {
		return &seededSource{r: rand.New(rand.NewPCG(seed, uint64(partition)))}
	}
}

// RandomSeed draws a seed from the OS entropy pool, falling back to the
// wall clock if the pool is unavailable.
func RandomSeed() uint64 {
	var buf [8]byte
	if _, err := cryptorand.Read(buf[:]); err != nil {
		return uint64(time.Now().UnixNano())
	}
	return binary.BigEndian.Uint64(buf[:])
}

// NewSource returns a non-reproducible source.
func NewSource() Source {
	return NewSeededSource(RandomSeed())
}
