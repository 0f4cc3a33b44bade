// Package entropy provides the single shared random source the simulation
// draws from (shop selection, planting chance, setup jitter).
// A fixed seed reproduces a run exactly.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand"
)

// Source is the randomness consumed by the simulation systems.
type Source interface {
	// Float returns a value in [0, 1).
	Float() float64
	// Intn returns a value in [0, n). n must be > 0.
	Intn(n int) int
}

// Rand is a seeded Source. Not safe for concurrent use; the simulation
// draws from it only inside a tick.
type Rand struct {
	seed int64
	rng  *mrand.Rand
}

// New creates a Rand from seed. A zero seed is replaced by one read from
// crypto/rand.
func New(seed int64) *Rand {
	if seed == 0 {
		seed = CryptoSeed()
	}
	return &Rand{
		seed: seed,
		rng:  mrand.New(mrand.NewSource(seed)),
	}
}

// Seed returns the seed the source was built from.
func (r *Rand) Seed() int64 { return r.seed }

func (r *Rand) Float() float64 { return r.rng.Float64() }

func (r *Rand) Intn(n int) int { return r.rng.Intn(n) }

// CryptoSeed returns a non-zero seed from crypto/rand.
func CryptoSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// This should never happen.
		return 1
	}
	seed := int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
	if seed == 0 {
		seed = 1
	}
	return seed
}

// Scripted replays fixed draws in order, cycling when exhausted. It makes a
// specific shop pick or planting roll reproducible in tests and replays.
type Scripted struct {
	Floats []float64
	Ints   []int

	fi, ii int
}

func (s *Scripted) Float() float64 {
	if len(s.Floats) == 0 {
		return 0
	}
	v := s.Floats[s.fi%len(s.Floats)]
	s.fi++
	return v
}

// Intn returns the next scripted int reduced modulo n.
func (s *Scripted) Intn(n int) int {
	if len(s.Ints) == 0 || n <= 0 {
		return 0
	}
	v := s.Ints[s.ii%len(s.Ints)]
	s.ii++
	if v < 0 {
		v = -v
	}
	return v % n
}
