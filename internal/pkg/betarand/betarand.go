package betarand

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// Sampler draws from Beta distributions using a single underlying random
// source. Safe for concurrent use.
type Sampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a Sampler seeded from the clock.
func New() *Sampler {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a deterministic Sampler for a fixed seed.
func NewSeeded(seed int64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewSource(seed))}
}

// Beta draws one sample from Beta(alpha, beta) via two Gamma draws.
// Non-positive shapes are clamped to a small positive value.
func (s *Sampler) Beta(alpha, beta float64) float64 {
	const minShape = 1e-9
	if alpha < minShape {
		alpha = minShape
	}
	if beta < minShape {
		beta = minShape
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	x := s.gamma(alpha)
	y := s.gamma(beta)
	if x+y == 0 {
		return 0.5
	}
	return x / (x + y)
}

// gamma draws from Gamma(shape, 1) with the Marsaglia-Tsang method.
// Shapes below 1 are boosted and corrected with a uniform power.
func (s *Sampler) gamma(shape float64) float64 {
	if shape < 1 {
		u := s.rng.Float64()
		for u == 0 {
			u = s.rng.Float64()
		}
		return s.gamma(shape+1) * math.Pow(u, 1/shape)
	}

	d := shape - 1.0/3.0
	c := 1.0 / math.Sqrt(9.0*d)
	for {
		var x, v float64
		for {
			x = s.rng.NormFloat64()
			v = 1.0 + c*x
			if v > 0 {
				break
			}
		}
		v = v * v * v
		u := s.rng.Float64()
		if u < 1.0-0.0331*x*x*x*x {
			return d * v
		}
		if u > 0 && math.Log(u) < 0.5*x*x+d*(1.0-v+math.Log(v)) {
			return d * v
		}
	}
}
