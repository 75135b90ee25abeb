package noise

import (
	"crypto/cipher"
	"encoding/binary"
	"math"

	"go.dedis.ch/kyber/v3/util/random"
	"gonum.org/v1/gonum/stat/distuv"
)

// Source is a math/rand/v2 source reading from a cipher stream.
type Source struct {
	stream cipher.Stream
}

// NewSource returns a source reading from a cryptographically secure
// stream. No stream argument means crypto/rand.
func NewSource(stream cipher.Stream) *Source {
	if stream == nil {
		stream = random.New()
	}
	return &Source{stream: stream}
}

// Uint64 returns 64 fresh random bits.
func (s *Source) Uint64() uint64 {
	var buf [8]byte
	s.stream.XORKeyStream(buf[:], buf[:])
	return binary.LittleEndian.Uint64(buf[:])
}

// Seed does nothing, a stream cannot be reseeded.
func (s *Source) Seed(uint64) {}

// Sampler draws noise from a Source. It is not safe for concurrent use.
type Sampler struct {
	src *Source
}

// NewSampler returns a sampler drawing from src, or from crypto/rand if
// src is nil.
func NewSampler(src *Source) *Sampler {
	if src == nil {
		src = NewSource(nil)
	}
	return &Sampler{src: src}
}

// Uint64 returns 64 uniformly random bits.
func (s *Sampler) Uint64() uint64 {
	return s.src.Uint64()
}

// polya draws from the negative binomial distribution with r trials and
// ratio p as a gamma-poisson mixture. The sum of n draws with r = 1/n is
// geometric with ratio p.
func (s *Sampler) polya(r, p float64) int64 {
	rate := distuv.Gamma{Alpha: r, Beta: (1 - p) / p, Src: s.src}.Rand()
	if rate <= 0 {
		return 0
	}
	return int64(distuv.Poisson{Lambda: rate, Src: s.src}.Rand())
}

// DistributedGeometric draws this party's share of a two-sided geometric
// noise. The share is the difference of two Polya draws, clamped to
// [-TruncateThreshold, TruncateThreshold] and shifted by ShiftOffset.
func (s *Sampler) DistributedGeometric(o GeometricOptions) int64 {
	mustHold(o.TrialCount > 0, "trial count %d should be positive", o.TrialCount)
	mustHold(o.SuccessProbability > 0 && o.SuccessProbability < 1,
		"success probability %v should be in (0, 1)", o.SuccessProbability)
	r := 1 / float64(o.TrialCount)
	v := s.polya(r, o.SuccessProbability) - s.polya(r, o.SuccessProbability)
	t := int64(o.TruncateThreshold)
	if v > t {
		v = t
	}
	if v < -t {
		v = -t
	}
	return v + int64(o.ShiftOffset)
}

// geometric draws k >= 0 with probability (1-e^-scale) e^(-scale k).
func (s *Sampler) geometric(scale float64) int64 {
	return int64(math.Floor(distuv.Exponential{Rate: scale, Src: s.src}.Rand()))
}

// TruncatedDiscreteLaplace draws from the discrete Laplace distribution
// with the given scale, conditioned on [-Mu, Mu], shifted to [0, 2 Mu].
func (s *Sampler) TruncatedDiscreteLaplace(o LaplaceOptions) int64 {
	mustHold(o.Mu >= 0, "mu %d should not be negative", o.Mu)
	mustHold(o.Scale > 0, "scale %v should be positive", o.Scale)
	mu := int64(o.Mu)
	for {
		v := s.geometric(o.Scale) - s.geometric(o.Scale)
		if v >= -mu && v <= mu {
			return v + mu
		}
	}
}
