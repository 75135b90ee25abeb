// Package noise turns differential privacy budgets into the parameters of
// discrete noise distributions, and samples those distributions from a
// cryptographically secure source.
//
// The calibration functions are only called with validated configuration.
// A non-positive budget or count is a programming error and panics.
package noise

import (
	"fmt"
	"math"
)

// Params is a differential privacy budget.
type Params struct {
	Epsilon float64 `toml:"epsilon"`
	Delta   float64 `toml:"delta"`
}

// GeometricOptions shape the noise one party contributes to a two-sided
// geometric noise shared by TrialCount parties.
type GeometricOptions struct {
	TrialCount         int
	SuccessProbability float64
	TruncateThreshold  int
	ShiftOffset        int
}

// LaplaceOptions shape a truncated discrete Laplace distribution on
// [-Mu, Mu] with scale parameter Scale.
type LaplaceOptions struct {
	Mu    int
	Scale float64
}

func mustHold(ok bool, format string, args ...interface{}) {
	if !ok {
		panic(fmt.Sprintf("noise: "+format, args...))
	}
}

func (p Params) check() {
	mustHold(p.Epsilon > 0, "epsilon %v should be positive", p.Epsilon)
	mustHold(p.Delta > 0, "delta %v should be positive", p.Delta)
}

// muPolya is the truncation threshold for which the sum of n Polya
// components stays within bounds except with probability delta.
func muPolya(epsilon, delta float64, n int) int {
	mustHold(epsilon > 0 && delta > 0 && n > 0, "invalid polya parameters (%v, %v, %d)", epsilon, delta, n)
	return int(math.Ceil(math.Log(2*float64(n)/(delta*(1-math.Exp(-epsilon)))) / epsilon))
}

func muLaplace(epsilon, delta float64) int {
	mustHold(epsilon > 0 && delta > 0, "invalid laplace parameters (%v, %v)", epsilon, delta)
	return int(math.Ceil(math.Log(2/delta) / epsilon))
}

func geometric(epsilon, delta float64, n, parties int) GeometricOptions {
	offset := muPolya(epsilon, delta, n)
	return GeometricOptions{
		TrialCount:         parties,
		SuccessProbability: math.Exp(-epsilon),
		TruncateThreshold:  offset,
		ShiftOffset:        offset,
	}
}

// BlindHistogramOptions calibrates the noise added to the blinded
// histogram of register ids.
func BlindHistogramOptions(p Params, publishers, parties int) GeometricOptions {
	p.check()
	mustHold(publishers > 0, "publisher count %d should be positive", publishers)
	mustHold(parties > 0, "party count %d should be positive", parties)
	return geometric(p.Epsilon/2, p.Delta, parties*publishers, parties)
}

// NoiseForPublisherNoiseOptions calibrates the noise hiding the number of
// noise registers each publisher added.
func NoiseForPublisherNoiseOptions(p Params, publishers, parties int) GeometricOptions {
	p.check()
	mustHold(publishers > 0, "publisher count %d should be positive", publishers)
	mustHold(parties > 0, "party count %d should be positive", parties)
	return geometric(p.Epsilon/float64(publishers), p.Delta, parties, parties)
}

// GlobalReachOptions calibrates the noise added to the global reach.
func GlobalReachOptions(p Params, parties int) GeometricOptions {
	p.check()
	mustHold(parties > 0, "party count %d should be positive", parties)
	return geometric(p.Epsilon/2, p.Delta, parties, parties)
}

// FrequencyOptions calibrates the noise added to every bucket of the
// frequency histogram.
func FrequencyOptions(p Params, maxFrequency, parties int) GeometricOptions {
	p.check()
	mustHold(maxFrequency > 0, "maximum frequency %d should be positive", maxFrequency)
	mustHold(parties > 0, "party count %d should be positive", parties)
	return geometric(p.Epsilon/2, p.Delta, 2*parties*maxFrequency, parties)
}

// PublisherNoiseOptions calibrates the number of noise registers a single
// publisher appends to its encrypted sketch. The budget is split evenly
// across publishers.
func PublisherNoiseOptions(p Params, publishers int) LaplaceOptions {
	p.check()
	mustHold(publishers > 0, "publisher count %d should be positive", publishers)
	epsilon := p.Epsilon / float64(publishers)
	return LaplaceOptions{
		Mu:    muLaplace(epsilon, p.Delta/float64(publishers)),
		Scale: epsilon,
	}
}
