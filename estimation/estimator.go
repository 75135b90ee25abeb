// Package estimation estimates the cardinality of a Liquid Legions sketch
// from the number of its active registers.
package estimation

import (
	"fmt"
	"math"
)

// ExpectedActiveRegisters returns the expected number of non-empty
// registers of a Liquid Legions sketch with the given decay rate and
// register count once cardinality distinct items were inserted.
//
// It panics if decayRate <= 1 or totalRegisters is 0.
func ExpectedActiveRegisters(decayRate float64, totalRegisters, cardinality uint64) uint64 {
	if !(decayRate > 1) {
		panic(fmt.Sprintf("estimation: decay rate %v should be greater than 1", decayRate))
	}
	if totalRegisters == 0 {
		panic("estimation: a sketch needs at least one register")
	}
	if cardinality == 0 {
		return 0
	}
	e := math.Exp(decayRate)
	t := float64(cardinality) / float64(totalRegisters)
	negative := -Ei(-decayRate * t / (e - 1))
	positive := Ei(-decayRate * e * t / (e - 1))
	return uint64((1 - (negative+positive)/decayRate) * float64(totalRegisters))
}

// LiquidLegionsCardinality returns the smallest cardinality whose
// expected number of active registers reaches activeRegisters. No active
// register means a cardinality of 0.
//
// It panics unless decayRate > 1 and activeRegisters < totalRegisters.
func LiquidLegionsCardinality(decayRate float64, totalRegisters, activeRegisters uint64) int64 {
	if !(decayRate > 1) {
		panic(fmt.Sprintf("estimation: decay rate %v should be greater than 1", decayRate))
	}
	if activeRegisters >= totalRegisters {
		panic(fmt.Sprintf("estimation: %d active registers out of %d", activeRegisters, totalRegisters))
	}
	f := func(c uint64) uint64 {
		return ExpectedActiveRegisters(decayRate, totalRegisters, c)
	}
	return int64(invertMonotonic(f, activeRegisters))
}

// invertMonotonic returns the smallest x with f(x) >= target for a
// non-decreasing f with f(0) == 0.
func invertMonotonic(f func(uint64) uint64, target uint64) uint64 {
	if target == 0 {
		return 0
	}
	lo, hi := uint64(0), uint64(1)
	for f(hi) < target {
		lo = hi
		hi *= 2
	}
	// f(lo) < target <= f(hi)
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		if f(mid) >= target {
			hi = mid
		} else {
			lo = mid
		}
	}
	return hi
}
