package estimation

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/anysketch/fingerprint"
	"go.dedis.ch/anysketch/sketch"
	"go.dedis.ch/onet/v3/log"
)

func TestMain(m *testing.M) {
	log.MainTest(m)
}

func TestEi(t *testing.T) {
	require.InDelta(t, -0.21938393439552027, Ei(-1), 1e-14)
	require.InDelta(t, -0.04890051070806112, Ei(-2), 1e-14)
	require.InDelta(t, -0.55977359477616081, Ei(-0.5), 1e-14)
	require.InDelta(t, 1.8951178163559368, Ei(1), 1e-13)
	require.InDelta(t, 4.9542343560018901, Ei(2), 1e-13)
	require.InEpsilon(t, 1.0585636897131690e20, Ei(50), 1e-12)
	require.True(t, math.IsInf(Ei(0), -1))

	// both sides of the series/asymptotic switch agree on monotonicity
	require.True(t, Ei(39.9) < Ei(40.1))
}

func within(t *testing.T, expected, actual int64, ratio float64, msg string) {
	diff := math.Abs(float64(expected - actual))
	require.True(t, diff <= ratio*float64(expected), "%s: expected %d, got %d", msg, expected, actual)
}

func TestLiquidLegions_Empty(t *testing.T) {
	require.Equal(t, int64(0), LiquidLegionsCardinality(10, 100000, 0))
	require.Equal(t, uint64(0), ExpectedActiveRegisters(10, 100000, 0))
}

func TestLiquidLegions_WithExpectation(t *testing.T) {
	const registers = 100000
	for c := uint64(1000); c <= 1000000; c += 10000 {
		active := ExpectedActiveRegisters(10, registers, c)
		within(t, int64(c), LiquidLegionsCardinality(10, registers, active), 0.05,
			"cardinality "+strconv.FormatUint(c, 10))
	}
}

func TestLiquidLegions_DifferentRates(t *testing.T) {
	const registers = 100000
	const c = 1000000
	for rate := 5.0; rate <= 30; rate++ {
		active := ExpectedActiveRegisters(rate, registers, c)
		within(t, c, LiquidLegionsCardinality(rate, registers, active), 0.05,
			"rate "+strconv.FormatFloat(rate, 'f', 0, 64))
	}
}

func TestLiquidLegions_MockData(t *testing.T) {
	const registers = 100000
	const c = 123456
	d, err := sketch.NewExponential(fingerprint.Sha256{}, 10, registers)
	require.NoError(t, err)
	s, err := sketch.New([]sketch.Distribution{d}, nil)
	require.NoError(t, err)
	for i := 0; i < c; i++ {
		require.NoError(t, s.InsertString(strconv.Itoa(i), nil))
	}
	within(t, c, LiquidLegionsCardinality(10, registers, uint64(s.Len())), 0.05, "mock sketch")
}

func TestLiquidLegions_Preconditions(t *testing.T) {
	require.Panics(t, func() { LiquidLegionsCardinality(1, 100, 10) })
	require.Panics(t, func() { LiquidLegionsCardinality(10, 100, 100) })
	require.Panics(t, func() { ExpectedActiveRegisters(10, 0, 1) })
}

func TestInvertMonotonic(t *testing.T) {
	square := func(x uint64) uint64 { return x * x }
	require.Equal(t, uint64(10), invertMonotonic(square, 100))
	require.Equal(t, uint64(11), invertMonotonic(square, 101))
	require.Equal(t, uint64(1), invertMonotonic(square, 1))
}
