package sketch

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/anysketch"
	"go.dedis.ch/anysketch/fingerprint"
)

func constant(v uint64) fingerprint.Fingerprinter {
	return fingerprint.Func(func([]byte) uint64 { return v })
}

func TestUniform(t *testing.T) {
	d, err := NewUniform(constant(17), 5, 9)
	require.NoError(t, err)
	v, err := d.Apply(nil, nil)
	require.NoError(t, err)
	require.Equal(t, int64(17%5+5), v)
	require.Equal(t, uint64(5), Size(d))

	_, err = NewUniform(constant(0), 9, 5)
	require.True(t, anysketch.IsInvalidArgument(err))
}

func TestGeometric(t *testing.T) {
	d, err := NewGeometric(constant(8), 0, 63)
	require.NoError(t, err)
	v, err := d.Apply(nil, nil)
	require.NoError(t, err)
	require.Equal(t, int64(3), v)

	d, err = NewGeometric(constant(0), 2, 10)
	require.NoError(t, err)
	v, err = d.Apply(nil, nil)
	require.NoError(t, err)
	require.Equal(t, int64(10), v)
}

func TestExponential(t *testing.T) {
	d, err := NewExponential(constant(0), 10, 100)
	require.NoError(t, err)
	v, err := d.Apply(nil, nil)
	require.NoError(t, err)
	require.Equal(t, int64(0), v)
	require.Equal(t, int64(99), d.Max())

	d, err = NewExponential(constant(math.MaxUint64/2), 10, 100)
	require.NoError(t, err)
	v, err = d.Apply(nil, nil)
	require.NoError(t, err)
	// Half of the mass lies below 1 - ln((e^10+1)/2)/10.
	require.Equal(t, int64(math.Floor((1-math.Log((math.Exp(10)+1)/2)/10)*100)), v)

	d, err = NewExponential(constant(math.MaxUint64), 10, 100)
	require.NoError(t, err)
	v, err = d.Apply(nil, nil)
	require.NoError(t, err)
	require.Equal(t, int64(99), v)

	_, err = NewExponential(constant(0), 0, 100)
	require.Error(t, err)
	_, err = NewExponential(constant(0), 1, 0)
	require.Error(t, err)
}

func TestOracle(t *testing.T) {
	d, err := NewOracle("age", 18, 99)
	require.NoError(t, err)
	v, err := d.Apply(nil, Metadata{"age": 30})
	require.NoError(t, err)
	require.Equal(t, int64(30), v)

	_, err = d.Apply(nil, Metadata{"age": 3})
	require.True(t, anysketch.IsInvalidArgument(err))
	require.Contains(t, err.Error(), "less than minimum")

	_, err = d.Apply(nil, Metadata{})
	require.True(t, anysketch.IsInvalidArgument(err))
}
