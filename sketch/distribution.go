package sketch

import (
	"math"
	"math/bits"

	"go.dedis.ch/anysketch"
	"go.dedis.ch/anysketch/fingerprint"
)

// Metadata carries named integer attributes of an item. Oracle
// distributions read their coordinate from it.
type Metadata map[string]int64

// Distribution deterministically maps an item to a coordinate in
// [Min(), Max()]. Apply returns an invalid argument error instead of a
// value outside that range.
type Distribution interface {
	Min() int64
	Max() int64
	Apply(item []byte, md Metadata) (int64, error)
}

// Size returns the number of values d can produce. It is 0 when the range
// covers all of the 64-bit space.
func Size(d Distribution) uint64 {
	return uint64(d.Max()-d.Min()) + 1
}

func checkRange(d Distribution, v int64) (int64, error) {
	if v < d.Min() {
		return 0, anysketch.InvalidArgument("returned value %d is less than minimum value %d", v, d.Min())
	}
	if v > d.Max() {
		return 0, anysketch.InvalidArgument("returned value %d is greater than maximum value %d", v, d.Max())
	}
	return v, nil
}

type bounds struct {
	min, max int64
}

func (b bounds) Min() int64 { return b.min }
func (b bounds) Max() int64 { return b.max }

func newBounds(min, max int64) (bounds, error) {
	if min > max {
		return bounds{}, anysketch.InvalidArgument("minimum value %d is greater than maximum value %d", min, max)
	}
	return bounds{min, max}, nil
}

// Oracle reads its value from a metadata attribute.
type Oracle struct {
	bounds
	Key string
}

// NewOracle returns a distribution reading the attribute key.
func NewOracle(key string, min, max int64) (*Oracle, error) {
	b, err := newBounds(min, max)
	if err != nil {
		return nil, err
	}
	return &Oracle{bounds: b, Key: key}, nil
}

// Apply implements Distribution.
func (o *Oracle) Apply(item []byte, md Metadata) (int64, error) {
	v, ok := md[o.Key]
	if !ok {
		return 0, anysketch.InvalidArgument("metadata has no attribute %q", o.Key)
	}
	return checkRange(o, v)
}

// Uniform spreads fingerprints evenly over [min, max].
type Uniform struct {
	bounds
	fp fingerprint.Fingerprinter
}

// NewUniform returns a uniform distribution over [min, max].
func NewUniform(fp fingerprint.Fingerprinter, min, max int64) (*Uniform, error) {
	b, err := newBounds(min, max)
	if err != nil {
		return nil, err
	}
	return &Uniform{bounds: b, fp: fp}, nil
}

// Apply implements Distribution.
func (u *Uniform) Apply(item []byte, md Metadata) (int64, error) {
	h := u.fp.Fingerprint(item)
	size := Size(u)
	if size != 0 {
		h %= size
	}
	return checkRange(u, int64(h)+u.min)
}

// Exponential maps fingerprints to [0, size-1] following a truncated
// exponential with the given rate, so that low coordinates are hit more
// often. This is the register distribution of Liquid Legions sketches.
type Exponential struct {
	bounds
	fp   fingerprint.Fingerprinter
	rate float64
}

// NewExponential returns a truncated exponential distribution.
func NewExponential(fp fingerprint.Fingerprinter, rate float64, size int64) (*Exponential, error) {
	if rate <= 0 {
		return nil, anysketch.InvalidArgument("rate %v should be positive", rate)
	}
	if size <= 0 {
		return nil, anysketch.InvalidArgument("size %d should be positive", size)
	}
	return &Exponential{bounds: bounds{0, size - 1}, fp: fp, rate: rate}, nil
}

// Rate returns the decay rate of the distribution.
func (e *Exponential) Rate() float64 {
	return e.rate
}

// Apply implements Distribution.
func (e *Exponential) Apply(item []byte, md Metadata) (int64, error) {
	u := float64(e.fp.Fingerprint(item)) / math.MaxUint64
	x := 1 - math.Log(math.Exp(e.rate)+u*(1-math.Exp(e.rate)))/e.rate
	// u rounds to 0 or 1 at both ends of the fingerprint range
	x = math.Min(math.Max(x, 0), math.Nextafter(1, 0))
	return checkRange(e, int64(math.Floor(x*float64(Size(e)))))
}

// Geometric counts the trailing zero bits of the fingerprint, so that
// coordinate min+k is hit with probability 2^-(k+1). Values beyond max
// are folded into max.
type Geometric struct {
	bounds
	fp fingerprint.Fingerprinter
}

// NewGeometric returns a geometric distribution over [min, max].
func NewGeometric(fp fingerprint.Fingerprinter, min, max int64) (*Geometric, error) {
	b, err := newBounds(min, max)
	if err != nil {
		return nil, err
	}
	return &Geometric{bounds: b, fp: fp}, nil
}

// Apply implements Distribution.
func (g *Geometric) Apply(item []byte, md Metadata) (int64, error) {
	v := g.min + int64(bits.TrailingZeros64(g.fp.Fingerprint(item)))
	if v > g.max || v < g.min {
		v = g.max
	}
	return checkRange(g, v)
}
