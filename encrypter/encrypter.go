// Package encrypter turns plaintext sketch records into encrypted sketches
// under a composite ElGamal key.
//
// An encrypted sketch is a flat sequence of ciphertexts. Every register is
// written as the encryption of its index followed by the encryption of each
// of its values, in the order of the sketch configuration. Noise registers
// use the same layout and are appended after the real ones.
package encrypter

import (
	"strconv"
	"sync"

	"go.dedis.ch/anysketch"
	"go.dedis.ch/anysketch/crypto/ecgroup"
	"go.dedis.ch/anysketch/crypto/elgamal"
	"go.dedis.ch/anysketch/noise"
	"go.dedis.ch/anysketch/sketch"
	"go.dedis.ch/onet/v3/log"
)

const (
	// UnitPointSeed is hashed to the curve to get the point representing
	// the integer 1. The integer n is represented by n times that point.
	UnitPointSeed = "unit_ec_point"
	// DestroyedRegisterMarker is the plaintext of every value of a
	// destroyed register under the FlaggedKey strategy.
	DestroyedRegisterMarker = "destroyed_register_key"
	// NoiseRegisterMarker is the plaintext of the index of every noise
	// register.
	NoiseRegisterMarker = "publisher_noise_register_id"
)

// Strategy selects how registers destroyed by a Unique collision are
// written.
type Strategy int32

const (
	// ConflictingKeys writes a destroyed register twice, with the same
	// index but with every value set to 1 in the first copy and to 2 in
	// the second. The copies never agree, so the register is discarded
	// when same-index registers are aggregated.
	ConflictingKeys Strategy = iota
	// FlaggedKey writes a destroyed register once, with every value set
	// to DestroyedRegisterMarker.
	FlaggedKey
)

func (s Strategy) String() string {
	switch s {
	case ConflictingKeys:
		return "conflicting keys"
	case FlaggedKey:
		return "flagged key"
	}
	return "unknown strategy"
}

// NoiseParameters describe the publisher noise to append.
type NoiseParameters struct {
	Epsilon        float64 `toml:"epsilon"`
	Delta          float64 `toml:"delta"`
	PublisherCount int32   `toml:"publisher_count"`
}

// Encrypter encrypts sketches under a fixed public key. It caches the
// points representing counter values, all its methods are safe for
// concurrent use.
type Encrypter struct {
	sync.Mutex
	group      *ecgroup.Group
	cipher     *elgamal.Cipher
	maxCounter uint64
	points     map[uint64][]byte
	destroyed  []byte
	sampler    *noise.Sampler
}

// New returns an encrypter for the given curve and public key. Sum values
// greater than maxCounter are encrypted as maxCounter.
func New(id ecgroup.CurveID, maxCounter uint64, pk elgamal.PublicKey) (*Encrypter, error) {
	group, err := ecgroup.New(id)
	if err != nil {
		return nil, err
	}
	if maxCounter == 0 {
		return nil, anysketch.InvalidArgument("maximum counter value should be positive")
	}
	c, err := elgamal.FromPublicKey(group, pk)
	if err != nil {
		return nil, anysketch.Internal("creating cipher: %v", err)
	}
	log.Lvlf3("New sketch encrypter on %v, max counter %d", id, maxCounter)
	return &Encrypter{
		group:      group,
		cipher:     c,
		maxCounter: maxCounter,
		points:     make(map[uint64][]byte),
		sampler:    noise.NewSampler(noise.NewSource(group.RandomStream())),
	}, nil
}

// Group returns the group of the encrypter.
func (e *Encrypter) Group() *ecgroup.Group {
	return e.group
}

// Encrypt returns the encrypted sketch of r.
func (e *Encrypter) Encrypt(r *sketch.Record, strategy Strategy) ([]byte, error) {
	if strategy != ConflictingKeys && strategy != FlaggedKey {
		return nil, anysketch.InvalidArgument("unknown destroyed register strategy %d", strategy)
	}
	for i, t := range r.Aggregators {
		if t != sketch.Sum && t != sketch.Unique {
			return nil, anysketch.InvalidArgument("value %d: unknown aggregator type %d", i, t)
		}
	}
	for _, reg := range r.Registers {
		if len(reg.Values) != r.Width() {
			return nil, anysketch.Internal("sketch data doesn't match the config")
		}
	}

	e.Lock()
	defer e.Unlock()

	wordsPerRegister := r.Width() + 1
	out := make([]byte, 0, len(r.Registers)*wordsPerRegister*e.group.CiphertextLen())
	var err error
	for _, reg := range r.Registers {
		out, err = e.appendRegister(out, r.Aggregators, reg, strategy)
		if err != nil {
			return nil, err
		}
	}
	log.Lvlf4("Encrypted %d registers into %d bytes", len(r.Registers), len(out))
	return out, nil
}

func isDestroyed(types []sketch.AggregatorType, reg sketch.RegisterRecord) bool {
	for i, t := range types {
		if t == sketch.Unique && reg.Values[i] <= 0 {
			return true
		}
	}
	return false
}

func (e *Encrypter) appendRegister(dst []byte, types []sketch.AggregatorType,
	reg sketch.RegisterRecord, strategy Strategy) ([]byte, error) {
	index, err := e.group.MapToCurve(strconv.FormatInt(reg.Index, 10))
	if err != nil {
		return nil, anysketch.WrapInternal(err, "index")
	}

	if isDestroyed(types, reg) {
		switch strategy {
		case ConflictingKeys:
			for _, n := range []uint64{1, 2} {
				p, err := e.integerPoint(n)
				if err != nil {
					return nil, err
				}
				if dst, err = e.appendRepeated(dst, index, p, len(types)); err != nil {
					return nil, err
				}
			}
			return dst, nil
		default:
			if e.destroyed == nil {
				if e.destroyed, err = e.group.MapToCurve(DestroyedRegisterMarker); err != nil {
					return nil, anysketch.WrapInternal(err, "destroyed marker")
				}
			}
			return e.appendRepeated(dst, index, e.destroyed, len(types))
		}
	}

	if dst, err = e.appendPoint(dst, index); err != nil {
		return nil, err
	}
	for i, t := range types {
		v := reg.Values[i]
		var p []byte
		switch t {
		case sketch.Unique:
			p, err = e.group.MapToCurve(strconv.FormatInt(v, 10))
			err = anysketch.WrapInternal(err, "unique value")
		case sketch.Sum:
			if v <= 0 {
				return nil, anysketch.InvalidArgument("register %d: sum value %d should be positive", reg.Index, v)
			}
			p, err = e.pointForInteger(uint64(v))
		}
		if err != nil {
			return nil, err
		}
		if dst, err = e.appendPoint(dst, p); err != nil {
			return nil, err
		}
	}
	return dst, nil
}

// appendRepeated writes a register whose values are all value.
func (e *Encrypter) appendRepeated(dst, index, value []byte, width int) ([]byte, error) {
	dst, err := e.appendPoint(dst, index)
	if err != nil {
		return nil, err
	}
	for i := 0; i < width; i++ {
		if dst, err = e.appendPoint(dst, value); err != nil {
			return nil, err
		}
	}
	return dst, nil
}

func (e *Encrypter) appendPoint(dst, point []byte) ([]byte, error) {
	ct, err := e.cipher.Encrypt(point)
	if err != nil {
		return nil, anysketch.WrapInternal(err, "encrypt")
	}
	return ct.AppendTo(dst), nil
}

// pointForInteger returns the encoding of n times the unit point, n being
// capped at the maximum counter value.
func (e *Encrypter) pointForInteger(n uint64) ([]byte, error) {
	if n > e.maxCounter {
		log.Lvlf3("Clamping counter %d to %d", n, e.maxCounter)
		n = e.maxCounter
	}
	return e.integerPoint(n)
}

func (e *Encrypter) integerPoint(n uint64) ([]byte, error) {
	if p, ok := e.points[n]; ok {
		return p, nil
	}
	if n == 0 {
		return nil, anysketch.Internal("0 has no point representation")
	}
	unit := e.group.HashToCurve(UnitPointSeed)
	p := unit
	if n > 1 {
		p = e.group.Point().Mul(e.group.Scalar().SetInt64(int64(n)), unit)
	}
	buf, err := e.group.Encode(p)
	if err != nil {
		return nil, anysketch.WrapInternal(err, "counter point")
	}
	e.points[n] = buf
	return buf, nil
}

// AppendNoiseRegisters appends to dst a number of noise registers drawn
// from the discrete Laplace distribution calibrated by p. Their index is
// the encryption of NoiseRegisterMarker and their values are encryptions
// of random points.
func (e *Encrypter) AppendNoiseRegisters(dst []byte, p NoiseParameters, valuesPerRegister int) ([]byte, error) {
	if !(p.Epsilon > 0) || !(p.Delta > 0) || p.PublisherCount <= 0 {
		return nil, anysketch.InvalidArgument("invalid noise parameters %+v", p)
	}
	if valuesPerRegister < 0 {
		return nil, anysketch.InvalidArgument("negative number of values per register")
	}

	e.Lock()
	defer e.Unlock()

	opts := noise.PublisherNoiseOptions(noise.Params{Epsilon: p.Epsilon, Delta: p.Delta}, int(p.PublisherCount))
	count := e.sampler.TruncatedDiscreteLaplace(opts)
	index, err := e.group.MapToCurve(NoiseRegisterMarker)
	if err != nil {
		return nil, anysketch.WrapInternal(err, "noise marker")
	}
	for i := int64(0); i < count; i++ {
		if dst, err = e.appendPoint(dst, index); err != nil {
			return nil, err
		}
		for j := 0; j < valuesPerRegister; j++ {
			v := e.sampler.Uint64()
			point, err := e.group.MapToCurve(strconv.FormatUint(v, 10))
			if err != nil {
				return nil, anysketch.WrapInternal(err, "noise value")
			}
			if dst, err = e.appendPoint(dst, point); err != nil {
				return nil, err
			}
		}
	}
	log.Lvlf4("Appended %d noise registers", count)
	return dst, nil
}
