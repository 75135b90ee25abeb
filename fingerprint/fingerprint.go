// Package fingerprint maps arbitrary byte strings to 64-bit values. The
// sketch distributions derive register coordinates from these values.
package fingerprint

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	farm "github.com/dgryski/go-farm"
	"github.com/zeebo/blake3"
	"go.dedis.ch/anysketch"
	"golang.org/x/crypto/sha3"
)

// Fingerprinter maps an item to a 64-bit fingerprint. Implementations must
// be deterministic and safe for concurrent use.
type Fingerprinter interface {
	Fingerprint(item []byte) uint64
}

// Func adapts a plain function to the Fingerprinter interface.
type Func func(item []byte) uint64

// Fingerprint calls f(item).
func (f Func) Fingerprint(item []byte) uint64 {
	return f(item)
}

// Sha256 fingerprints with the first eight bytes of the SHA-256 digest,
// read in little-endian order.
type Sha256 struct{}

// Fingerprint implements Fingerprinter.
func (Sha256) Fingerprint(item []byte) uint64 {
	digest := sha256.Sum256(item)
	return binary.LittleEndian.Uint64(digest[:8])
}

// Farm fingerprints with FarmHash Fingerprint64.
type Farm struct{}

// Fingerprint implements Fingerprinter.
func (Farm) Fingerprint(item []byte) uint64 {
	return farm.Fingerprint64(item)
}

// Blake3 fingerprints with the first eight bytes of the BLAKE3 digest,
// read in little-endian order.
type Blake3 struct{}

// Fingerprint implements Fingerprinter.
func (Blake3) Fingerprint(item []byte) uint64 {
	digest := blake3.Sum256(item)
	return binary.LittleEndian.Uint64(digest[:8])
}

// Sha3 fingerprints with the first eight bytes of the SHA3-256 digest,
// read in little-endian order.
type Sha3 struct{}

// Fingerprint implements Fingerprinter.
func (Sha3) Fingerprint(item []byte) uint64 {
	digest := sha3.Sum256(item)
	return binary.LittleEndian.Uint64(digest[:8])
}

// Salted prefixes every item with a fixed salt before handing it to the
// underlying fingerprinter, so that two distributions fed the same item
// produce independent coordinates.
type Salted struct {
	Salt string
	Base Fingerprinter
}

// NewSalted returns a salted version of base.
func NewSalted(salt string, base Fingerprinter) *Salted {
	return &Salted{Salt: salt, Base: base}
}

// Fingerprint implements Fingerprinter.
func (s *Salted) Fingerprint(item []byte) uint64 {
	salted := fmt.Sprintf("AnySketchFingerprint:%s:%s", item, s.Salt)
	return s.Base.Fingerprint([]byte(salted))
}

// ByName returns the fingerprinter registered under name. The empty name
// selects Farm.
func ByName(name string) (Fingerprinter, error) {
	switch name {
	case "", "farm":
		return Farm{}, nil
	case "sha256":
		return Sha256{}, nil
	case "blake3":
		return Blake3{}, nil
	case "sha3":
		return Sha3{}, nil
	}
	return nil, anysketch.InvalidArgument("unknown fingerprinter %q", name)
}
