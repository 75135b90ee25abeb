// Package ecgroup wraps the kyber elliptic curve groups used to encrypt
// sketches. It fixes the wire encoding of points: 33-byte compressed
// points on NIST P-256 and 32-byte points on Ed25519.
package ecgroup

import (
	"crypto/cipher"
	"crypto/sha256"

	"go.dedis.ch/anysketch"
	"go.dedis.ch/kyber/v3"
	"go.dedis.ch/kyber/v3/group/edwards25519"
	"go.dedis.ch/kyber/v3/group/nist"
	"go.dedis.ch/onet/v3/log"
)

// CurveID identifies a curve by its OpenSSL NID.
type CurveID int32

const (
	// P256 is NIST P-256, NID_X9_62_prime256v1.
	P256 CurveID = 415
	// Ed25519 is the twisted Edwards form of Curve25519, NID_ED25519.
	Ed25519 CurveID = 1087
)

func (id CurveID) String() string {
	switch id {
	case P256:
		return "P-256"
	case Ed25519:
		return "Ed25519"
	}
	return "unknown curve"
}

type suite interface {
	kyber.Group
	kyber.XOFFactory
	kyber.Random
}

type codec interface {
	encode(p kyber.Point) ([]byte, error)
	decode(g kyber.Group, buf []byte) (kyber.Point, error)
	pointLen() int
}

// Group is a curve together with its point encoding. It is immutable and
// safe for concurrent use.
type Group struct {
	id    CurveID
	suite suite
	codec codec
}

// New returns the group of the given curve.
func New(id CurveID) (*Group, error) {
	switch id {
	case P256:
		return &Group{id: id, suite: nist.NewBlakeSHA256P256(), codec: compressedCodec{}}, nil
	case Ed25519:
		return &Group{id: id, suite: edwards25519.NewBlakeSHA256Ed25519(), codec: nativeCodec{}}, nil
	}
	log.Lvl3("Unknown curve id", int32(id))
	return nil, anysketch.InvalidArgument("unknown curve id %d", id)
}

// ID returns the curve id of the group.
func (g *Group) ID() CurveID {
	return g.id
}

// Point returns a new point of the group.
func (g *Group) Point() kyber.Point {
	return g.suite.Point()
}

// Scalar returns a new scalar of the group.
func (g *Group) Scalar() kyber.Scalar {
	return g.suite.Scalar()
}

// Generator returns the standard base point.
func (g *Group) Generator() kyber.Point {
	return g.suite.Point().Base()
}

// Identity returns the neutral element.
func (g *Group) Identity() kyber.Point {
	return g.suite.Point().Null()
}

// RandomStream returns a cryptographically secure stream.
func (g *Group) RandomStream() cipher.Stream {
	return g.suite.RandomStream()
}

// RandomScalar draws a fresh non-zero scalar.
func (g *Group) RandomScalar() kyber.Scalar {
	zero := g.suite.Scalar().Zero()
	for {
		s := g.suite.Scalar().Pick(g.suite.RandomStream())
		if !s.Equal(zero) {
			return s
		}
	}
}

// PointLen returns the size of an encoded point.
func (g *Group) PointLen() int {
	return g.codec.pointLen()
}

// CiphertextLen returns the size of an encoded ElGamal ciphertext.
func (g *Group) CiphertextLen() int {
	return 2 * g.codec.pointLen()
}

// Encode returns the wire encoding of p.
func (g *Group) Encode(p kyber.Point) ([]byte, error) {
	return g.codec.encode(p)
}

// Decode parses a point in wire encoding. The returned error is not
// classified, callers decide whether bad bytes are the caller's fault.
func (g *Group) Decode(buf []byte) (kyber.Point, error) {
	return g.codec.decode(g.suite, buf)
}

// HashToCurve deterministically maps s to a point whose discrete
// logarithm is unknown.
func (g *Group) HashToCurve(s string) kyber.Point {
	digest := sha256.Sum256([]byte(s))
	return g.suite.Point().Pick(g.suite.XOF(digest[:]))
}

// MapToCurve returns the encoding of HashToCurve(s).
func (g *Group) MapToCurve(s string) ([]byte, error) {
	return g.Encode(g.HashToCurve(s))
}
