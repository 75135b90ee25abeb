package elgamal

import (
	"go.dedis.ch/anysketch"
	"go.dedis.ch/anysketch/crypto/ecgroup"
	"go.dedis.ch/kyber/v3"
)

// Commutative is the Pohlig-Hellman cipher P -> k*P. Layers added by
// different keys can be removed in any order, and equal plaintexts give
// equal ciphertexts under the same key.
type Commutative struct {
	group *ecgroup.Group
	k     kyber.Scalar
	kInv  kyber.Scalar
}

// NewCommutative returns a cipher with a fresh key.
func NewCommutative(group *ecgroup.Group) *Commutative {
	return newCommutative(group, group.RandomScalar())
}

// CommutativeFromKey returns the cipher of an encoded key.
func CommutativeFromKey(group *ecgroup.Group, key []byte) (*Commutative, error) {
	k := group.Scalar()
	if err := k.UnmarshalBinary(key); err != nil {
		return nil, anysketch.InvalidArgument("pohlig-hellman key: %v", err)
	}
	if k.Equal(group.Scalar().Zero()) {
		return nil, anysketch.InvalidArgument("pohlig-hellman key cannot be zero")
	}
	return newCommutative(group, k), nil
}

func newCommutative(group *ecgroup.Group, k kyber.Scalar) *Commutative {
	return &Commutative{group: group, k: k, kInv: group.Scalar().Inv(k)}
}

// Key returns the encoded key.
func (c *Commutative) Key() ([]byte, error) {
	buf, err := c.k.MarshalBinary()
	return buf, anysketch.WrapInternal(err, "pohlig-hellman key")
}

// EncryptPoint returns k*p.
func (c *Commutative) EncryptPoint(p kyber.Point) kyber.Point {
	return c.group.Point().Mul(c.k, p)
}

// DecryptPoint returns p/k.
func (c *Commutative) DecryptPoint(p kyber.Point) kyber.Point {
	return c.group.Point().Mul(c.kInv, p)
}

// Encrypt hashes s to the curve and encrypts the point.
func (c *Commutative) Encrypt(s string) ([]byte, error) {
	buf, err := c.group.Encode(c.EncryptPoint(c.group.HashToCurve(s)))
	return buf, anysketch.WrapInternal(err, "encrypt")
}

// ReEncrypt adds a layer to an encoded point.
func (c *Commutative) ReEncrypt(point []byte) ([]byte, error) {
	p, err := c.group.Decode(point)
	if err != nil {
		return nil, anysketch.WrapInvalidArgument(err, "re-encrypt")
	}
	buf, err := c.group.Encode(c.EncryptPoint(p))
	return buf, anysketch.WrapInternal(err, "re-encrypt")
}

// Decrypt removes a layer from an encoded point.
func (c *Commutative) Decrypt(point []byte) ([]byte, error) {
	p, err := c.group.Decode(point)
	if err != nil {
		return nil, anysketch.WrapInvalidArgument(err, "decrypt")
	}
	buf, err := c.group.Encode(c.DecryptPoint(p))
	return buf, anysketch.WrapInternal(err, "decrypt")
}

// ReEncryptPair multiplies both components of an ElGamal ciphertext by k,
// which keeps it decryptable by the ElGamal key while the plaintext gains
// a Pohlig-Hellman layer.
func (c *Commutative) ReEncryptPair(p PointPair) PointPair {
	return p.Mul(c.k)
}
