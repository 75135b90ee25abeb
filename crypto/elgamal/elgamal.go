// Package elgamal implements the ciphers used on encrypted sketches:
// additively homomorphic ElGamal on curve points, and the commutative
// Pohlig-Hellman cipher parties use to blind register ids.
package elgamal

import (
	"go.dedis.ch/anysketch"
	"go.dedis.ch/anysketch/crypto/ecgroup"
	"go.dedis.ch/kyber/v3"
)

// PublicKey is an encoded ElGamal public key: the generator G and
// Y = x*G.
type PublicKey struct {
	G []byte
	Y []byte
}

// Cipher encrypts under a public key and, when it holds the private key,
// decrypts.
type Cipher struct {
	group *ecgroup.Group
	g     kyber.Point
	y     kyber.Point
	x     kyber.Scalar
}

// NewKeyPair returns a cipher with a fresh key pair on the standard
// generator.
func NewKeyPair(group *ecgroup.Group) *Cipher {
	x := group.RandomScalar()
	return &Cipher{
		group: group,
		g:     group.Generator(),
		y:     group.Point().Mul(x, nil),
		x:     x,
	}
}

// FromPublicKey returns an encrypt-only cipher.
func FromPublicKey(group *ecgroup.Group, pk PublicKey) (*Cipher, error) {
	g, err := group.Decode(pk.G)
	if err != nil {
		return nil, anysketch.WrapInvalidArgument(err, "generator")
	}
	y, err := group.Decode(pk.Y)
	if err != nil {
		return nil, anysketch.WrapInvalidArgument(err, "public key")
	}
	return &Cipher{group: group, g: g, y: y}, nil
}

// FromKeys returns a cipher holding the private key x.
func FromKeys(group *ecgroup.Group, pk PublicKey, x []byte) (*Cipher, error) {
	c, err := FromPublicKey(group, pk)
	if err != nil {
		return nil, err
	}
	c.x = group.Scalar()
	if err := c.x.UnmarshalBinary(x); err != nil {
		return nil, anysketch.InvalidArgument("private key: %v", err)
	}
	return c, nil
}

// Group returns the group of the cipher.
func (c *Cipher) Group() *ecgroup.Group {
	return c.group
}

// PublicKey returns the encoded public key.
func (c *Cipher) PublicKey() (PublicKey, error) {
	g, err := c.group.Encode(c.g)
	if err != nil {
		return PublicKey{}, anysketch.WrapInternal(err, "generator")
	}
	y, err := c.group.Encode(c.y)
	if err != nil {
		return PublicKey{}, anysketch.WrapInternal(err, "public key")
	}
	return PublicKey{G: g, Y: y}, nil
}

// PrivateKey returns the encoded private key, or nil for an encrypt-only
// cipher.
func (c *Cipher) PrivateKey() ([]byte, error) {
	if c.x == nil {
		return nil, nil
	}
	buf, err := c.x.MarshalBinary()
	return buf, anysketch.WrapInternal(err, "private key")
}

// EncryptPoint encrypts m with fresh randomness.
func (c *Cipher) EncryptPoint(m kyber.Point) PointPair {
	r := c.group.RandomScalar()
	u := c.group.Point().Mul(r, c.g)
	s := c.group.Point().Mul(r, c.y)
	return PointPair{U: u, E: s.Add(s, m)}
}

// EncryptIdentity encrypts the neutral element. Adding the result to a
// ciphertext re-randomizes it.
func (c *Cipher) EncryptIdentity() PointPair {
	return c.EncryptPoint(c.group.Identity())
}

// Encrypt encrypts an encoded point.
func (c *Cipher) Encrypt(m []byte) (Ciphertext, error) {
	p, err := c.group.Decode(m)
	if err != nil {
		return Ciphertext{}, anysketch.WrapInvalidArgument(err, "plaintext")
	}
	return c.EncryptPoint(p).Ciphertext(c.group)
}

// DecryptPoint removes the encryption layer of the private key.
func (c *Cipher) DecryptPoint(p PointPair) (kyber.Point, error) {
	if c.x == nil {
		return nil, anysketch.InvalidArgument("cannot decrypt without a private key")
	}
	s := c.group.Point().Mul(c.x, p.U)
	return c.group.Point().Sub(p.E, s), nil
}

// Decrypt returns the encoded plaintext point of ct.
func (c *Cipher) Decrypt(ct Ciphertext) ([]byte, error) {
	p, err := ToPointPair(c.group, ct)
	if err != nil {
		return nil, err
	}
	m, err := c.DecryptPoint(p)
	if err != nil {
		return nil, err
	}
	buf, err := c.group.Encode(m)
	return buf, anysketch.WrapInternal(err, "plaintext")
}
