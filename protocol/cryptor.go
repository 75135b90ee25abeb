// Package protocol holds the per-party cryptographic engine of the
// multi-party sketch aggregation protocol.
//
// Each party owns a Cryptor. Parties are chained: every party strips its
// own ElGamal layer from the registers it receives, optionally blinds the
// register ids with its Pohlig-Hellman key, and re-randomizes ciphertexts
// under the composite key before forwarding them to the next party.
package protocol

import (
	"sync"

	"go.dedis.ch/anysketch"
	"go.dedis.ch/anysketch/crypto/ecgroup"
	"go.dedis.ch/anysketch/crypto/elgamal"
	"go.dedis.ch/onet/v3/log"
)

// Keys is the key material of one party for one session. Empty fields are
// filled in by New: without a local private key the local cipher can only
// encrypt, without a composite key a fresh key pair is created, and without
// a Pohlig-Hellman key a fresh key is drawn.
type Keys struct {
	Curve                     ecgroup.CurveID
	LocalElGamalPublic        elgamal.PublicKey
	LocalElGamalPrivate       []byte
	LocalPohligHellmanPrivate []byte
	CompositeElGamalPublic    elgamal.PublicKey
}

// Cryptor is safe for concurrent use. Every method holds the lock of the
// Cryptor for its whole duration.
type Cryptor struct {
	sync.Mutex
	group     *ecgroup.Group
	local     *elgamal.Cipher
	composite *elgamal.Cipher
	blinder   *elgamal.Commutative
}

// New returns the cryptor of a party.
func New(keys Keys) (*Cryptor, error) {
	group, err := ecgroup.New(keys.Curve)
	if err != nil {
		return nil, err
	}

	c := &Cryptor{group: group}
	if len(keys.LocalElGamalPrivate) == 0 {
		c.local, err = elgamal.FromPublicKey(group, keys.LocalElGamalPublic)
	} else {
		c.local, err = elgamal.FromKeys(group, keys.LocalElGamalPublic, keys.LocalElGamalPrivate)
	}
	if err != nil {
		return nil, anysketch.ErrorOrNil(err, "local elgamal key")
	}

	if len(keys.CompositeElGamalPublic.G) == 0 {
		log.Lvl3("No composite key given, creating a new key pair")
		c.composite = elgamal.NewKeyPair(group)
	} else {
		c.composite, err = elgamal.FromPublicKey(group, keys.CompositeElGamalPublic)
		if err != nil {
			return nil, anysketch.ErrorOrNil(err, "composite elgamal key")
		}
	}

	if len(keys.LocalPohligHellmanPrivate) == 0 {
		c.blinder = elgamal.NewCommutative(group)
	} else {
		c.blinder, err = elgamal.CommutativeFromKey(group, keys.LocalPohligHellmanPrivate)
		if err != nil {
			return nil, err
		}
	}
	log.Lvlf3("New protocol cryptor on %v", keys.Curve)
	return c, nil
}

// Group returns the group of the cryptor.
func (c *Cryptor) Group() *ecgroup.Group {
	return c.group
}

// Blind removes this party's ElGamal layer from ct and adds its
// Pohlig-Hellman layer to both components. Equal plaintexts keep mapping to
// equal plaintexts, so registers can still be grouped by id downstream.
func (c *Cryptor) Blind(ct elgamal.Ciphertext) (elgamal.Ciphertext, error) {
	c.Lock()
	defer c.Unlock()
	return c.blind(ct)
}

func (c *Cryptor) blind(ct elgamal.Ciphertext) (elgamal.Ciphertext, error) {
	pair, err := elgamal.ToPointPair(c.group, ct)
	if err != nil {
		return elgamal.Ciphertext{}, err
	}
	m, err := c.local.DecryptPoint(pair)
	if err != nil {
		return elgamal.Ciphertext{}, err
	}
	return c.blinder.ReEncryptPair(elgamal.PointPair{U: pair.U, E: m}).Ciphertext(c.group)
}

// DecryptLocalElGamal removes this party's ElGamal layer and returns the
// remaining point.
func (c *Cryptor) DecryptLocalElGamal(ct elgamal.Ciphertext) ([]byte, error) {
	c.Lock()
	defer c.Unlock()
	return c.local.Decrypt(ct)
}

// EncryptCompositeElGamal encrypts an encoded point under the composite
// key.
func (c *Cryptor) EncryptCompositeElGamal(point []byte) (elgamal.Ciphertext, error) {
	c.Lock()
	defer c.Unlock()
	return c.composite.Encrypt(point)
}

// ReRandomize adds an encryption of the identity under the composite key
// to ct. The result decrypts to the same point but cannot be linked to ct.
func (c *Cryptor) ReRandomize(ct elgamal.Ciphertext) (elgamal.Ciphertext, error) {
	c.Lock()
	defer c.Unlock()
	return c.reRandomize(ct)
}

func (c *Cryptor) reRandomize(ct elgamal.Ciphertext) (elgamal.Ciphertext, error) {
	pair, err := elgamal.ToPointPair(c.group, ct)
	if err != nil {
		return elgamal.Ciphertext{}, err
	}
	return pair.Add(c.composite.EncryptIdentity()).Ciphertext(c.group)
}

// CalculateDestructor returns r*(key + baseInverse) for a fresh random r.
// The result is the identity exactly when key encrypts the same point as
// the negation baseInverse was taken from, and a random point otherwise.
func (c *Cryptor) CalculateDestructor(baseInverse, key elgamal.PointPair) elgamal.PointPair {
	c.Lock()
	defer c.Unlock()
	r := c.group.RandomScalar()
	return key.Add(baseInverse).Mul(r)
}

// MapToCurve hashes s to the curve and returns the encoded point.
func (c *Cryptor) MapToCurve(s string) ([]byte, error) {
	c.Lock()
	defer c.Unlock()
	buf, err := c.group.MapToCurve(s)
	return buf, anysketch.WrapInternal(err, "map to curve")
}

// ToPointPair decodes ct.
func (c *Cryptor) ToPointPair(ct elgamal.Ciphertext) (elgamal.PointPair, error) {
	c.Lock()
	defer c.Unlock()
	return elgamal.ToPointPair(c.group, ct)
}

// LocalPohligHellmanKey returns this party's Pohlig-Hellman key, so that a
// later stage run by the same party can remove the blinding.
func (c *Cryptor) LocalPohligHellmanKey() ([]byte, error) {
	c.Lock()
	defer c.Unlock()
	return c.blinder.Key()
}
