package elgamal

import (
	"go.dedis.ch/anysketch"
	"go.dedis.ch/anysketch/crypto/ecgroup"
	"go.dedis.ch/kyber/v3"
)

// Ciphertext is an encoded ElGamal ciphertext: U = r*G and E = M + r*Y.
type Ciphertext struct {
	U []byte
	E []byte
}

// Bytes returns U||E.
func (c Ciphertext) Bytes() []byte {
	out := make([]byte, 0, len(c.U)+len(c.E))
	out = append(out, c.U...)
	return append(out, c.E...)
}

// AppendTo appends U||E to dst.
func (c Ciphertext) AppendTo(dst []byte) []byte {
	dst = append(dst, c.U...)
	return append(dst, c.E...)
}

// SplitCiphertexts cuts data into ciphertexts of the group. It fails if
// data is not a whole number of ciphertexts.
func SplitCiphertexts(g *ecgroup.Group, data []byte) ([]Ciphertext, error) {
	size := g.CiphertextLen()
	if len(data)%size != 0 {
		return nil, anysketch.InvalidArgument("%d bytes are not a multiple of the ciphertext size %d", len(data), size)
	}
	out := make([]Ciphertext, 0, len(data)/size)
	for pos := 0; pos < len(data); pos += size {
		half := pos + size/2
		out = append(out, Ciphertext{U: data[pos:half:half], E: data[half : pos+size : pos+size]})
	}
	return out, nil
}

// PointPair is a decoded ciphertext.
type PointPair struct {
	U kyber.Point
	E kyber.Point
}

// ToPointPair decodes c.
func ToPointPair(g *ecgroup.Group, c Ciphertext) (PointPair, error) {
	u, err := g.Decode(c.U)
	if err != nil {
		return PointPair{}, anysketch.WrapInvalidArgument(err, "u")
	}
	e, err := g.Decode(c.E)
	if err != nil {
		return PointPair{}, anysketch.WrapInvalidArgument(err, "e")
	}
	return PointPair{U: u, E: e}, nil
}

// Ciphertext encodes the pair.
func (p PointPair) Ciphertext(g *ecgroup.Group) (Ciphertext, error) {
	u, err := g.Encode(p.U)
	if err != nil {
		return Ciphertext{}, anysketch.WrapInternal(err, "u")
	}
	e, err := g.Encode(p.E)
	if err != nil {
		return Ciphertext{}, anysketch.WrapInternal(err, "e")
	}
	return Ciphertext{U: u, E: e}, nil
}

// Add returns the component-wise sum of p and q. For ciphertexts under the
// same key it encrypts the sum of the plaintexts.
func (p PointPair) Add(q PointPair) PointPair {
	return PointPair{
		U: p.U.Clone().Add(p.U, q.U),
		E: p.E.Clone().Add(p.E, q.E),
	}
}

// Mul returns s times both components.
func (p PointPair) Mul(s kyber.Scalar) PointPair {
	return PointPair{
		U: p.U.Clone().Mul(s, p.U),
		E: p.E.Clone().Mul(s, p.E),
	}
}

// Neg returns the inverse pair.
func (p PointPair) Neg() PointPair {
	return PointPair{
		U: p.U.Clone().Neg(p.U),
		E: p.E.Clone().Neg(p.E),
	}
}

// Equal is true if both components are equal.
func (p PointPair) Equal(q PointPair) bool {
	return p.U.Equal(q.U) && p.E.Equal(q.E)
}
