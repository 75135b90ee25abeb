package ecgroup

import (
	"crypto/elliptic"

	"go.dedis.ch/kyber/v3"
	"golang.org/x/xerrors"
)

const (
	p256CoordLen      = 32
	p256CompressedLen = 1 + p256CoordLen
)

// compressedCodec writes P-256 points in SEC1 compressed form. kyber only
// speaks the uncompressed form, so the codec converts between the two.
// The identity, which has no compressed form, is written as zeros.
type compressedCodec struct{}

func (compressedCodec) pointLen() int { return p256CompressedLen }

func (compressedCodec) encode(p kyber.Point) ([]byte, error) {
	raw, err := p.MarshalBinary()
	if err != nil {
		return nil, xerrors.Errorf("marshaling point: %v", err)
	}
	if len(raw) != 1+2*p256CoordLen {
		return nil, xerrors.Errorf("unexpected point length %d", len(raw))
	}
	out := make([]byte, p256CompressedLen)
	if isZero(raw[1:]) {
		return out, nil
	}
	out[0] = 2 | raw[len(raw)-1]&1
	copy(out[1:], raw[1:1+p256CoordLen])
	return out, nil
}

func (compressedCodec) decode(g kyber.Group, buf []byte) (kyber.Point, error) {
	if len(buf) != p256CompressedLen {
		return nil, xerrors.Errorf("invalid ECPoint: got %d bytes, expected %d", len(buf), p256CompressedLen)
	}
	if isZero(buf) {
		return g.Point().Null(), nil
	}
	x, y := elliptic.UnmarshalCompressed(elliptic.P256(), buf)
	if x == nil {
		return nil, xerrors.New("invalid ECPoint")
	}
	raw := make([]byte, 1+2*p256CoordLen)
	raw[0] = 4
	x.FillBytes(raw[1 : 1+p256CoordLen])
	y.FillBytes(raw[1+p256CoordLen:])
	p := g.Point()
	if err := p.UnmarshalBinary(raw); err != nil {
		return nil, xerrors.Errorf("invalid ECPoint: %v", err)
	}
	return p, nil
}

// nativeCodec uses the kyber encoding of the group.
type nativeCodec struct{}

func (nativeCodec) pointLen() int { return 32 }

func (nativeCodec) encode(p kyber.Point) ([]byte, error) {
	buf, err := p.MarshalBinary()
	if err != nil {
		return nil, xerrors.Errorf("marshaling point: %v", err)
	}
	return buf, nil
}

func (c nativeCodec) decode(g kyber.Group, buf []byte) (kyber.Point, error) {
	if len(buf) != c.pointLen() {
		return nil, xerrors.Errorf("invalid ECPoint: got %d bytes, expected %d", len(buf), c.pointLen())
	}
	p := g.Point()
	if err := p.UnmarshalBinary(buf); err != nil {
		return nil, xerrors.Errorf("invalid ECPoint: %v", err)
	}
	return p, nil
}

func isZero(buf []byte) bool {
	var acc byte
	for _, b := range buf {
		acc |= b
	}
	return acc == 0
}
