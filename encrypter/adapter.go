package encrypter

import (
	"go.dedis.ch/anysketch"
	"go.dedis.ch/anysketch/crypto/ecgroup"
	"go.dedis.ch/anysketch/crypto/elgamal"
	"go.dedis.ch/anysketch/sketch"
	"go.dedis.ch/protobuf"
)

// ElGamalKeys is the wire form of an ElGamal public key.
type ElGamalKeys struct {
	G []byte
	Y []byte
}

// PlainSketch is the wire form of a plaintext sketch record.
type PlainSketch struct {
	Aggregators []int32
	Registers   []sketch.RegisterRecord
}

// EncryptSketchRequest asks for the encryption of a sketch.
type EncryptSketchRequest struct {
	CurveID                   int32
	MaximumValue              int64
	ElGamalKeys               ElGamalKeys
	Sketch                    PlainSketch
	DestroyedRegisterStrategy int32
	NoiseParameter            *NoiseParameters
}

// EncryptSketchResponse carries the encrypted sketch.
type EncryptSketchResponse struct {
	EncryptedSketch []byte
}

// CombineElGamalPublicKeysRequest asks for the composite key of several
// parties.
type CombineElGamalPublicKeysRequest struct {
	CurveID     int32
	ElGamalKeys []ElGamalKeys
}

// CombineElGamalPublicKeysResponse carries the composite key.
type CombineElGamalPublicKeysResponse struct {
	ElGamalKeys ElGamalKeys
}

// NewPlainSketch returns the wire form of r.
func NewPlainSketch(r *sketch.Record) PlainSketch {
	ps := PlainSketch{Registers: r.Registers}
	for _, t := range r.Aggregators {
		ps.Aggregators = append(ps.Aggregators, int32(t))
	}
	return ps
}

// Record returns the record carried by ps.
func (ps PlainSketch) Record() *sketch.Record {
	r := &sketch.Record{Registers: ps.Registers}
	for _, t := range ps.Aggregators {
		r.Aggregators = append(r.Aggregators, sketch.AggregatorType(t))
	}
	return r
}

// EncryptSketch handles an encoded EncryptSketchRequest and returns the
// encoded EncryptSketchResponse.
func EncryptSketch(request []byte) ([]byte, error) {
	var req EncryptSketchRequest
	if err := protobuf.Decode(request, &req); err != nil {
		return nil, anysketch.InvalidArgument("failed to parse the EncryptSketchRequest: %v", err)
	}
	if req.MaximumValue < 0 {
		return nil, anysketch.InvalidArgument("negative maximum value %d", req.MaximumValue)
	}
	enc, err := New(ecgroup.CurveID(req.CurveID), uint64(req.MaximumValue),
		elgamal.PublicKey{G: req.ElGamalKeys.G, Y: req.ElGamalKeys.Y})
	if err != nil {
		return nil, err
	}

	record := req.Sketch.Record()
	var resp EncryptSketchResponse
	resp.EncryptedSketch, err = enc.Encrypt(record, Strategy(req.DestroyedRegisterStrategy))
	if err != nil {
		return nil, err
	}
	if req.NoiseParameter != nil {
		resp.EncryptedSketch, err = enc.AppendNoiseRegisters(resp.EncryptedSketch, *req.NoiseParameter, record.Width())
		if err != nil {
			return nil, err
		}
	}
	buf, err := protobuf.Encode(&resp)
	return buf, anysketch.WrapInternal(err, "encoding response")
}

// CombineElGamalPublicKeys handles an encoded
// CombineElGamalPublicKeysRequest and returns the encoded
// CombineElGamalPublicKeysResponse.
func CombineElGamalPublicKeys(request []byte) ([]byte, error) {
	var req CombineElGamalPublicKeysRequest
	if err := protobuf.Decode(request, &req); err != nil {
		return nil, anysketch.InvalidArgument("failed to parse the CombineElGamalPublicKeysRequest: %v", err)
	}
	keys := make([]elgamal.PublicKey, len(req.ElGamalKeys))
	for i, k := range req.ElGamalKeys {
		keys[i] = elgamal.PublicKey{G: k.G, Y: k.Y}
	}
	combined, err := elgamal.CombinePublicKeys(ecgroup.CurveID(req.CurveID), keys)
	if err != nil {
		return nil, err
	}
	resp := CombineElGamalPublicKeysResponse{ElGamalKeys: ElGamalKeys{G: combined.G, Y: combined.Y}}
	buf, err := protobuf.Encode(&resp)
	return buf, anysketch.WrapInternal(err, "encoding response")
}
