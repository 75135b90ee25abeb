package encrypter

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/anysketch"
	"go.dedis.ch/anysketch/crypto/ecgroup"
	"go.dedis.ch/anysketch/crypto/elgamal"
	"go.dedis.ch/anysketch/sketch"
	"go.dedis.ch/onet/v3/log"
	"go.dedis.ch/protobuf"
)

func TestMain(m *testing.M) {
	log.MainTest(m)
}

const maxCounter = 100

type fixture struct {
	group  *ecgroup.Group
	cipher *elgamal.Cipher
	pk     elgamal.PublicKey
	enc    *Encrypter
}

func newFixture(t *testing.T) *fixture {
	g, err := ecgroup.New(ecgroup.P256)
	require.NoError(t, err)
	c := elgamal.NewKeyPair(g)
	pk, err := c.PublicKey()
	require.NoError(t, err)
	enc, err := New(ecgroup.P256, maxCounter, pk)
	require.NoError(t, err)
	return &fixture{group: g, cipher: c, pk: pk, enc: enc}
}

func (f *fixture) words(t *testing.T, data []byte) []elgamal.Ciphertext {
	cts, err := elgamal.SplitCiphertexts(f.group, data)
	require.NoError(t, err)
	return cts
}

func (f *fixture) decrypt(t *testing.T, ct elgamal.Ciphertext) []byte {
	plain, err := f.cipher.Decrypt(ct)
	require.NoError(t, err)
	return plain
}

func (f *fixture) requireEncryptionOf(t *testing.T, ct elgamal.Ciphertext, s string) {
	expected, err := f.group.MapToCurve(s)
	require.NoError(t, err)
	require.Equal(t, expected, f.decrypt(t, ct))
}

func sumRecord(values ...int64) *sketch.Record {
	r := &sketch.Record{Aggregators: []sketch.AggregatorType{sketch.Sum}}
	for i, v := range values {
		r.Registers = append(r.Registers, sketch.RegisterRecord{Index: int64(i), Values: []int64{v}})
	}
	return r
}

func TestNew(t *testing.T) {
	f := newFixture(t)

	_, err := New(ecgroup.CurveID(3), maxCounter, f.pk)
	require.True(t, anysketch.IsInvalidArgument(err))

	_, err = New(ecgroup.P256, maxCounter, elgamal.PublicKey{G: f.pk.G, Y: []byte{1, 2}})
	require.True(t, anysketch.IsInternal(err))

	_, err = New(ecgroup.P256, 0, f.pk)
	require.True(t, anysketch.IsInvalidArgument(err))
}

func TestEncrypt_ByteSize(t *testing.T) {
	f := newFixture(t)
	r := &sketch.Record{Aggregators: []sketch.AggregatorType{sketch.Unique, sketch.Sum, sketch.Sum}}
	for i := 0; i < 10; i++ {
		r.Registers = append(r.Registers, sketch.RegisterRecord{Index: int64(i * 7), Values: []int64{5, int64(i + 1), 150}})
	}
	out, err := f.enc.Encrypt(r, ConflictingKeys)
	require.NoError(t, err)
	require.Len(t, out, 10*4*66)

	words := f.words(t, out)
	f.requireEncryptionOf(t, words[4], "7")
	f.requireEncryptionOf(t, words[5], "5")
}

func TestEncrypt_NonDeterministic(t *testing.T) {
	f := newFixture(t)
	r := sumRecord(3)
	a, err := f.enc.Encrypt(r, ConflictingKeys)
	require.NoError(t, err)
	b, err := f.enc.Encrypt(r, ConflictingKeys)
	require.NoError(t, err)
	require.NotEqual(t, a, b)

	wa, wb := f.words(t, a), f.words(t, b)
	for i := range wa {
		require.Equal(t, f.decrypt(t, wa[i]), f.decrypt(t, wb[i]))
	}
}

func TestEncrypt_AdditiveHomomorphism(t *testing.T) {
	f := newFixture(t)
	out, err := f.enc.Encrypt(sumRecord(1, 2, 3, 4, 5), ConflictingKeys)
	require.NoError(t, err)
	words := f.words(t, out)
	require.Len(t, words, 10)

	pair := func(i int) elgamal.PointPair {
		p, err := elgamal.ToPointPair(f.group, words[2*i+1])
		require.NoError(t, err)
		return p
	}
	five, err := f.cipher.DecryptPoint(pair(4))
	require.NoError(t, err)
	for _, sum := range []elgamal.PointPair{pair(0).Add(pair(3)), pair(1).Add(pair(2))} {
		m, err := f.cipher.DecryptPoint(sum)
		require.NoError(t, err)
		require.True(t, m.Equal(five))
	}
}

func TestEncrypt_MaximumCounter(t *testing.T) {
	f := newFixture(t)
	out, err := f.enc.Encrypt(sumRecord(maxCounter+10, maxCounter+1, maxCounter), ConflictingKeys)
	require.NoError(t, err)
	words := f.words(t, out)
	require.Equal(t, f.decrypt(t, words[1]), f.decrypt(t, words[3]))
	require.Equal(t, f.decrypt(t, words[1]), f.decrypt(t, words[5]))

	out, err = f.enc.Encrypt(sumRecord(maxCounter-1), ConflictingKeys)
	require.NoError(t, err)
	require.NotEqual(t, f.decrypt(t, words[1]), f.decrypt(t, f.words(t, out)[1]))
}

func TestEncrypt_ZeroCountShouldFail(t *testing.T) {
	f := newFixture(t)
	_, err := f.enc.Encrypt(sumRecord(0), ConflictingKeys)
	require.Error(t, err)
	require.True(t, anysketch.IsInvalidArgument(err))
	require.Contains(t, err.Error(), "should be positive")
}

func TestEncrypt_ShapeMismatch(t *testing.T) {
	f := newFixture(t)
	r := sumRecord(1)
	r.Registers[0].Values = []int64{1, 2}
	_, err := f.enc.Encrypt(r, ConflictingKeys)
	require.True(t, anysketch.IsInternal(err))

	_, err = f.enc.Encrypt(sumRecord(1), Strategy(5))
	require.True(t, anysketch.IsInvalidArgument(err))

	r = sumRecord(1)
	r.Aggregators[0] = sketch.AggregatorType(9)
	_, err = f.enc.Encrypt(r, FlaggedKey)
	require.True(t, anysketch.IsInvalidArgument(err))
}

func destroyedRecord() *sketch.Record {
	return &sketch.Record{
		Aggregators: []sketch.AggregatorType{sketch.Unique, sketch.Sum},
		Registers:   []sketch.RegisterRecord{{Index: 123, Values: []int64{-1, 10}}},
	}
}

func TestEncrypt_ConflictingKeys(t *testing.T) {
	f := newFixture(t)
	out, err := f.enc.Encrypt(destroyedRecord(), ConflictingKeys)
	require.NoError(t, err)
	words := f.words(t, out)
	require.Len(t, words, 6)

	require.Equal(t, f.decrypt(t, words[0]), f.decrypt(t, words[3]))
	require.NotEqual(t, f.decrypt(t, words[1]), f.decrypt(t, words[4]))
	f.requireEncryptionOf(t, words[0], "123")
	f.requireEncryptionOf(t, words[1], UnitPointSeed)
}

func TestEncrypt_FlaggedKey(t *testing.T) {
	f := newFixture(t)
	for _, unique := range []int64{-1, 0} {
		r := destroyedRecord()
		r.Registers[0].Values[0] = unique
		out, err := f.enc.Encrypt(r, FlaggedKey)
		require.NoError(t, err)
		words := f.words(t, out)
		require.Len(t, words, 3)

		f.requireEncryptionOf(t, words[0], "123")
		f.requireEncryptionOf(t, words[1], DestroyedRegisterMarker)
		f.requireEncryptionOf(t, words[2], DestroyedRegisterMarker)
	}
}

func TestAppendNoiseRegisters(t *testing.T) {
	f := newFixture(t)
	const values = 5
	params := NoiseParameters{Epsilon: 1, Delta: 0.1, PublisherCount: 3}

	total := 0
	for attempt := 0; attempt < 3; attempt++ {
		prefix := []byte("existing")
		out, err := f.enc.AppendNoiseRegisters(prefix, params, values)
		require.NoError(t, err)
		require.Equal(t, prefix, out[:len(prefix)])

		words := f.words(t, out[len(prefix):])
		require.Equal(t, 0, len(words)%(values+1))
		for i := 0; i < len(words); i += values + 1 {
			f.requireEncryptionOf(t, words[i], NoiseRegisterMarker)
		}
		total += len(words) / (values + 1)
	}
	require.True(t, total > 0)

	_, err := f.enc.AppendNoiseRegisters(nil, NoiseParameters{Epsilon: 1, Delta: 0.1}, values)
	require.True(t, anysketch.IsInvalidArgument(err))
}

func TestEncrypt_Concurrent(t *testing.T) {
	f := newFixture(t)
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.enc.Encrypt(sumRecord(int64(i+1), int64(2*i+1)), ConflictingKeys)
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}

func TestEncryptSketchAdapter(t *testing.T) {
	f := newFixture(t)
	req := EncryptSketchRequest{
		CurveID:                   int32(ecgroup.P256),
		MaximumValue:              maxCounter,
		ElGamalKeys:               ElGamalKeys{G: f.pk.G, Y: f.pk.Y},
		Sketch:                    NewPlainSketch(destroyedRecord()),
		DestroyedRegisterStrategy: int32(FlaggedKey),
	}
	buf, err := protobuf.Encode(&req)
	require.NoError(t, err)

	out, err := EncryptSketch(buf)
	require.NoError(t, err)
	var resp EncryptSketchResponse
	require.NoError(t, protobuf.Decode(out, &resp))
	words := f.words(t, resp.EncryptedSketch)
	require.Len(t, words, 3)
	f.requireEncryptionOf(t, words[1], DestroyedRegisterMarker)

	req.NoiseParameter = &NoiseParameters{Epsilon: 1, Delta: 0.1, PublisherCount: 1}
	buf, err = protobuf.Encode(&req)
	require.NoError(t, err)
	out, err = EncryptSketch(buf)
	require.NoError(t, err)
	require.NoError(t, protobuf.Decode(out, &resp))
	require.Equal(t, 0, len(f.words(t, resp.EncryptedSketch))%3)

	_, err = EncryptSketch([]byte{0xff, 0xff, 0xff})
	require.True(t, anysketch.IsInvalidArgument(err))
}

func TestCombineElGamalPublicKeysAdapter(t *testing.T) {
	f := newFixture(t)
	other, err := elgamal.NewKeyPair(f.group).PublicKey()
	require.NoError(t, err)

	req := CombineElGamalPublicKeysRequest{
		CurveID:     int32(ecgroup.P256),
		ElGamalKeys: []ElGamalKeys{{G: f.pk.G, Y: f.pk.Y}, {G: other.G, Y: other.Y}},
	}
	buf, err := protobuf.Encode(&req)
	require.NoError(t, err)
	out, err := CombineElGamalPublicKeys(buf)
	require.NoError(t, err)

	var resp CombineElGamalPublicKeysResponse
	require.NoError(t, protobuf.Decode(out, &resp))
	expected, err := elgamal.CombinePublicKeys(ecgroup.P256, []elgamal.PublicKey{f.pk, other})
	require.NoError(t, err)
	require.Equal(t, expected.Y, resp.ElGamalKeys.Y)

	req.ElGamalKeys = nil
	buf, err = protobuf.Encode(&req)
	require.NoError(t, err)
	_, err = CombineElGamalPublicKeys(buf)
	require.Error(t, err)
	require.Contains(t, err.Error(), "empty")
}

func TestPointCache(t *testing.T) {
	f := newFixture(t)
	for n := uint64(1); n <= 5; n++ {
		p, err := f.enc.pointForInteger(n)
		require.NoError(t, err)
		expected, err := f.group.Encode(f.group.Point().Mul(f.group.Scalar().SetInt64(int64(n)),
			f.group.HashToCurve(UnitPointSeed)))
		require.NoError(t, err)
		require.Equal(t, expected, p, strconv.FormatUint(n, 10))
	}
	require.Len(t, f.enc.points, 5)
	_, err := f.enc.integerPoint(0)
	require.True(t, anysketch.IsInternal(err))
}
