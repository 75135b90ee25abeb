package fingerprint

import (
	"crypto/sha256"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/anysketch"
	"go.dedis.ch/onet/v3/log"
)

func TestMain(m *testing.M) {
	log.MainTest(m)
}

func TestSha256(t *testing.T) {
	digest := sha256.Sum256([]byte("an item"))
	require.Equal(t, binary.LittleEndian.Uint64(digest[:8]),
		Sha256{}.Fingerprint([]byte("an item")))
	require.NotEqual(t, Sha256{}.Fingerprint([]byte("a")),
		Sha256{}.Fingerprint([]byte("b")))
}

func TestDeterministic(t *testing.T) {
	for _, name := range []string{"", "farm", "sha256", "blake3", "sha3"} {
		fp, err := ByName(name)
		require.NoError(t, err)
		require.Equal(t, fp.Fingerprint([]byte("x")), fp.Fingerprint([]byte("x")), name)
		require.NotEqual(t, fp.Fingerprint([]byte("x")), fp.Fingerprint([]byte("y")), name)
	}

	_, err := ByName("md5")
	require.Error(t, err)
	require.True(t, anysketch.IsInvalidArgument(err))
}

func TestSalted(t *testing.T) {
	var seen []byte
	base := Func(func(item []byte) uint64 {
		seen = item
		return uint64(len(item))
	})

	s := NewSalted("frequency", base)
	require.Equal(t, uint64(len("AnySketchFingerprint:abc:frequency")),
		s.Fingerprint([]byte("abc")))
	require.Equal(t, "AnySketchFingerprint:abc:frequency", string(seen))

	other := NewSalted("index", Farm{})
	same := NewSalted("frequency", Farm{})
	require.NotEqual(t, other.Fingerprint([]byte("abc")), same.Fingerprint([]byte("abc")))
}
