package anysketch

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"
)

var errExample = xerrors.New("example")

func makeError() error {
	return xerrors.Errorf("oops: %w", errExample)
}

func makeInvalid() error {
	return InvalidArgument("value %d should be positive", -3)
}

// Test that the basic function create an error when the parameter
// is not nil, and returns nil otherwise.
func TestError_ErrorOrNil(t *testing.T) {
	err := ErrorOrNil(makeError(), "test")

	require.Equal(t, "test: oops: example", err.Error())
	require.Nil(t, ErrorOrNil(nil, ""))
	require.Equal(t, KindUnknown, KindOf(err))
}

// Test that the skip option is correctly used to prevent a call
// to be included in the stack trace.
func TestError_ErrorOrNilSkip(t *testing.T) {
	err := ErrorOrNilSkip(makeError(), "test", 2)

	require.NotContains(t, fmt.Sprintf("%+v", err), t.Name())
	require.Contains(t, fmt.Sprintf("%+v", err), ".makeError")
}

func TestError_Kinds(t *testing.T) {
	err := makeInvalid()
	require.Equal(t, "value -3 should be positive", err.Error())
	require.True(t, IsInvalidArgument(err))
	require.False(t, IsInternal(err))
	require.Contains(t, fmt.Sprintf("%+v", err), ".makeInvalid")

	err = Internal("decoding failed")
	require.True(t, IsInternal(err))
	require.Equal(t, "internal", KindOf(err).String())
}

// Wrapping keeps the kind of an already classified error.
func TestError_WrapKeepsKind(t *testing.T) {
	err := WrapInternal(makeInvalid(), "encrypt")
	require.Equal(t, "encrypt: value -3 should be positive", err.Error())
	require.True(t, IsInvalidArgument(err))

	err = WrapInternal(makeError(), "encrypt")
	require.True(t, IsInternal(err))
	require.True(t, xerrors.Is(err, errExample))

	err = WrapInvalidArgument(makeError(), "parse")
	require.True(t, IsInvalidArgument(err))
	require.Nil(t, WrapInternal(nil, "nothing"))

	err = ErrorOrNil(xerrors.Errorf("outer: %w", makeInvalid()), "call")
	require.True(t, IsInvalidArgument(err))
}
