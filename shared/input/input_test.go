package input

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeAllInputs(t *testing.T) {
	for _, in := range []Input{None, Up, Down} {
		enc := Encode(in)
		assert.Len(t, enc, Size)

		got, err := Decode(enc[:])
		require.NoError(t, err)
		assert.Equal(t, in, got)
	}
}

func TestEncodingsAreDistinct(t *testing.T) {
	seen := map[Encoded]Input{}
	for _, in := range []Input{None, Up, Down} {
		enc := Encode(in)
		_, dup := seen[enc]
		assert.False(t, dup, "duplicate encoding for %s", in)
		seen[enc] = in
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"too long", []byte{0, 0}},
		{"unknown value", []byte{3}},
		{"high byte", []byte{0xff}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.data)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDecode))

			var de *DecodeError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, len(tc.data), len(de.Data))
		})
	}
}

func TestBinaryMarshalerRoundTrip(t *testing.T) {
	data, err := Down.MarshalBinary()
	require.NoError(t, err)

	var in Input
	require.NoError(t, in.UnmarshalBinary(data))
	assert.Equal(t, Down, in)

	assert.Error(t, in.UnmarshalBinary([]byte{9}))
	assert.Equal(t, Down, in, "failed decode must not overwrite")
}

func TestCombine(t *testing.T) {
	assert.Equal(t, None, Combine(false, false))
	assert.Equal(t, Up, Combine(true, false))
	assert.Equal(t, Down, Combine(false, true))
	assert.Equal(t, Up, Combine(true, true))
}
