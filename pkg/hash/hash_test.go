package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashEmptyMatchesKnownVector(t *testing.T) {
	d := Hash(nil)
	require.Equal(t, "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262", d.String())
}

func TestHashDeterministic(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")
	require.Equal(t, Hash(data), Hash(data))
}

func TestHashHexRoundTrip(t *testing.T) {
	d := Hash([]byte("round trip me"))
	hexForm := FormatHex(d)
	parsed, err := ParseHex(hexForm[:])
	require.NoError(t, err)
	require.Equal(t, d, parsed)
}

func TestHashBlobDiffersFromHash(t *testing.T) {
	data := []byte("blob content")
	require.NotEqual(t, Hash(data), HashBlob(data))
}

func TestParseHexRejectsWrongLength(t *testing.T) {
	_, err := ParseHexString("deadbeef")
	require.Error(t, err)
}

func TestParseHexRejectsNonHex(t *testing.T) {
	bad := make([]byte, HexSize)
	for i := range bad {
		bad[i] = 'Z'
	}
	_, err := ParseHex(bad)
	require.Error(t, err)
}

func TestParseHexAcceptsMixedCase(t *testing.T) {
	d := Hash([]byte("mixed case"))
	hexForm := FormatHex(d)
	mixed := make([]byte, len(hexForm))
	for i, c := range hexForm {
		if i%2 == 0 && c >= 'a' && c <= 'f' {
			mixed[i] = c - 32
		} else {
			mixed[i] = c
		}
	}
	parsed, err := ParseHex(mixed)
	require.NoError(t, err)
	require.Equal(t, d, parsed)
}
