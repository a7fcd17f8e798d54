// Package hash provides the content-addressing digest used throughout hif:
// Blake3 over raw bytes, a typed blob-hashing variant, and a hex codec.
package hash

import (
	"encoding/hex"
	"strconv"

	"lukechampine.com/blake3"

	"github.com/pepicrft/micelio/hiferrors"
)

// Size is the digest length in bytes (256 bits).
const Size = 32

// HexSize is the length of the hex-encoded form.
const HexSize = Size * 2

// Digest is an opaque 32-byte content hash.
type Digest [Size]byte

// Hash returns the Blake3 digest of data.
func Hash(data []byte) Digest {
	return Digest(blake3.Sum256(data))
}

// HashBlob returns the Blake3 digest of content, prefixed the way hif tags
// blobs on disk: "blob" || length_decimal || NUL || content. This makes
// HashBlob(x) differ from Hash(x) for every x, including the empty blob.
func HashBlob(content []byte) Digest {
	prefix := make([]byte, 0, len("blob")+20+1)
	prefix = append(prefix, "blob"...)
	prefix = strconv.AppendInt(prefix, int64(len(content)), 10)
	prefix = append(prefix, 0)

	h := blake3.New(Size, nil)
	_, _ = h.Write(prefix)
	_, _ = h.Write(content)

	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// FormatHex renders d as 64 lowercase hex characters.
func FormatHex(d Digest) [HexSize]byte {
	var out [HexSize]byte
	hex.Encode(out[:], d[:])
	return out
}

// String implements fmt.Stringer as the lowercase hex form.
func (d Digest) String() string {
	b := FormatHex(d)
	return string(b[:])
}

// ParseHex parses exactly 64 case-insensitive hex characters into a Digest.
func ParseHex(s []byte) (Digest, error) {
	var out Digest
	if len(s) != HexSize {
		return out, hiferrors.New(hiferrors.InvalidArgument, "invalid hex: expected 64 characters")
	}
	n, err := hex.Decode(out[:], s)
	if err != nil || n != Size {
		return Digest{}, hiferrors.Wrap(hiferrors.InvalidArgument, err, "invalid hex: non-hex byte")
	}
	return out, nil
}

// ParseHexString is a convenience wrapper over ParseHex for string input.
func ParseHexString(s string) (Digest, error) {
	return ParseHex([]byte(s))
}
