// Package bloom implements an immutable-shape Bloom filter used for
// approximate membership and conflict detection: construction from an
// expected item count and false-positive rate, insertion, membership
// tests, union/merge, intersection, count estimation, and a stable
// little-endian serialization.
package bloom

import (
	"encoding/binary"
	"math"
	"math/bits"

	"lukechampine.com/blake3"

	"github.com/pepicrft/micelio/hiferrors"
	"github.com/pepicrft/micelio/pkg/hash"
)

// magic identifies the serialized wire form.
var magic = [4]byte{'H', 'B', 'F', '1'}

// Bloom is an immutable-shape (m, k) Bloom filter. Callers must serialize
// access externally; it is not safe for concurrent mutation.
type Bloom struct {
	m    uint32 // number of bits
	k    uint32 // number of hash functions
	bits []byte // ceil(m/8) bytes, LSB-first within each byte
}

// New constructs a Bloom filter sized for expectedItems elements at the
// given target false-positive rate.
func New(expectedItems int, fpRate float64) (*Bloom, error) {
	if expectedItems <= 0 {
		return nil, hiferrors.New(hiferrors.InvalidArgument, "bloom: expected_items must be > 0")
	}
	if fpRate <= 0 || fpRate >= 1 {
		return nil, hiferrors.New(hiferrors.InvalidArgument, "bloom: fp_rate must be in (0,1)")
	}

	n := float64(expectedItems)
	m := uint64(math.Ceil(-n * math.Log(fpRate) / (math.Ln2 * math.Ln2)))
	if rem := m % 64; rem != 0 {
		m += 64 - rem
	}
	if m == 0 {
		m = 64
	}

	k := uint32(math.Round((float64(m) / n) * math.Ln2))
	if k < 1 {
		k = 1
	}

	return &Bloom{
		m:    uint32(m),
		k:    k,
		bits: make([]byte, (m+7)/8),
	}, nil
}

// probeHashes derives the two independent 64-bit hash values used to
// generate k bit positions via h1 + i*h2.
func probeHashes(data []byte) (h1, h2 uint64) {
	sum := blake3.Sum256(data)
	h1 = binary.LittleEndian.Uint64(sum[0:8])
	h2 = binary.LittleEndian.Uint64(sum[8:16])
	if h2 == 0 {
		h2 = 1
	}
	return h1, h2
}

func (b *Bloom) positions(data []byte) []uint32 {
	h1, h2 := probeHashes(data)
	out := make([]uint32, b.k)
	for i := uint32(0); i < b.k; i++ {
		out[i] = uint32((h1 + uint64(i)*h2) % uint64(b.m))
	}
	return out
}

func (b *Bloom) setBit(pos uint32) {
	b.bits[pos/8] |= 1 << (pos % 8)
}

func (b *Bloom) testBit(pos uint32) bool {
	return b.bits[pos/8]&(1<<(pos%8)) != 0
}

// AddPath inserts the bytes of a path (or any raw key) into the filter.
func (b *Bloom) AddPath(path []byte) {
	for _, pos := range b.positions(path) {
		b.setBit(pos)
	}
}

// AddHash inserts a content Digest, treating its bytes as the hash input.
func (b *Bloom) AddHash(d hash.Digest) {
	b.AddPath(d[:])
}

// MayContain reports whether path might have been inserted. False
// positives are possible; false negatives are not.
func (b *Bloom) MayContain(path []byte) bool {
	for _, pos := range b.positions(path) {
		if !b.testBit(pos) {
			return false
		}
	}
	return true
}

// Intersects reports whether a and b might share an inserted element: true
// iff some bit index is set in both bit arrays. Requires matching (m, k).
func (b *Bloom) Intersects(other *Bloom) (bool, error) {
	if b.m != other.m || b.k != other.k {
		return false, hiferrors.New(hiferrors.Incompatible, "bloom: intersects requires matching (m,k)")
	}
	for i := range b.bits {
		if b.bits[i]&other.bits[i] != 0 {
			return true, nil
		}
	}
	return false, nil
}

// Merge bitwise-ORs other's bits into b (set union). Requires matching
// (m, k); otherwise returns Incompatible and leaves b unmodified.
func (b *Bloom) Merge(other *Bloom) error {
	if b.m != other.m || b.k != other.k {
		return hiferrors.New(hiferrors.Incompatible, "bloom: merge requires matching (m,k)")
	}
	for i := range b.bits {
		b.bits[i] |= other.bits[i]
	}
	return nil
}

// EstimateCount approximates the number of distinct elements inserted so
// far from the filter's fill ratio.
func (b *Bloom) EstimateCount() int {
	set := 0
	for _, byt := range b.bits {
		set += bits.OnesCount8(byt)
	}
	if set == 0 {
		return 0
	}
	if set >= int(b.m) {
		// Fully saturated; log(0) is undefined, so report the bit-array size
		// as the practical ceiling.
		return int(b.m)
	}
	ratio := float64(set) / float64(b.m)
	estimate := -(float64(b.m) / float64(b.k)) * math.Log(1-ratio)
	return int(math.Round(estimate))
}

// Serialize renders the filter into its stable wire form: magic "HBF1",
// little-endian uint32 m, little-endian uint32 k, then ceil(m/8) bytes of
// bits (LSB-first within each byte).
func (b *Bloom) Serialize() []byte {
	out := make([]byte, 4+4+4+len(b.bits))
	copy(out[0:4], magic[:])
	binary.LittleEndian.PutUint32(out[4:8], b.m)
	binary.LittleEndian.PutUint32(out[8:12], b.k)
	copy(out[12:], b.bits)
	return out
}

// Deserialize parses a filter previously produced by Serialize.
func Deserialize(data []byte) (*Bloom, error) {
	if len(data) < 12 || string(data[0:4]) != string(magic[:]) {
		return nil, hiferrors.New(hiferrors.CorruptFilter, "bloom: bad magic")
	}
	m := binary.LittleEndian.Uint32(data[4:8])
	k := binary.LittleEndian.Uint32(data[8:12])
	if m == 0 || k == 0 {
		return nil, hiferrors.New(hiferrors.CorruptFilter, "bloom: invalid (m,k)")
	}
	want := int((m + 7) / 8)
	rest := data[12:]
	if len(rest) != want {
		return nil, hiferrors.New(hiferrors.CorruptFilter, "bloom: bit-array length mismatch")
	}
	bitsCopy := make([]byte, want)
	copy(bitsCopy, rest)
	return &Bloom{m: m, k: k, bits: bitsCopy}, nil
}
