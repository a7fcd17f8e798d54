// Package grpcwire implements gRPC's length-prefixed message framing and
// the HTTP/2 header set a unary request must carry, independent of any
// particular transport.
package grpcwire

import (
	"encoding/binary"
	"fmt"

	"github.com/pepicrft/micelio/hiferrors"
)

// HeaderSize is the length of the gRPC frame prefix: 1 compression-flag
// byte plus a 4-byte big-endian length.
const HeaderSize = 5

// EncodeMessage builds a gRPC frame from an unary message: a zero
// compression flag, the big-endian length, then the payload.
func EncodeMessage(payload []byte) []byte {
	out := make([]byte, HeaderSize+len(payload))
	out[0] = 0
	binary.BigEndian.PutUint32(out[1:5], uint32(len(payload)))
	copy(out[5:], payload)
	return out
}

// DecodeMessage reads one gRPC frame from data and returns the inner
// payload. It fails with Truncated if data is shorter than the frame the
// header declares.
func DecodeMessage(data []byte) ([]byte, error) {
	if len(data) < HeaderSize {
		return nil, hiferrors.New(hiferrors.Truncated, "grpcwire: frame shorter than header")
	}
	msgLen := binary.BigEndian.Uint32(data[1:5])
	total := HeaderSize + int(msgLen)
	if len(data) < total {
		return nil, hiferrors.New(hiferrors.Truncated, "grpcwire: frame shorter than declared length")
	}
	payload := make([]byte, msgLen)
	copy(payload, data[HeaderSize:total])
	return payload, nil
}

// RequestHeaders is the ordered set of HTTP/2 headers a unary gRPC request
// carries: pseudo-headers first, then regular headers, matching
// §4.D of the wire contract exactly (no content-length is ever emitted).
type RequestHeaders struct {
	Method    string // fully-qualified method URI, e.g. "/pkg.Svc/Method"
	Authority string
	Scheme    string // "http" or "https"
	AuthToken string // optional; empty means no authorization header
}

// Name/Value pairs, in the order the wire requires them.
type HeaderField struct {
	Name  string
	Value string
}

// Build returns the ordered header fields for req.
func (req RequestHeaders) Build() []HeaderField {
	fields := []HeaderField{
		{":method", "POST"},
		{":scheme", req.Scheme},
		{":path", req.Method},
		{":authority", req.Authority},
		{"content-type", "application/grpc"},
		{"te", "trailers"},
	}
	if req.AuthToken != "" {
		fields = append(fields, HeaderField{"authorization", "Bearer " + req.AuthToken})
	}
	return fields
}

// ParseStatus extracts grpc-status (required) and grpc-message (optional)
// from the decoded trailer fields.
func ParseStatus(trailers map[string]string) (code int32, message string, err error) {
	raw, ok := trailers["grpc-status"]
	if !ok {
		return 0, "", hiferrors.New(hiferrors.HTTP2Error, "grpcwire: missing grpc-status trailer")
	}
	var parsed int
	if _, scanErr := fmt.Sscanf(raw, "%d", &parsed); scanErr != nil {
		return 0, "", hiferrors.Wrap(hiferrors.HTTP2Error, scanErr, "grpcwire: malformed grpc-status")
	}
	return int32(parsed), trailers["grpc-message"], nil
}
