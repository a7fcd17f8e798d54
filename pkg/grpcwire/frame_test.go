package grpcwire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	payload := []byte{0x01, 0x02, 0x03}
	frame := EncodeMessage(payload)
	require.Equal(t, byte(0), frame[0])

	decoded, err := DecodeMessage(frame)
	require.NoError(t, err)
	require.Equal(t, payload, decoded)
}

func TestDecodeMessageTruncatedHeader(t *testing.T) {
	_, err := DecodeMessage([]byte{0, 0, 0})
	require.Error(t, err)
}

func TestDecodeMessageTruncatedPayload(t *testing.T) {
	frame := EncodeMessage([]byte("hello"))
	_, err := DecodeMessage(frame[:len(frame)-1])
	require.Error(t, err)
}

func TestRequestHeadersOrderAndContent(t *testing.T) {
	req := RequestHeaders{
		Method:    "/echo.Echo/Unary",
		Authority: "localhost:50051",
		Scheme:    "https",
		AuthToken: "tok123",
	}
	fields := req.Build()
	want := []HeaderField{
		{":method", "POST"},
		{":scheme", "https"},
		{":path", "/echo.Echo/Unary"},
		{":authority", "localhost:50051"},
		{"content-type", "application/grpc"},
		{"te", "trailers"},
		{"authorization", "Bearer tok123"},
	}
	require.Equal(t, want, fields)
}

func TestRequestHeadersOmitAuthorizationWhenEmpty(t *testing.T) {
	req := RequestHeaders{Method: "/a/b", Authority: "h", Scheme: "http"}
	fields := req.Build()
	for _, f := range fields {
		require.NotEqual(t, "authorization", f.Name)
	}
}

func TestParseStatusSuccess(t *testing.T) {
	code, msg, err := ParseStatus(map[string]string{"grpc-status": "0"})
	require.NoError(t, err)
	require.Equal(t, int32(0), code)
	require.Empty(t, msg)
}

func TestParseStatusWithMessage(t *testing.T) {
	code, msg, err := ParseStatus(map[string]string{
		"grpc-status":  "5",
		"grpc-message": "not found",
	})
	require.NoError(t, err)
	require.Equal(t, int32(5), code)
	require.Equal(t, "not found", msg)
}

func TestParseStatusMissing(t *testing.T) {
	_, _, err := ParseStatus(map[string]string{})
	require.Error(t, err)
}
