package h2client

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pepicrft/micelio/internal/h2test"
	"github.com/pepicrft/micelio/pkg/grpcwire"
)

func TestCallEchoesPayload(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go h2test.Serve(ln, h2test.Echo, 0, "")

	conn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	headers := grpcwire.RequestHeaders{
		Method:    "/echo.Echo/Unary",
		Authority: ln.Addr().String(),
		Scheme:    "http",
	}.Build()

	payload := []byte{0x01, 0x02}
	resp, err := Call(conn, headers, grpcwire.EncodeMessage(payload))
	require.NoError(t, err)
	require.Equal(t, int32(0), resp.GrpcStatus)

	decoded, err := grpcwire.DecodeMessage(resp.Framed)
	require.NoError(t, err)
	require.Equal(t, payload, decoded)
}

func TestCallPropagatesGrpcStatus(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go h2test.Serve(ln, h2test.StatusError, 5, "not found")

	conn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	headers := grpcwire.RequestHeaders{
		Method:    "/echo.Echo/Unary",
		Authority: ln.Addr().String(),
		Scheme:    "http",
	}.Build()

	resp, err := Call(conn, headers, grpcwire.EncodeMessage([]byte("req")))
	require.NoError(t, err)
	require.Equal(t, int32(5), resp.GrpcStatus)
	require.Equal(t, "not found", resp.GrpcMessage)
}
