package grpcclient

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pepicrft/micelio/hiferrors"
	"github.com/pepicrft/micelio/internal/h2test"
)

func TestUnaryCallEchoesRequestOverCleartext(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go h2test.Serve(ln, h2test.Echo, 0, "")

	payload := []byte{0x01, 0x02}
	resp, err := UnaryCall(context.Background(), ln.Addr().String(), "", "/echo.Echo/Unary", payload, "", false)
	require.NoError(t, err)
	require.Equal(t, payload, resp)
}

func TestUnaryCallPropagatesGrpcStatus(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go h2test.Serve(ln, h2test.StatusError, 5, "not found")

	_, err = UnaryCall(context.Background(), ln.Addr().String(), "", "/echo.Echo/Unary", []byte("req"), "", false)
	require.Error(t, err)
	require.True(t, hiferrors.Is(err, hiferrors.GrpcStatus))
	require.Contains(t, err.Error(), "not found")
}

func TestUnaryCallRejectsEmptyTarget(t *testing.T) {
	_, err := UnaryCall(context.Background(), "", "", "/a/b", nil, "", false)
	require.Error(t, err)
	require.True(t, hiferrors.Is(err, hiferrors.InvalidArgument))
}

func TestUnaryCallRejectsEmptyMethod(t *testing.T) {
	_, err := UnaryCall(context.Background(), "localhost:1", "", "", nil, "", false)
	require.Error(t, err)
	require.True(t, hiferrors.Is(err, hiferrors.InvalidArgument))
}

// TestUnaryCallTimesOutOnHangingServer exercises the hard-deadline path: a
// server that accepts the stream but never responds must yield Timeout
// within <=11s (spec testable property #12). Slow by design.
func TestUnaryCallTimesOutOnHangingServer(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping slow hard-deadline test in short mode")
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go h2test.Serve(ln, h2test.Hang, 0, "")

	start := time.Now()
	_, err = UnaryCall(context.Background(), ln.Addr().String(), "", "/echo.Echo/Unary", []byte("req"), "", false)
	elapsed := time.Since(start)

	require.Error(t, err)
	require.True(t, hiferrors.Is(err, hiferrors.Timeout))
	require.LessOrEqual(t, elapsed, 11*time.Second)
}
