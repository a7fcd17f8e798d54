package transport

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTargetExplicitPort(t *testing.T) {
	host, port, err := ParseTarget("example.com:9000", false)
	require.NoError(t, err)
	require.Equal(t, "example.com", host)
	require.Equal(t, 9000, port)
}

func TestParseTargetDefaultPortTLS(t *testing.T) {
	host, port, err := ParseTarget("example.com", true)
	require.NoError(t, err)
	require.Equal(t, "example.com", host)
	require.Equal(t, 443, port)
}

func TestParseTargetDefaultPortCleartext(t *testing.T) {
	host, port, err := ParseTarget("example.com", false)
	require.NoError(t, err)
	require.Equal(t, "example.com", host)
	require.Equal(t, 80, port)
}

func TestParseTargetRejectsBadPort(t *testing.T) {
	_, _, err := ParseTarget("example.com:notaport", false)
	require.Error(t, err)
}

func TestParseTargetRightmostColon(t *testing.T) {
	// Not a bracketed IPv6 literal (see Open Questions); the rightmost
	// colon is taken as the port separator regardless.
	host, port, err := ParseTarget("::1:9000", false)
	require.NoError(t, err)
	require.Equal(t, "::1", host)
	require.Equal(t, 9000, port)
}
