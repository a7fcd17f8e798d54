// Package transport owns TCP connection setup and the client-side TLS
// handshake (ALPN "h2", SNI, peer verification) that sits beneath the
// HTTP/2 session. It holds no gRPC or HTTP/2 knowledge.
package transport

import (
	"context"
	"crypto/tls"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/pepicrft/micelio/hiferrors"
)

// SocketTimeout bounds each individual socket read/write so a stalled peer
// yields control back to the session's deadline logic rather than
// blocking forever.
const SocketTimeout = 1 * time.Second

// ParseTarget splits "host:port" using rightmost-colon semantics (does not
// handle bracketed IPv6 literals — see Open Questions). If no port is
// present, defaultPort is used.
func ParseTarget(target string, useTLS bool) (host string, port int, err error) {
	idx := strings.LastIndex(target, ":")
	if idx < 0 {
		return target, defaultPort(useTLS), nil
	}
	host = target[:idx]
	portStr := target[idx+1:]
	p, convErr := strconv.Atoi(portStr)
	if convErr != nil {
		return "", 0, hiferrors.Wrap(hiferrors.InvalidArgument, convErr, "transport: invalid port in target")
	}
	return host, p, nil
}

func defaultPort(useTLS bool) int {
	if useTLS {
		return 443
	}
	return 80
}

// Dial establishes a TCP connection to target, enabling TCP_NODELAY and the
// fixed socket timeouts, then — if useTLS — performs a TLS handshake with
// ALPN restricted to "h2" and SNI set to the dialed hostname. The
// negotiated ALPN protocol must be "h2"; any other outcome is AlpnMismatch.
func Dial(ctx context.Context, target string, useTLS bool) (net.Conn, error) {
	host, port, err := ParseTarget(target, useTLS)
	if err != nil {
		return nil, err
	}

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, hiferrors.Wrap(hiferrors.ConnectFailed, err, "transport: TCP connect failed")
	}

	if tcpConn, ok := conn.(*net.TCPConn); ok {
		_ = tcpConn.SetNoDelay(true)
	}
	SetSocketDeadlines(conn)

	if !useTLS {
		return conn, nil
	}

	tlsConn, err := handshakeTLS(conn, host)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return tlsConn, nil
}

func handshakeTLS(conn net.Conn, host string) (net.Conn, error) {
	cfg := &tls.Config{
		ServerName: host,
		NextProtos: []string{"h2"},
		MinVersion: tls.VersionTLS12,
	}

	tlsConn := tls.Client(conn, cfg)
	if err := tlsConn.Handshake(); err != nil {
		return nil, hiferrors.Wrap(hiferrors.TLSError, err, "transport: TLS handshake failed")
	}

	state := tlsConn.ConnectionState()
	if state.NegotiatedProtocol != "h2" {
		return nil, hiferrors.New(hiferrors.AlpnMismatch, "transport: peer did not negotiate h2")
	}
	return tlsConn, nil
}

// SetSocketDeadlines applies the fixed 1s send/recv timeout to conn ahead
// of the next I/O operation, matching the original C client's per-call
// SO_RCVTIMEO/SO_SNDTIMEO.
func SetSocketDeadlines(conn net.Conn) {
	_ = conn.SetDeadline(time.Now().Add(SocketTimeout))
}
