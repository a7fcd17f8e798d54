// Package h2client implements the single-stream, cooperative HTTP/2
// client session a unary gRPC call runs over: connection preface,
// SETTINGS, one HEADERS+DATA request, and the send/recv loop that drives
// frame I/O until the response is complete or a deadline fires.
package h2client

import (
	"bytes"
	"errors"
	"io"
	"net"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/hpack"

	"github.com/pepicrft/micelio/hiferrors"
	"github.com/pepicrft/micelio/pkg/grpcwire"
)

// clientPreface is the fixed byte sequence every HTTP/2 client connection
// must send before anything else.
const clientPreface = "PRI * HTTP/2.0\r\n\r\nSM\r\n\r\n"

const (
	settingsMaxConcurrentStreams = 100
	settingsInitialWindowSize    = 65535

	softDeadline = 3 * time.Second
	hardDeadline = 10 * time.Second
)

// Response is the outcome of a completed unary call: the raw gRPC-framed
// response bytes plus the grpc-status/grpc-message trailer.
type Response struct {
	Framed      []byte
	GrpcStatus  int32
	GrpcMessage string
}

// streamState tracks the receive buffer and completion flags for the
// single request stream a call opens, mirroring the ephemeral connection
// state in the original C client (response_data/len/capacity/expected,
// response_complete, grpc_status).
type streamState struct {
	recvBuf        []byte
	expectedTotal  int // 0 until the first 5 bytes of the framed response arrive
	responseDone   bool
	grpcStatus     int32
	grpcMessage    string
	gotGrpcStatus  bool
	trailerHeaders map[string]string
}

func newStreamState() *streamState {
	return &streamState{grpcStatus: -1, trailerHeaders: map[string]string{}}
}

func (s *streamState) appendData(data []byte) {
	s.recvBuf = append(s.recvBuf, data...)
	if s.expectedTotal == 0 && len(s.recvBuf) >= grpcwire.HeaderSize {
		msgLen := int(s.recvBuf[1])<<24 | int(s.recvBuf[2])<<16 | int(s.recvBuf[3])<<8 | int(s.recvBuf[4])
		s.expectedTotal = grpcwire.HeaderSize + msgLen
	}
}

// messageComplete reports whether the whole framed response message is
// buffered. The grpc-status trailer usually follows in its own HEADERS
// frame, so a complete message alone does not end the read loop.
func (s *streamState) messageComplete() bool {
	return s.expectedTotal > 0 && len(s.recvBuf) >= s.expectedTotal
}

// Call runs one unary request over a fresh HTTP/2 session on conn: it
// writes the preface, a SETTINGS frame, one HEADERS+DATA request, then
// loops reading frames until the response is complete or a deadline
// fires. conn is never closed here — the caller owns its lifecycle.
func Call(conn net.Conn, headers []grpcwire.HeaderField, framedRequest []byte) (*Response, error) {
	setIODeadline(conn)
	if _, err := io.WriteString(conn, clientPreface); err != nil {
		return nil, hiferrors.Wrap(hiferrors.HTTP2Error, err, "h2client: failed to write connection preface")
	}

	framer := http2.NewFramer(conn, conn)

	if err := framer.WriteSettings(
		http2.Setting{ID: http2.SettingMaxConcurrentStreams, Val: settingsMaxConcurrentStreams},
		http2.Setting{ID: http2.SettingInitialWindowSize, Val: settingsInitialWindowSize},
	); err != nil {
		return nil, hiferrors.Wrap(hiferrors.HTTP2Error, err, "h2client: failed to write SETTINGS")
	}

	var headerBuf bytes.Buffer
	encoder := hpack.NewEncoder(&headerBuf)
	for _, f := range headers {
		if err := encoder.WriteField(hpack.HeaderField{Name: f.Name, Value: f.Value}); err != nil {
			return nil, hiferrors.Wrap(hiferrors.HTTP2Error, err, "h2client: failed to encode headers")
		}
	}

	const streamID = 1
	if err := framer.WriteHeaders(http2.HeadersFrameParam{
		StreamID:      streamID,
		BlockFragment: headerBuf.Bytes(),
		EndHeaders:    true,
		EndStream:     false,
	}); err != nil {
		return nil, hiferrors.Wrap(hiferrors.HTTP2Error, err, "h2client: failed to write HEADERS")
	}

	if err := framer.WriteData(streamID, true, framedRequest); err != nil {
		return nil, hiferrors.Wrap(hiferrors.HTTP2Error, err, "h2client: failed to write DATA")
	}

	state := newStreamState()
	decoder := hpack.NewDecoder(4096, nil)

	start := time.Now()
	for !state.responseDone {
		setIODeadline(conn)

		frame, err := framer.ReadFrame()
		if err != nil {
			if isTimeoutErr(err) {
				if state.messageComplete() {
					// The whole message is buffered and no trailer arrived
					// within the socket timeout: accept it as complete.
					state.responseDone = true
					break
				}
				if hardOrSoftExpired(start, state) {
					break
				}
				continue
			}
			if errors.Is(err, io.EOF) {
				state.responseDone = true
				break
			}
			return nil, hiferrors.Wrap(hiferrors.HTTP2Error, err, "h2client: frame read failed")
		}

		if frame.Header().StreamID != 0 && frame.Header().StreamID != streamID {
			continue
		}

		switch f := frame.(type) {
		case *http2.SettingsFrame:
			if !f.IsAck() {
				if err := framer.WriteSettingsAck(); err != nil {
					return nil, hiferrors.Wrap(hiferrors.HTTP2Error, err, "h2client: failed to ack SETTINGS")
				}
			}
		case *http2.HeadersFrame:
			fields, decErr := decoder.DecodeFull(f.HeaderBlockFragment())
			if decErr != nil {
				return nil, hiferrors.Wrap(hiferrors.HTTP2Error, decErr, "h2client: failed to decode HEADERS")
			}
			for _, hf := range fields {
				state.trailerHeaders[hf.Name] = hf.Value
			}
			if _, ok := state.trailerHeaders["grpc-status"]; ok {
				code, _, parseErr := grpcwire.ParseStatus(state.trailerHeaders)
				if parseErr == nil {
					state.grpcStatus = code
					state.grpcMessage = state.trailerHeaders["grpc-message"]
					state.gotGrpcStatus = true
				}
			}
			if f.StreamEnded() || state.gotGrpcStatus {
				state.responseDone = true
			}
		case *http2.DataFrame:
			state.appendData(f.Data())
			if f.StreamEnded() {
				state.responseDone = true
			}
		case *http2.RSTStreamFrame, *http2.GoAwayFrame:
			state.responseDone = true
		case *http2.PingFrame:
			if !f.IsAck() {
				_ = framer.WritePing(true, f.Data)
			}
		}

		if hardOrSoftExpired(start, state) {
			break
		}
	}

	if time.Since(start) >= hardDeadline && !state.responseDone {
		return nil, hiferrors.New(hiferrors.Timeout, "h2client: hard deadline exceeded")
	}

	return &Response{
		Framed:      state.recvBuf,
		GrpcStatus:  state.grpcStatus,
		GrpcMessage: state.grpcMessage,
	}, nil
}

// hardOrSoftExpired applies the two-level deadline from §4.E: a hard
// 10s timeout always fails, while a soft 3s timeout accepts whatever has
// been buffered so far, provided some response bytes have already
// arrived.
func hardOrSoftExpired(start time.Time, state *streamState) bool {
	elapsed := time.Since(start)
	if elapsed >= hardDeadline {
		return true
	}
	if elapsed >= softDeadline && len(state.recvBuf) > 0 {
		state.responseDone = true
		return true
	}
	return false
}

// setIODeadline gives the next read, and the writes that follow it, a fresh
// 1s socket timeout.
func setIODeadline(conn net.Conn) {
	_ = conn.SetDeadline(time.Now().Add(1 * time.Second))
}

func isTimeoutErr(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
