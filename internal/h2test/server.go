// Package h2test provides a minimal, single-stream HTTP/2+gRPC fake
// server for exercising pkg/h2client and pkg/grpcclient without a real
// gRPC stack, in the style of the teacher's grpcparser fake transcoder:
// it hand-writes HEADERS/DATA/trailer frames with the raw x/net/http2
// framer and hpack encoder/decoder.
package h2test

import (
	"bytes"
	"io"
	"net"
	"strconv"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/hpack"

	"github.com/pepicrft/micelio/pkg/grpcwire"
)

const clientPreface = "PRI * HTTP/2.0\r\n\r\nSM\r\n\r\n"

// Behavior selects how the fake server responds to the first request it
// receives on a connection.
type Behavior int

const (
	// Echo replies with the request payload as the response payload and
	// grpc-status: 0.
	Echo Behavior = iota
	// StatusError replies with an empty payload and the given grpc-status
	// plus grpc-message.
	StatusError
	// Hang accepts the stream and never responds, to exercise the
	// hard-deadline timeout.
	Hang
)

// Serve accepts exactly one connection on ln and drives it according to
// behavior, then returns. It blocks until the connection is handled or
// closed, except with Hang, where it never returns once the request has
// been read; callers should run it in a goroutine.
func Serve(ln net.Listener, behavior Behavior, statusCode int32, statusMessage string) {
	conn, err := ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	preface := make([]byte, len(clientPreface))
	if _, err := io.ReadFull(conn, preface); err != nil {
		return
	}

	framer := http2.NewFramer(conn, conn)
	decoder := hpack.NewDecoder(4096, nil)

	var requestPayload []byte
	var streamID uint32

	for {
		frame, err := framer.ReadFrame()
		if err != nil {
			return
		}

		switch f := frame.(type) {
		case *http2.SettingsFrame:
			if !f.IsAck() {
				_ = framer.WriteSettings()
			}
		case *http2.HeadersFrame:
			streamID = f.StreamID
			_, _ = decoder.DecodeFull(f.HeaderBlockFragment())
		case *http2.DataFrame:
			requestPayload = append(requestPayload, f.Data()...)
			if f.StreamEnded() {
				if behavior == Hang {
					// Never respond; let the caller's deadline fire.
					select {}
				}
				respond(framer, streamID, behavior, requestPayload, statusCode, statusMessage)
				return
			}
		}
	}
}

func respond(framer *http2.Framer, streamID uint32, behavior Behavior, requestPayload []byte, statusCode int32, statusMessage string) {
	payload, code, message := requestPayload, int32(0), ""
	if behavior == StatusError {
		payload, code, message = nil, statusCode, statusMessage
	}

	framedResponse := grpcwire.EncodeMessage(payload)

	var headerBuf bytes.Buffer
	enc := hpack.NewEncoder(&headerBuf)
	_ = enc.WriteField(hpack.HeaderField{Name: ":status", Value: "200"})
	_ = enc.WriteField(hpack.HeaderField{Name: "content-type", Value: "application/grpc"})
	_ = framer.WriteHeaders(http2.HeadersFrameParam{
		StreamID:      streamID,
		BlockFragment: headerBuf.Bytes(),
		EndHeaders:    true,
		EndStream:     false,
	})

	_ = framer.WriteData(streamID, false, framedResponse)

	var trailerBuf bytes.Buffer
	tenc := hpack.NewEncoder(&trailerBuf)
	_ = tenc.WriteField(hpack.HeaderField{Name: "grpc-status", Value: strconv.Itoa(int(code))})
	if message != "" {
		_ = tenc.WriteField(hpack.HeaderField{Name: "grpc-message", Value: message})
	}
	_ = framer.WriteHeaders(http2.HeadersFrameParam{
		StreamID:      streamID,
		BlockFragment: trailerBuf.Bytes(),
		EndHeaders:    true,
		EndStream:     true,
	})
}
