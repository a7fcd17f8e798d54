// Package grpcclient composes transport, the HTTP/2 session, and gRPC
// framing into the single public unary-call entry point: dial, handshake,
// send one request, read one response, tear everything down on every exit
// path.
package grpcclient

import (
	"context"

	"github.com/pepicrft/micelio/hiferrors"
	"github.com/pepicrft/micelio/pkg/grpcwire"
	"github.com/pepicrft/micelio/pkg/h2client"
	"github.com/pepicrft/micelio/pkg/transport"
)

// UnaryCall performs a single gRPC unary call against target (host:port),
// presenting authority as the HTTP/2 :authority value, over
// method (e.g. "/pkg.Svc/Method"), with requestBytes as the opaque
// payload. authToken, if non-empty, is sent as "Bearer <token>". Returns
// the inner response payload on grpc-status 0; otherwise an error whose
// message prefers grpc-message, falling back to "gRPC error: status N".
// The TLS SNI value is always the host part of target; authority does not
// change it.
//
// Every resource opened here — socket, TLS session — is released on every
// exit path, success or failure.
func UnaryCall(ctx context.Context, target, authority, method string, requestBytes []byte, authToken string, useTLS bool) ([]byte, error) {
	if target == "" {
		return nil, hiferrors.New(hiferrors.InvalidArgument, "grpcclient: target must not be empty")
	}
	if method == "" {
		return nil, hiferrors.New(hiferrors.InvalidArgument, "grpcclient: method must not be empty")
	}
	if authority == "" {
		authority = target
	}

	conn, err := transport.Dial(ctx, target, useTLS)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	scheme := "http"
	if useTLS {
		scheme = "https"
	}
	headers := grpcwire.RequestHeaders{
		Method:    method,
		Authority: authority,
		Scheme:    scheme,
		AuthToken: authToken,
	}.Build()

	framedRequest := grpcwire.EncodeMessage(requestBytes)

	resp, err := h2client.Call(conn, headers, framedRequest)
	if err != nil {
		return nil, err
	}

	if resp.GrpcStatus != 0 {
		return nil, hiferrors.GrpcStatusError(resp.GrpcStatus, resp.GrpcMessage)
	}

	if len(resp.Framed) == 0 {
		return nil, nil
	}

	payload, err := grpcwire.DecodeMessage(resp.Framed)
	if err != nil {
		return nil, err
	}
	return payload, nil
}
