package eppgrpc

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Dial connects to an eppgrpc server at target, forcing the JSON codec on
// every call. Used by cmd/eppproxyctl.
func Dial(target string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	opts = append(opts,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(jsonCodec{})),
	)
	return grpc.NewClient(target, opts...)
}

// Invoke calls the unary RPC named method (one of commands' method names)
// with selector sel and payload marshalled to JSON, and decodes the
// response envelope.
func Invoke(ctx context.Context, cc *grpc.ClientConn, method string, sel Selector, payload any) (*Envelope, error) {
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	req := &Request{Selector: sel, Payload: raw}
	resp := new(Envelope)
	if err := cc.Invoke(ctx, "/"+ServiceName+"/"+method, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// pollStreamDesc describes PollStream for client-side NewStream calls.
var pollStreamDesc = &grpc.StreamDesc{
	StreamName:    "PollStream",
	ServerStreams: true,
	ClientStreams: true,
}

// OpenPollStream opens a PollStream to cc; callers SendMsg(*PollStreamRequest)
// and RecvMsg(*PollStreamResponse) on the returned ClientStream.
func OpenPollStream(ctx context.Context, cc *grpc.ClientConn) (grpc.ClientStream, error) {
	return cc.NewStream(ctx, pollStreamDesc, "/"+ServiceName+"/PollStream")
}
