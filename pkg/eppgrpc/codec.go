// Package eppgrpc is the gRPC front door onto the Service Facade (C9),
// SPEC_FULL.md §7: one unary RPC per spec.md §4.3 operation, plus a
// bidirectional streaming PollStream RPC for inline poll+ack. No protoc
// toolchain is available in this environment, so the ServiceDesc below is
// hand-registered (see DESIGN.md) and every wire message is a plain Go
// struct with json tags, carried by a JSON codec registered through
// google.golang.org/grpc/encoding rather than protocol buffers.
package eppgrpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// jsonCodec implements encoding.Codec. It is registered under the name
// "json" and forced on both client and server (see NewServer/Dial), so no
// protobuf wire format ever appears on this service.
type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error)     { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v interface{}) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                               { return "json" }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
