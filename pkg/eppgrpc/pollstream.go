package eppgrpc

import (
	"io"

	"google.golang.org/grpc"

	"github.com/eppproxy/eppproxy/internal/facade"
	"github.com/eppproxy/eppproxy/internal/registry"
)

// pollStreamHandler implements PollStream: one inline peek-or-ack exchange
// per received message, for as long as the client keeps the stream open,
// per spec.md §6 / SPEC_FULL.md §7.
func pollStreamHandler(f *facade.Facade) func(srv interface{}, stream grpc.ServerStream) error {
	return func(srv interface{}, stream grpc.ServerStream) error {
		for {
			in := new(PollStreamRequest)
			if err := stream.RecvMsg(in); err != nil {
				if err == io.EOF {
					return nil
				}
				return err
			}

			var req registry.Request
			if in.Ack != "" {
				req = registry.PollAckRequest{MsgID: in.Ack}
			} else {
				req = registry.PollReqRequest{}
			}

			sel := facade.Selector{RegistryID: in.Selector.RegistryID, DomainName: in.Selector.DomainName}
			env, err := f.Call(stream.Context(), sel, req)
			if err != nil {
				return err
			}
			if err := stream.SendMsg(&PollStreamResponse{Envelope: *toWireEnvelope(env)}); err != nil {
				return err
			}
		}
	}
}
