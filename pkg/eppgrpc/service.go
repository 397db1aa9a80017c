package eppgrpc

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"google.golang.org/grpc"

	"github.com/eppproxy/eppproxy/internal/facade"
	"github.com/eppproxy/eppproxy/internal/registry"
)

// ServiceName is the gRPC service's fully-qualified name.
const ServiceName = "eppproxy.eppgrpc.EPPService"

// Server is a marker type used only as grpc.ServiceDesc.HandlerType; actual
// dispatch happens through the closures ServiceDesc builds, not through a
// generated interface.
type Server interface{}

// NewServiceDesc builds the hand-registered grpc.ServiceDesc wrapping f: one
// MethodDesc per entry in commands, plus the PollStream bidi stream.
func NewServiceDesc(f *facade.Facade) *grpc.ServiceDesc {
	methods := make([]grpc.MethodDesc, 0, len(commands))
	for _, cmd := range commands {
		cmd := cmd
		methods = append(methods, grpc.MethodDesc{
			MethodName: cmd.method,
			Handler:    unaryHandler(f, cmd),
		})
	}
	return &grpc.ServiceDesc{
		ServiceName: ServiceName,
		HandlerType: (*Server)(nil),
		Methods:     methods,
		Streams: []grpc.StreamDesc{
			{
				StreamName:    "PollStream",
				Handler:       pollStreamHandler(f),
				ServerStreams: true,
				ClientStreams: true,
			},
		},
		Metadata: "eppgrpc",
	}
}

func unaryHandler(f *facade.Facade, cmd commandDesc) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Request)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return callCommand(ctx, f, cmd, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + cmd.method}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return callCommand(ctx, f, cmd, req.(*Request))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func callCommand(ctx context.Context, f *facade.Facade, cmd commandDesc, in *Request) (*Envelope, error) {
	req := cmd.factory()
	if len(in.Payload) > 0 {
		if err := json.Unmarshal(in.Payload, req); err != nil {
			return nil, fmt.Errorf("eppgrpc: decode %s payload: %w", cmd.method, err)
		}
	}
	// Encoders assert the request's value type, so pass the struct the
	// pointer refers to rather than the pointer itself.
	req = reflect.ValueOf(req).Elem().Interface().(registry.Request)
	sel := facade.Selector{RegistryID: in.Selector.RegistryID, DomainName: in.Selector.DomainName}
	env, err := f.Call(ctx, sel, req)
	if err != nil {
		return nil, err
	}
	return toWireEnvelope(env), nil
}

func toWireEnvelope(env facade.Envelope) *Envelope {
	valueJSON, _ := json.Marshal(env.Value)
	return &Envelope{
		RegistryID:  env.RegistryID,
		ClTRID:      env.ClTRID,
		SvTRID:      env.SvTRID,
		ExtraValues: env.ExtraValues,
		ExtData:     env.ExtData,
		Value:       valueJSON,
	}
}

// NewServer builds a *grpc.Server exposing f over this service, with the
// JSON codec forced on every call so no protobuf codec negotiation is ever
// attempted.
func NewServer(f *facade.Facade, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ForceServerCodec(jsonCodec{}))
	srv := grpc.NewServer(opts...)
	srv.RegisterService(NewServiceDesc(f), nil)
	return srv
}
