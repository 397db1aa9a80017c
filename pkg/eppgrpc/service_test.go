package eppgrpc

import (
	"context"
	"encoding/json"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"github.com/eppproxy/eppproxy/internal/facade"
	"github.com/eppproxy/eppproxy/internal/registry"
	"github.com/eppproxy/eppproxy/internal/router"
	"github.com/eppproxy/eppproxy/internal/session"
)

// fakeSession satisfies facade's unexported submitter interface structurally:
// RegistryID() plus SubmitEnvelope(ctx, req) (session.Result, error).
type fakeSession struct {
	registryID string
	result     session.Result
	err        error
}

func (f *fakeSession) RegistryID() string { return f.registryID }

func (f *fakeSession) SubmitEnvelope(ctx context.Context, req registry.Request) (session.Result, error) {
	return f.result, f.err
}

func dialer(lis *bufconn.Listener) func(context.Context, string) (net.Conn, error) {
	return func(ctx context.Context, s string) (net.Conn, error) {
		return lis.Dial()
	}
}

func startTestServer(t *testing.T, f *facade.Facade) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1024 * 1024)
	srv := NewServer(f)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	cc, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(dialer(lis)),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(jsonCodec{})),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cc.Close() })
	return cc
}

func TestInvokeBalanceInfo(t *testing.T) {
	rtr := router.New()
	rtr.RegisterID("example-registry", &fakeSession{
		registryID: "example-registry",
		result: session.Result{
			Value:  registry.BalanceInfoResponse{Balance: "42.00", Currency: "USD"},
			ClTRID: "cl-1",
		},
	})
	f := facade.New(rtr, nil)
	cc := startTestServer(t, f)

	env, err := Invoke(context.Background(), cc, "BalanceInfo", Selector{RegistryID: "example-registry"}, registry.BalanceInfoRequest{})
	require.NoError(t, err)
	require.Equal(t, "example-registry", env.RegistryID)
	require.Equal(t, "cl-1", env.ClTRID)

	var val registry.BalanceInfoResponse
	require.NoError(t, json.Unmarshal(env.Value, &val))
	require.Equal(t, "42.00", val.Balance)
}

func TestInvokeUnknownRegistryPropagatesError(t *testing.T) {
	f := facade.New(router.New(), nil)
	cc := startTestServer(t, f)

	_, err := Invoke(context.Background(), cc, "BalanceInfo", Selector{RegistryID: "missing"}, registry.BalanceInfoRequest{})
	require.Error(t, err)
}

func TestPollStreamPeek(t *testing.T) {
	rtr := router.New()
	rtr.RegisterID("example-registry", &fakeSession{
		registryID: "example-registry",
		result:     session.Result{Value: registry.PollMessage{Present: true, ID: "msg-1"}},
	})
	f := facade.New(rtr, nil)
	cc := startTestServer(t, f)

	stream, err := OpenPollStream(context.Background(), cc)
	require.NoError(t, err)

	require.NoError(t, stream.SendMsg(&PollStreamRequest{Selector: Selector{RegistryID: "example-registry"}}))
	resp := new(PollStreamResponse)
	require.NoError(t, stream.RecvMsg(resp))

	var msg registry.PollMessage
	require.NoError(t, json.Unmarshal(resp.Envelope.Value, &msg))
	require.True(t, msg.Present)
	require.Equal(t, "msg-1", msg.ID)

	require.NoError(t, stream.CloseSend())
}
