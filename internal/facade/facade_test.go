package facade

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	eperrors "github.com/eppproxy/eppproxy/internal/errors"
	"github.com/eppproxy/eppproxy/internal/registry"
	"github.com/eppproxy/eppproxy/internal/router"
	"github.com/eppproxy/eppproxy/internal/session"
)

// fakeSession is a minimal submitter used to exercise the facade without a
// real transport, mirroring the session package's own net.Pipe-based test
// doubles but scoped to what Call actually needs.
type fakeSession struct {
	registryID string
	result     session.Result
	err        error
}

func (f *fakeSession) RegistryID() string { return f.registryID }

func (f *fakeSession) SubmitEnvelope(ctx context.Context, req registry.Request) (session.Result, error) {
	return f.result, f.err
}

func TestCallByRegistryIDDeliversEnvelope(t *testing.T) {
	rtr := router.New()
	fs := &fakeSession{
		registryID: "example-registry",
		result: session.Result{
			Value:       registry.BalanceInfoResponse{Balance: "100.00", Currency: "USD"},
			ClTRID:      "cl-1",
			SvTRID:      "sv-1",
			ExtraValues: []string{"note"},
		},
	}
	rtr.RegisterID("example-registry", fs)

	f := New(rtr, nil)
	env, err := f.Call(context.Background(), Selector{RegistryID: "example-registry"}, registry.BalanceInfoRequest{})
	require.NoError(t, err)
	require.Equal(t, "example-registry", env.RegistryID)
	require.Equal(t, "cl-1", env.ClTRID)
	require.Equal(t, "sv-1", env.SvTRID)
	require.Equal(t, []string{"note"}, env.ExtraValues)
	require.IsType(t, registry.BalanceInfoResponse{}, env.Value)
}

func TestCallByDomainResolvesViaRouter(t *testing.T) {
	rtr := router.New()
	fs := &fakeSession{registryID: "uk-registry", result: session.Result{Value: registry.BalanceInfoResponse{}}}
	rtr.RegisterZone("co.uk", fs, "uk-registry")

	f := New(rtr, nil)
	env, err := f.Call(context.Background(), Selector{DomainName: "example.co.uk"}, registry.BalanceInfoRequest{})
	require.NoError(t, err)
	require.Equal(t, "uk-registry", env.RegistryID)
}

func TestCallUnknownRegistryIsNotReady(t *testing.T) {
	f := New(router.New(), nil)
	_, err := f.Call(context.Background(), Selector{RegistryID: "missing"}, registry.BalanceInfoRequest{})
	require.Error(t, err)
	var epErr *eperrors.Error
	require.ErrorAs(t, err, &epErr)
	require.Equal(t, eperrors.KindNotReady, epErr.Kind)
}

func TestCallEmptySelectorIsErr(t *testing.T) {
	f := New(router.New(), nil)
	_, err := f.Call(context.Background(), Selector{}, registry.BalanceInfoRequest{})
	require.Error(t, err)
	var epErr *eperrors.Error
	require.ErrorAs(t, err, &epErr)
	require.Equal(t, eperrors.KindErr, epErr.Kind)
}

func TestCallPropagatesSessionError(t *testing.T) {
	rtr := router.New()
	fs := &fakeSession{
		registryID: "example-registry",
		result:     session.Result{Err: eperrors.ErrCode(2201, "Authorization error")},
	}
	rtr.RegisterID("example-registry", fs)

	f := New(rtr, nil)
	env, err := f.Call(context.Background(), Selector{RegistryID: "example-registry"}, registry.BalanceInfoRequest{})
	require.Error(t, err)
	require.Equal(t, "example-registry", env.RegistryID)
}

func TestCallRespectsContextCancellation(t *testing.T) {
	rtr := router.New()
	fs := &fakeSession{registryID: "slow-registry"}
	fs.err = context.DeadlineExceeded
	rtr.RegisterID("slow-registry", fs)

	f := New(rtr, nil)
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	_, err := f.Call(ctx, Selector{RegistryID: "slow-registry"}, registry.BalanceInfoRequest{})
	require.Error(t, err)
}
