package session

import (
	"context"
	"net"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/eppproxy/eppproxy/internal/correlation"
	"github.com/eppproxy/eppproxy/internal/feature"
	"github.com/eppproxy/eppproxy/internal/registry"
	"github.com/eppproxy/eppproxy/internal/wire"
)

var clTRIDPattern = regexp.MustCompile(`<clTRID>([^<]*)</clTRID>`)

// newTestManager wires a Manager to one end of an in-memory pipe, with the
// registry's real encoders/decoders, bypassing dial/greeting/login so tests
// can drive serve() directly.
func newTestManager(t *testing.T, pipelining bool) (m *Manager, serverFr *wire.Framer, stop func()) {
	t.Helper()
	clientConn, srvConn := net.Pipe()

	m = &Manager{
		cfg:          Config{RegistryID: "test-registry", Pipelining: pipelining},
		reg:          registry.New(),
		inbound:      make(chan job, 8),
		decoded:      make(chan decodedMsg),
		connErr:      make(chan error, 1),
		state:        Ready,
		corr:         correlation.NewTable(),
		subordinates: make(map[string]*Manager),
		features:     feature.FromGreeting([]string{feature.ObjDomain}, nil, ""),
	}
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.activeFramer = wire.New(clientConn, clientConn, wire.DefaultMaxFrameBytes)

	done := make(chan struct{})
	m.wg.Add(1)
	go m.receiveLoop(m.activeFramer, done)

	serverFr = wire.New(srvConn, srvConn, wire.DefaultMaxFrameBytes)

	stop = func() {
		close(done)
		_ = clientConn.Close()
		_ = srvConn.Close()
		m.cancel()
	}
	return m, serverFr, stop
}

func sendFakeResponse(t *testing.T, fr *wire.Framer, clTRID string, code int, msg string) {
	t.Helper()
	body := `<epp xmlns="urn:ietf:params:xml:ns:epp-1.0"><response>` +
		`<result code="` + strconv.Itoa(code) + `"><msg>` + msg + `</msg></result>` +
		`<resData><infData><balance>0.00</balance><currency>USD</currency></infData></resData>` +
		`<trID><clTRID>` + clTRID + `</clTRID><svTRID>SRV-1</svTRID></trID>` +
		`</response></epp>`
	require.NoError(t, fr.Send(body))
}

func TestDispatchAndCorrelateDeliversResult(t *testing.T) {
	m, serverFr, stop := newTestManager(t, true)
	defer stop()

	serveDone := make(chan struct{})
	go func() {
		_, _ = m.serve()
		close(serveDone)
	}()

	go func() {
		cmd, err := serverFr.Receive()
		require.NoError(t, err)
		matches := clTRIDPattern.FindStringSubmatch(cmd)
		require.Len(t, matches, 2)
		sendFakeResponse(t, serverFr, matches[1], 1000, "Command completed successfully")
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	val, err := m.Submit(ctx, registry.BalanceInfoRequest{})
	require.NoError(t, err)
	require.IsType(t, registry.BalanceInfoResponse{}, val)

	m.cancel()
	select {
	case <-serveDone:
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not exit after context cancellation")
	}
}

func TestDispatchDeliversServerErrorCode(t *testing.T) {
	m, serverFr, stop := newTestManager(t, true)
	defer stop()

	go func() { _, _ = m.serve() }()

	go func() {
		cmd, err := serverFr.Receive()
		require.NoError(t, err)
		matches := clTRIDPattern.FindStringSubmatch(cmd)
		require.Len(t, matches, 2)
		sendFakeResponse(t, serverFr, matches[1], 2201, "Authorization error")
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := m.Submit(ctx, registry.BalanceInfoRequest{})
	require.Error(t, err)
}

func TestSerialDisciplineBlocksSecondRequestUntilFirstCompletes(t *testing.T) {
	m, serverFr, stop := newTestManager(t, false)
	defer stop()

	go func() { _, _ = m.serve() }()

	secondSubmitted := make(chan struct{})
	results := make(chan error, 2)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_, err := m.Submit(ctx, registry.BalanceInfoRequest{})
		results <- err
	}()

	// The first request is in flight; a second one must not reach the wire
	// until the first completes (spec.md §4.6.3 serial discipline).
	go func() {
		time.Sleep(100 * time.Millisecond)
		close(secondSubmitted)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_, err := m.Submit(ctx, registry.BalanceInfoRequest{})
		results <- err
	}()

	<-secondSubmitted
	cmd, err := serverFr.Receive()
	require.NoError(t, err)
	matches := clTRIDPattern.FindStringSubmatch(cmd)
	require.Len(t, matches, 2)
	sendFakeResponse(t, serverFr, matches[1], 1000, "ok")

	cmd2, err := serverFr.Receive()
	require.NoError(t, err)
	matches2 := clTRIDPattern.FindStringSubmatch(cmd2)
	require.Len(t, matches2, 2)
	sendFakeResponse(t, serverFr, matches2[1], 1000, "ok")

	require.NoError(t, <-results)
	require.NoError(t, <-results)
}

func TestSubmitRejectsWhenNotReady(t *testing.T) {
	m, _, stop := newTestManager(t, true)
	m.state = Disconnected
	defer stop()

	_, err := m.Submit(context.Background(), registry.BalanceInfoRequest{})
	require.Error(t, err)
}
