package session

import (
	"context"
	"crypto/tls"
	stderrors "errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/eppproxy/eppproxy/internal/auditlog"
	eperrors "github.com/eppproxy/eppproxy/internal/errors"
	"github.com/eppproxy/eppproxy/internal/feature"
	"github.com/eppproxy/eppproxy/internal/logger"
	"github.com/eppproxy/eppproxy/internal/metrics"

	"github.com/eppproxy/eppproxy/internal/correlation"
	"github.com/eppproxy/eppproxy/internal/registry"
	"github.com/eppproxy/eppproxy/internal/wire"
)

const (
	keepaliveInterval = 120 * time.Second
	watchdogTimeout   = 15 * time.Second
	reconnectBackoff  = 5 * time.Second
	inboundQueueDepth = 16
)

// connectMu is the process-wide TLS-connect serialisation mutex, per
// spec.md §4.6.6: some registries drop the TCP connection if no
// ClientHello arrives within ~10s, and concurrent handshakes (especially
// with HSM-backed keys) can starve each other out. One session holds this
// for the duration of its own handshake.
var connectMu sync.Mutex

// Config is a session's immutable configuration, per spec.md §3.
type Config struct {
	RegistryID  string
	Host        string // host:port
	SourceAddr  string
	LoginID     string
	Password    string
	NewPassword string
	Pipelining  bool
	Errata      string
	Zones       []string

	TLS           *tls.Config
	MaxFrameBytes uint32

	DialTimeout time.Duration

	// AuditSink, if set, receives a Record for every frame sent to and
	// received from the registry (spec.md §3 C3). Nil disables auditing.
	AuditSink auditlog.Sink

	// Metrics, if set, is told about request/response/reconnect/session-state
	// events (SPEC_FULL.md §5). Nil is equivalent to metrics.Noop{}.
	Metrics metrics.Collector
}

// job is one accepted logical request awaiting dispatch or in flight.
type job struct {
	req   registry.Request
	reply chan Result
}

// Result is what a caller receives back from Submit. ClTRID/SvTRID/
// ExtraValues/ExtData carry the command-response envelope alongside the
// decoded payload, per spec.md §4.7; they are empty when Submit fails before
// a response was ever correlated (NotReady, encoder rejection, timeout).
type Result struct {
	Value any
	Err   error

	ClTRID      string
	SvTRID      string
	ExtraValues []string
	ExtData     []byte
}

// Manager owns one connection to one registry. It is the Session Manager
// (C6) of spec.md §4.6; callers interact with it exclusively through
// Submit. Exactly one goroutine runs Run for the lifetime of a Manager.
type Manager struct {
	cfg Config
	reg *registry.Registry

	inbound chan job
	decoded chan decodedMsg
	connErr chan error

	mu               sync.Mutex
	state            State
	features         *feature.Set
	activeFramer     *wire.Framer
	usingNewPassword bool

	corr *correlation.Table

	parent       *Manager
	subordinates map[string]*Manager // command-name prefix -> subordinate

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// decodedMsg is one frame decoded by the receive loop and handed to Run's
// select loop.
type decodedMsg struct {
	kind     wire.MessageKind
	greeting *wire.Greeting
	resp     *wire.Response
}

// New constructs a Manager. Call Run in its own goroutine to start it.
func New(cfg Config, reg *registry.Registry) *Manager {
	if cfg.MaxFrameBytes == 0 {
		cfg.MaxFrameBytes = wire.DefaultMaxFrameBytes
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.Noop{}
	}
	return &Manager{
		cfg:          cfg,
		reg:          reg,
		inbound:      make(chan job, inboundQueueDepth),
		decoded:      make(chan decodedMsg),
		connErr:      make(chan error, 1),
		state:        Disconnected,
		corr:         correlation.NewTable(),
		subordinates: make(map[string]*Manager),
	}
}

// RegisterSubordinate wires a subordinate session that carries every
// request whose CommandName has the given prefix (e.g. "nominet:"), per
// spec.md §4.6.8.
func (m *Manager) RegisterSubordinate(commandPrefix string, sub *Manager) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub.parent = m
	m.subordinates[commandPrefix] = sub
}

func (m *Manager) subordinateFor(commandName string) *Manager {
	m.mu.Lock()
	defer m.mu.Unlock()
	for prefix, sub := range m.subordinates {
		if len(commandName) >= len(prefix) && commandName[:len(prefix)] == prefix {
			return sub
		}
	}
	return nil
}

// State reports the manager's current connection state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	prev := m.state
	m.state = s
	m.mu.Unlock()
	if prev != s {
		logger.Info("session state transition",
			logger.KeyRegistry, m.cfg.RegistryID,
			logger.KeyState, s.String(),
			logger.KeyPrevState, prev.String(),
		)
		m.metricsCollector().SetSessionUp(m.cfg.RegistryID, s == Ready)
	}
}

// metricsCollector returns cfg.Metrics, falling back to a no-op when a
// Manager was built without going through New (as session tests do).
func (m *Manager) metricsCollector() metrics.Collector {
	if m.cfg.Metrics == nil {
		return metrics.Noop{}
	}
	return m.cfg.Metrics
}

// auditAppend records one raw frame in the audit trail, if auditing is
// configured. It never blocks the session loop on a slow sink beyond the
// sink's own Append call, and a failed append only logs: the audit trail is
// a side effect, not a dispatch precondition (spec.md §3's "opaque").
func (m *Manager) auditAppend(dir auditlog.Direction, raw []byte) {
	if m.cfg.AuditSink == nil {
		return
	}
	rec := auditlog.Record{
		RegistryID: m.cfg.RegistryID,
		Direction:  dir,
		Timestamp:  time.Now(),
		Raw:        raw,
	}
	if err := m.cfg.AuditSink.Append(context.Background(), rec); err != nil {
		logger.Warn("session: audit append failed",
			logger.KeyRegistry, m.cfg.RegistryID, logger.KeyError, err)
	}
}

// RegistryID implements router.SessionHandle.
func (m *Manager) RegistryID() string { return m.cfg.RegistryID }

// Submit hands one typed request to the session and blocks until the
// response (or a session-level error) is available. It is the only entry
// point callers use; subordinate routing and logout fan-out happen here.
func (m *Manager) Submit(ctx context.Context, req registry.Request) (any, error) {
	res, err := m.SubmitEnvelope(ctx, req)
	if err != nil {
		return nil, err
	}
	return res.Value, res.Err
}

// SubmitEnvelope behaves like Submit but returns the full response envelope
// (transaction ids, extra-value diagnostics, extension blobs) alongside the
// decoded payload, for the service facade (spec.md §4.7). The returned error
// is only ever ctx.Err(); a session-level failure is carried in res.Err.
func (m *Manager) SubmitEnvelope(ctx context.Context, req registry.Request) (Result, error) {
	if sub := m.subordinateFor(req.CommandName()); sub != nil {
		return sub.SubmitEnvelope(ctx, req)
	}

	if _, ok := req.(registry.LogoutRequest); ok {
		m.mu.Lock()
		subs := make([]*Manager, 0, len(m.subordinates))
		for _, sub := range m.subordinates {
			subs = append(subs, sub)
		}
		m.mu.Unlock()
		for _, sub := range subs {
			if _, err := sub.Submit(ctx, registry.LogoutRequest{}); err != nil {
				logger.Warn("subordinate logout failed",
					logger.KeyRegistry, sub.cfg.RegistryID, logger.KeyError, err)
			}
		}
	}

	m.mu.Lock()
	state := m.state
	m.mu.Unlock()
	if state != Ready && state != Draining {
		return Result{Err: eperrors.NotReady(fmt.Sprintf("session %s is %s", m.cfg.RegistryID, state))}, nil
	}

	reply := make(chan Result, 1)
	select {
	case m.inbound <- job{req: req, reply: reply}:
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}

	select {
	case res := <-reply:
		return res, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Run drives the connection state machine until ctx is cancelled or the
// session reaches Closed permanently. It must be called exactly once.
func (m *Manager) Run(ctx context.Context) {
	m.ctx, m.cancel = context.WithCancel(ctx)
	defer m.cancel()

	for {
		select {
		case <-m.ctx.Done():
			m.setState(Disconnected)
			m.corr.Drain("session shutting down")
			return
		default:
		}

		m.setState(Connecting)
		conn, fr, features, err := m.connectAndLogin()
		if err != nil {
			m.corr.Drain("connect/login failed: " + err.Error())
			if isPermanent(err) {
				logger.Error("session login failed permanently",
					logger.KeyRegistry, m.cfg.RegistryID, logger.KeyError, err)
				m.setState(Closed)
				return
			}
			logger.Warn("session connect/login failed, will retry",
				logger.KeyRegistry, m.cfg.RegistryID, logger.KeyError, err)
			if !m.sleepBackoff() {
				return
			}
			continue
		}

		m.mu.Lock()
		m.features = features
		m.activeFramer = fr
		m.mu.Unlock()
		m.setState(Ready)

		done := make(chan struct{})
		m.wg.Add(1)
		go m.receiveLoop(fr, done)

		closing, serveErr := m.serve()

		close(done)
		_ = conn.Close()
		m.wg.Wait()
		m.mu.Lock()
		m.activeFramer = nil
		m.mu.Unlock()
		m.corr.Drain("connection lost")
		drainConnErr(m.connErr)

		if serveErr != nil {
			logger.Warn("session transport error, reconnecting",
				logger.KeyRegistry, m.cfg.RegistryID, logger.KeyError, serveErr)
		}

		if closing {
			m.setState(Closed)
			return
		}

		m.setState(Disconnected)
		m.metricsCollector().RecordReconnect(m.cfg.RegistryID)
		if !m.sleepBackoff() {
			return
		}
	}
}

func drainConnErr(ch chan error) {
	select {
	case <-ch:
	default:
	}
}

// sleepBackoff sleeps the flat reconnect backoff, returning false if ctx
// was cancelled meanwhile.
func (m *Manager) sleepBackoff() bool {
	t := time.NewTimer(reconnectBackoff)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-m.ctx.Done():
		return false
	}
}

// permanentErr marks a login/negotiation failure that can never succeed on
// retry (spec.md §4.6.2: no common object namespace, no common language,
// no common version).
type permanentErr struct{ msg string }

func (e *permanentErr) Error() string { return e.msg }

func permanentError(format string, args ...any) error {
	return &permanentErr{msg: fmt.Sprintf(format, args...)}
}

func isPermanent(err error) bool {
	var pe *permanentErr
	return stderrors.As(err, &pe)
}

// connectAndLogin dials, performs the greeting/feature-negotiation/login
// handshake, and returns the live connection, framer, and negotiated
// feature set on success.
func (m *Manager) connectAndLogin() (net.Conn, *wire.Framer, *feature.Set, error) {
	conn, err := m.dial()
	if err != nil {
		return nil, nil, nil, err
	}

	fr := wire.New(conn, conn, m.cfg.MaxFrameBytes)

	m.setState(Greeting)
	data, err := fr.Receive()
	if err != nil {
		_ = conn.Close()
		return nil, nil, nil, fmt.Errorf("session: read greeting: %w", err)
	}
	kind, greetingMsg, _, err := wire.Decode(data)
	if err != nil || kind != wire.KindGreeting {
		_ = conn.Close()
		return nil, nil, nil, fmt.Errorf("session: expected greeting, got kind %v (decode err %v)", kind, err)
	}

	if !feature.HasVersion(greetingMsg.Versions) {
		_ = conn.Close()
		return nil, nil, nil, permanentError("registry %s does not advertise protocol version 1.0", m.cfg.RegistryID)
	}
	lang, ok := feature.NegotiateLanguage(greetingMsg.Languages)
	if !ok {
		_ = conn.Close()
		return nil, nil, nil, permanentError("no common language with registry %s", m.cfg.RegistryID)
	}

	fset := feature.FromGreeting(greetingMsg.ObjURIs, greetingMsg.ExtURIs, m.cfg.Errata)
	fset.Language = lang
	if !fset.AnyObjectSupported() {
		_ = conn.Close()
		return nil, nil, nil, permanentError("registry %s advertises no supported object namespace", m.cfg.RegistryID)
	}

	m.setState(LoginPending)
	if err := m.login(fr, fset); err != nil {
		_ = conn.Close()
		return nil, nil, nil, err
	}

	return conn, fr, fset, nil
}

// dial opens the TCP+TLS transport under the global connect mutex
// (spec.md §4.6.6).
func (m *Manager) dial() (net.Conn, error) {
	connectMu.Lock()
	defer connectMu.Unlock()

	dialer := &net.Dialer{Timeout: m.cfg.DialTimeout}
	if m.cfg.SourceAddr != "" {
		if addr, err := net.ResolveTCPAddr("tcp", m.cfg.SourceAddr+":0"); err == nil {
			dialer.LocalAddr = addr
		}
	}
	if m.cfg.DialTimeout == 0 {
		dialer.Timeout = 10 * time.Second
	}

	tlsCfg := m.cfg.TLS
	if tlsCfg == nil {
		tlsCfg = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	conn, err := tls.DialWithDialer(dialer, "tcp", m.cfg.Host, tlsCfg)
	if err != nil {
		return nil, fmt.Errorf("session: dial %s: %w", m.cfg.Host, err)
	}
	return conn, nil
}
