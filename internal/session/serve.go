package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/eppproxy/eppproxy/internal/auditlog"
	eperrors "github.com/eppproxy/eppproxy/internal/errors"
	"github.com/eppproxy/eppproxy/internal/logger"
	"github.com/eppproxy/eppproxy/internal/wire"
)

// serve is the per-connection dispatch loop. It owns the framer exclusively
// for the life of one connection: no other goroutine ever writes to it.
// Dispatch discipline is gated by cfg.Pipelining (spec.md §4.6.3): when
// false, a second request is never sent until the first's response (or the
// connection's death) is observed.
func (m *Manager) serve() (closing bool, err error) {
	m.mu.Lock()
	fr := m.activeFramer
	m.mu.Unlock()

	keepalive := time.NewTimer(keepaliveInterval)
	defer keepalive.Stop()

	var watchdog *time.Timer
	var watchdogC <-chan time.Time
	stopWatchdog := func() {
		if watchdog != nil {
			watchdog.Stop()
			watchdog = nil
			watchdogC = nil
		}
	}
	defer stopWatchdog()

	awaiting := 0 // count of requests sent, awaiting a correlated response

	for {
		var inboundC chan job
		if m.cfg.Pipelining || awaiting == 0 {
			inboundC = m.inbound
		}

		select {
		case <-m.ctx.Done():
			return false, nil

		case e := <-m.connErr:
			return false, e

		case j, ok := <-inboundC:
			if !ok {
				return false, nil
			}
			if err := m.dispatch(fr, j); err != nil {
				j.reply <- Result{Err: err}
				continue
			}
			awaiting++
			keepalive.Reset(keepaliveInterval)

		case msg := <-m.decoded:
			switch msg.kind {
			case wire.KindGreeting:
				// A greeting arriving mid-session is the reply to our
				// keepalive hello.
				stopWatchdog()
				keepalive.Reset(keepaliveInterval)

			case wire.KindResponse:
				if msg.resp == nil {
					continue
				}
				if eperrors.IsClosing(msg.resp.Code()) {
					m.correlate(msg.resp)
					m.deliverAll(msg.resp)
					return true, nil
				}
				if m.correlate(msg.resp) {
					awaiting--
					if awaiting < 0 {
						awaiting = 0
					}
				}
				keepalive.Reset(keepaliveInterval)

			default:
				logger.Warn("session: unexpected frame kind mid-session",
					logger.KeyRegistry, m.cfg.RegistryID)
			}

		case <-keepalive.C:
			helloFrame := wire.EncodeCommand(wire.CommandRecord{IsHello: true})
			if err := fr.Send(helloFrame); err != nil {
				return false, fmt.Errorf("session: send keepalive hello: %w", err)
			}
			m.auditAppend(auditlog.DirectionSent, helloFrame)
			watchdog = time.NewTimer(watchdogTimeout)
			watchdogC = watchdog.C

		case <-watchdogC:
			return false, fmt.Errorf("session: keepalive watchdog expired waiting for greeting")
		}
	}
}

// dispatch encodes req, registers its correlation entry, and writes it to
// the wire.
func (m *Manager) dispatch(fr *wire.Framer, j job) error {
	m.mu.Lock()
	fset := m.features
	m.mu.Unlock()

	rec, decoder, err := m.reg.Encode(fset, j.req)
	if err != nil {
		return err
	}

	id := uuid.NewString()
	rec.ClTRID = id

	sink := correlationSink{reply: j.reply}
	if err := m.corr.Insert(id, sink, decoder); err != nil {
		return eperrors.ServerInternal(err.Error())
	}

	frame := wire.EncodeCommand(rec)
	if err := fr.Send(frame); err != nil {
		m.corr.Take(id)
		return fmt.Errorf("session: send command: %w", err)
	}
	m.auditAppend(auditlog.DirectionSent, frame)
	return nil
}

// correlate matches resp against the correlation table by client
// transaction id and delivers the decoded result to the waiting sink. It
// reports whether a pending entry was found (and thus whether one
// in-flight slot was freed).
func (m *Manager) correlate(resp *wire.Response) bool {
	id := resp.ClTRID
	sink, decoder, ok := m.corr.Take(id)
	if !ok {
		logger.Warn("session: response with no matching pending request",
			logger.KeyRegistry, m.cfg.RegistryID, logger.KeyClientTxnID, id)
		return false
	}
	val, err := decoder(resp)
	if es, ok := sink.(envelopeSink); ok {
		es.DeliverEnvelope(val, err, resp)
	} else {
		sink.Deliver(val, err)
	}
	return true
}

// deliverAll drains the correlation table, failing every caller still
// outstanding after the closing response itself was correlated with NotReady
// carrying the server's final message (spec.md §4.6.2: 2500-2502 close the
// session immediately).
func (m *Manager) deliverAll(resp *wire.Response) {
	m.corr.Drain(fmt.Sprintf("session closed by server: %s", resp.Message()))
}

// correlationSink adapts a job's reply channel to correlation.Sink.
type correlationSink struct {
	reply chan Result
}

func (s correlationSink) Deliver(result any, err error) {
	s.reply <- Result{Value: result, Err: err}
}

// envelopeSink is an internal extension correlate uses to attach the
// response envelope (transaction ids, extra-value diagnostics, extension
// blob) to a delivered result without widening correlation.Sink itself,
// since Drain has no response to attach.
type envelopeSink interface {
	DeliverEnvelope(result any, err error, resp *wire.Response)
}

func (s correlationSink) DeliverEnvelope(result any, err error, resp *wire.Response) {
	res := Result{Value: result, Err: err, ClTRID: resp.ClTRID, SvTRID: resp.SvTRID}
	if len(resp.Results) > 0 {
		res.ExtraValues = resp.Results[0].ExtraV
	}
	if len(resp.ExtData) > 0 {
		res.ExtData = []byte(resp.ExtData)
	}
	s.reply <- res
}
