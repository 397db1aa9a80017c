package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eppproxy/eppproxy/internal/auditlog"
)

func TestDispatchAppendsSentFrameToAuditSink(t *testing.T) {
	m, serverFr, stop := newTestManager(t, false)
	defer stop()

	sink := auditlog.NewMemorySink()
	m.cfg.AuditSink = sink

	reply := make(chan Result, 1)
	received := make(chan error, 1)
	go func() {
		_, readErr := serverFr.Receive()
		received <- readErr
	}()
	err := m.dispatch(m.activeFramer, job{req: pollReqStub{}, reply: reply})
	require.NoError(t, err)
	require.NoError(t, <-received)

	require.Len(t, sink.Records(), 1)
	require.Equal(t, auditlog.DirectionSent, sink.Records()[0].Direction)
	require.Equal(t, "test-registry", sink.Records()[0].RegistryID)
}

// pollReqStub avoids importing internal/registry's real PollReqRequest just
// to keep this test package-local; CommandName is all dispatch needs to pick
// an encoder.
type pollReqStub struct{}

func (pollReqStub) CommandName() string { return "poll:req" }
