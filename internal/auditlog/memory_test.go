package auditlog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/eppproxy/eppproxy/internal/config"
)

func TestMemorySinkAppendAndRecords(t *testing.T) {
	s := NewMemorySink()
	rec := Record{RegistryID: "example-registry", Direction: DirectionSent, Timestamp: time.Unix(0, 1), Raw: []byte("<epp/>")}
	require.NoError(t, s.Append(context.Background(), rec))

	got := s.Records()
	require.Len(t, got, 1)
	require.Equal(t, rec, got[0])
}

func TestMemorySinkAppendRespectsCancellation(t *testing.T) {
	s := NewMemorySink()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.Append(ctx, Record{RegistryID: "r1"})
	require.Error(t, err)
}

func TestOpenDefaultsToMemory(t *testing.T) {
	sink, err := Open(context.Background(), config.AuditLogConfig{})
	require.NoError(t, err)
	defer sink.Close()
	_, ok := sink.(*MemorySink)
	require.True(t, ok)
}
