package auditlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/eppproxy/eppproxy/internal/config"
)

func TestBadgerSinkAppendAndForRegistry(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "audit")
	sink, err := OpenBadgerSink(dir)
	require.NoError(t, err)
	defer sink.Close()

	ctx := context.Background()
	require.NoError(t, sink.Append(ctx, Record{
		RegistryID: "example-registry", Direction: DirectionSent,
		Timestamp: time.Unix(0, 1), Raw: []byte("<command/>"),
	}))
	require.NoError(t, sink.Append(ctx, Record{
		RegistryID: "example-registry", Direction: DirectionReceived,
		Timestamp: time.Unix(0, 2), Raw: []byte("<response/>"),
	}))
	require.NoError(t, sink.Append(ctx, Record{
		RegistryID: "other-registry", Direction: DirectionSent,
		Timestamp: time.Unix(0, 3), Raw: []byte("<command/>"),
	}))

	got, err := sink.ForRegistry("example-registry")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, []byte("<command/>"), got[0])
	require.Equal(t, []byte("<response/>"), got[1])
}

func TestOpenBadgerBackend(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "audit")
	sink, err := Open(context.Background(), config.AuditLogConfig{Backend: "badger", BadgerPath: dir})
	require.NoError(t, err)
	defer sink.Close()
	_, ok := sink.(*BadgerSink)
	require.True(t, ok)
}
