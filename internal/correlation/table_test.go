package correlation

import (
	"sync"
	"testing"

	eperrors "github.com/eppproxy/eppproxy/internal/errors"
	"github.com/stretchr/testify/require"
)

func recordingSink(results *[]any, errs *[]error, mu *sync.Mutex) Sink {
	return FuncSink(func(result any, err error) {
		mu.Lock()
		defer mu.Unlock()
		*results = append(*results, result)
		*errs = append(*errs, err)
	})
}

func TestTableInsertTakeRoundTrip(t *testing.T) {
	tbl := NewTable()
	var mu sync.Mutex
	var results []any
	var errs []error

	require.NoError(t, tbl.Insert("id-1", recordingSink(&results, &errs, &mu), nil))
	require.Equal(t, 1, tbl.Len())

	sink, _, ok := tbl.Take("id-1")
	require.True(t, ok)
	sink.Deliver("payload", nil)
	require.Equal(t, 0, tbl.Len())
	require.Equal(t, []any{"payload"}, results)
}

func TestTableDuplicateInsertRejected(t *testing.T) {
	tbl := NewTable()
	require.NoError(t, tbl.Insert("dup", FuncSink(func(any, error) {}), nil))
	err := tbl.Insert("dup", FuncSink(func(any, error) {}), nil)
	require.Error(t, err)
}

func TestTableTakeMissing(t *testing.T) {
	tbl := NewTable()
	_, _, ok := tbl.Take("missing")
	require.False(t, ok)
}

func TestTableDrainDeliversNotReady(t *testing.T) {
	tbl := NewTable()
	var mu sync.Mutex
	var errs []error

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, tbl.Insert(id, FuncSink(func(_ any, err error) {
			mu.Lock()
			defer mu.Unlock()
			errs = append(errs, err)
		}), nil))
	}

	tbl.Drain("connection lost")
	require.Equal(t, 0, tbl.Len())
	require.Len(t, errs, 3)
	for _, err := range errs {
		var e *eperrors.Error
		require.ErrorAs(t, err, &e)
		require.Equal(t, eperrors.KindNotReady, e.Kind)
	}
}

func TestTableConcurrentInsert(t *testing.T) {
	tbl := NewTable()
	var wg sync.WaitGroup
	n := 200
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i%26))
			_ = tbl.Insert(id+string(rune(i)), FuncSink(func(any, error) {}), nil)
		}(i)
	}
	wg.Wait()
	require.Equal(t, n, tbl.Len())
}
