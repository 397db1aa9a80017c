package auditlog

import (
	"context"
	"fmt"

	badgerdb "github.com/dgraph-io/badger/v4"
)

// Key layout mirrors the teacher's prefix-plus-composite-key scheme in
// pkg/metadata/store/badger/locks.go: a single flat keyspace with a fixed
// prefix and a registry:timestamp:direction suffix, so a registry's audit
// trail iterates front-to-back in timestamp order.
const recordPrefix = "audit:"

// BadgerSink persists audit records to an embedded BadgerDB instance,
// grounded on the teacher's pkg/metadata/store/badger lock store.
type BadgerSink struct {
	db  *badgerdb.DB
	seq uint64
}

// OpenBadgerSink opens (creating if necessary) a BadgerDB database at path.
func OpenBadgerSink(path string) (*BadgerSink, error) {
	opts := badgerdb.DefaultOptions(path).WithLogger(nil)
	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("auditlog: open badger at %s: %w", path, err)
	}
	return &BadgerSink{db: db}, nil
}

func (s *BadgerSink) Append(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.seq++
	key := fmt.Sprintf("%s%s:%d:%s", recordPrefix, rec.RegistryID, rec.Timestamp.UnixNano(), rec.Direction)
	return s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set([]byte(key), rec.Raw)
	})
}

// ForRegistry returns every raw frame recorded for registryID, in append
// order, for operator inspection (eppproxyctl) and tests.
func (s *BadgerSink) ForRegistry(registryID string) ([][]byte, error) {
	var out [][]byte
	prefix := []byte(fmt.Sprintf("%s%s:", recordPrefix, registryID))
	err := s.db.View(func(txn *badgerdb.Txn) error {
		it := txn.NewIterator(badgerdb.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			out = append(out, val)
		}
		return nil
	})
	return out, err
}

func (s *BadgerSink) Close() error {
	return s.db.Close()
}
