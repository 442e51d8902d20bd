package repository

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"geoMaster/models"
)

// activityPrefix namespaces log keys: prefix | unix nanos (BE) | sequence (BE).
// Byte order of keys is therefore timestamp order.
const activityPrefix = "activity:"

// ActivityRepository stores the append-only activity log in Badger.
type ActivityRepository struct {
	db  *badger.DB
	seq atomic.Uint64
}

func NewActivityRepository(db *badger.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Append writes an entry. Existing keys are never overwritten.
func (r *ActivityRepository) Append(ctx context.Context, e models.ActivityEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	val, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode activity entry: %w", err)
	}
	key := activityKey(e.Timestamp.UnixNano(), r.seq.Add(1))
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, val)
	})
}

// Recent returns up to limit entries, newest first.
func (r *ActivityRepository) Recent(ctx context.Context, limit int) ([]models.ActivityEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	out := make([]models.ActivityEntry, 0, limit)
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(activityPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		seek := append([]byte(activityPrefix), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(opts.Prefix) && len(out) < limit; it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var e models.ActivityEntry
			if err := it.Item().Value(func(v []byte) error {
				return json.Unmarshal(v, &e)
			}); err != nil {
				return fmt.Errorf("decode activity entry: %w", err)
			}
			out = append(out, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func activityKey(nanos int64, seq uint64) []byte {
	key := make([]byte, 0, len(activityPrefix)+16)
	key = append(key, activityPrefix...)
	key = binary.BigEndian.AppendUint64(key, uint64(nanos))
	key = binary.BigEndian.AppendUint64(key, seq)
	return key
}
