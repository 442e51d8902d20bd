package db

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"geoMaster/internal/logging"
)

// OpenActivityStore opens the Badger directory holding the append-only
// activity log. An empty dir keeps the log in memory.
func OpenActivityStore(dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts = opts.WithLogger(logging.NewBadgerLogger())
	bdb, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open activity store: %w", err)
	}
	return bdb, nil
}
