// Package backend opens the run store matching a database file path.
package backend

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/louisbranch/airfoil/internal/storage"
	"github.com/louisbranch/airfoil/internal/storage/bbolt"
	"github.com/louisbranch/airfoil/internal/storage/sqlite"
)

// Store is a run store that owns an open database file.
type Store interface {
	storage.RunStore
	io.Closer
}

// Kind names a run store implementation.
type Kind string

const (
	KindSQLite Kind = "sqlite"
	KindBolt   Kind = "bolt"
)

// KindFor picks the store for path by extension: .bolt and .bbolt files use
// BoltDB, everything else SQLite.
func KindFor(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bolt", ".bbolt":
		return KindBolt
	default:
		return KindSQLite
	}
}

// Open opens the run store for path.
func Open(path string) (Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	switch KindFor(path) {
	case KindBolt:
		return bbolt.Open(path)
	default:
		return sqlite.Open(path)
	}
}
