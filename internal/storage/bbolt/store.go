// Package bbolt provides a BoltDB-backed run storage implementation.
package bbolt

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/airfoil/internal/platform/timeouts"
	"github.com/louisbranch/airfoil/internal/storage"
	"go.etcd.io/bbolt"
)

const (
	runBucket     = "runs"
	runTimeBucket = "runs_by_time"
)

// Store persists model runs in a BoltDB file.
//
// Runs are stored as JSON under their ID. A second bucket keys each run by
// creation time so listings can walk newest first.
type Store struct {
	db *bbolt.DB
}

// Open opens a BoltDB-backed store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: timeouts.StoreBusy})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	store := &Store{db: db}
	if err := store.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// PutRun persists a run. Existing IDs are rejected.
func (s *Store) PutRun(ctx context.Context, run storage.Run) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	run.ID = strings.TrimSpace(run.ID)
	run.Model = strings.TrimSpace(run.Model)
	if run.ID == "" {
		return fmt.Errorf("run id is required")
	}
	if run.Model == "" {
		return fmt.Errorf("model is required")
	}
	if run.SampleSize <= 0 {
		return fmt.Errorf("sample size must be greater than zero")
	}
	for i, q := range run.Quantities {
		if strings.TrimSpace(q.Symbol) == "" {
			return fmt.Errorf("quantity %d symbol is required", i)
		}
	}
	run.CreatedAt = run.CreatedAt.UTC()
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	// The time index orders keys as unsigned millis.
	if run.CreatedAt.UnixMilli() < 0 {
		return fmt.Errorf("created at %s is before the unix epoch", run.CreatedAt.Format(time.RFC3339))
	}

	payload, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		runs := tx.Bucket([]byte(runBucket))
		byTime := tx.Bucket([]byte(runTimeBucket))
		if runs == nil || byTime == nil {
			return fmt.Errorf("run buckets are missing")
		}
		if runs.Get(runKey(run.ID)) != nil {
			return storage.ErrAlreadyExists
		}
		if err := runs.Put(runKey(run.ID), payload); err != nil {
			return fmt.Errorf("put run: %w", err)
		}
		return byTime.Put(timeKey(run.CreatedAt, run.ID), runKey(run.ID))
	})
}

// GetRun fetches a run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (storage.Run, error) {
	if err := ctx.Err(); err != nil {
		return storage.Run{}, err
	}
	if s == nil || s.db == nil {
		return storage.Run{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.Run{}, fmt.Errorf("run id is required")
	}

	var run storage.Run
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(runBucket))
		if bucket == nil {
			return fmt.Errorf("run bucket is missing")
		}
		payload := bucket.Get(runKey(id))
		if payload == nil {
			return storage.ErrNotFound
		}
		return decodeRun(payload, &run)
	})
	if err != nil {
		return storage.Run{}, err
	}
	return run, nil
}

// ListRuns returns up to limit runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]storage.Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}

	runs := make([]storage.Run, 0, limit)
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(runBucket))
		byTime := tx.Bucket([]byte(runTimeBucket))
		if bucket == nil || byTime == nil {
			return fmt.Errorf("run buckets are missing")
		}
		c := byTime.Cursor()
		for k, id := c.Last(); k != nil && len(runs) < limit; k, id = c.Prev() {
			payload := bucket.Get(id)
			if payload == nil {
				return fmt.Errorf("run %s is indexed but missing", id)
			}
			var run storage.Run
			if err := decodeRun(payload, &run); err != nil {
				return err
			}
			runs = append(runs, run)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return runs, nil
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{runBucket, runTimeBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

func decodeRun(payload []byte, run *storage.Run) error {
	if err := json.Unmarshal(payload, run); err != nil {
		return fmt.Errorf("unmarshal run: %w", err)
	}
	return nil
}

func runKey(id string) []byte {
	return []byte(id)
}

// timeKey orders keys by creation time, then by reversed ID so that runs
// created in the same millisecond list in ascending ID order when walked
// backwards.
func timeKey(createdAt time.Time, id string) []byte {
	var buf bytes.Buffer
	var millis [8]byte
	binary.BigEndian.PutUint64(millis[:], uint64(createdAt.UnixMilli()))
	buf.Write(millis[:])
	for _, b := range []byte(id) {
		buf.WriteByte(^b)
	}
	return buf.Bytes()
}

var _ storage.RunStore = (*Store)(nil)
