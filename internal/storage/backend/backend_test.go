package backend

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/louisbranch/airfoil/internal/storage"
	"github.com/louisbranch/airfoil/internal/storage/bbolt"
	"github.com/louisbranch/airfoil/internal/storage/sqlite"
)

func TestKindFor(t *testing.T) {
	tcs := map[string]Kind{
		"runs.db":          KindSQLite,
		"runs.sqlite":      KindSQLite,
		"runs":             KindSQLite,
		"runs.bolt":        KindBolt,
		"/tmp/RUNS.BBOLT":  KindBolt,
		"dir.bolt/runs.db": KindSQLite,
	}
	for path, want := range tcs {
		if got := KindFor(path); got != want {
			t.Fatalf("KindFor(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestOpenPicksImplementation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sqliteStore, err := Open(filepath.Join(dir, "runs.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer sqliteStore.Close()
	if _, ok := sqliteStore.(*sqlite.Store); !ok {
		t.Fatalf("runs.db store = %T, want *sqlite.Store", sqliteStore)
	}

	boltStore, err := Open(filepath.Join(dir, "runs.bolt"))
	if err != nil {
		t.Fatalf("open bolt: %v", err)
	}
	defer boltStore.Close()
	if _, ok := boltStore.(*bbolt.Store); !ok {
		t.Fatalf("runs.bolt store = %T, want *bbolt.Store", boltStore)
	}
}

func TestStoresAgreeOnListing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	base := time.Date(2026, time.April, 1, 9, 0, 0, 0, time.UTC)
	for _, name := range []string{"runs.db", "runs.bolt"} {
		store, err := Open(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		for i, id := range []string{"b", "a", "c"} {
			run := storage.Run{ID: id, Model: "plane", SampleSize: 10, CreatedAt: base.Add(time.Duration(i/2) * time.Minute)}
			if err := store.PutRun(context.Background(), run); err != nil {
				t.Fatalf("%s: put %s: %v", name, id, err)
			}
		}
		runs, err := store.ListRuns(context.Background(), 5)
		if err != nil {
			t.Fatalf("%s: list: %v", name, err)
		}
		got := make([]string, 0, len(runs))
		for _, run := range runs {
			got = append(got, run.ID)
		}
		if len(got) != 3 || got[0] != "c" || got[1] != "a" || got[2] != "b" {
			t.Fatalf("%s: order = %v, want [c a b]", name, got)
		}
		if err := store.Close(); err != nil {
			t.Fatalf("%s: close: %v", name, err)
		}
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("expected empty path error")
	}
}
