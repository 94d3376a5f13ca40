package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/kmcdade/finboard/internal/common"
	"github.com/kmcdade/finboard/internal/config"
	"github.com/kmcdade/finboard/internal/interfaces"
)

func setupTestDB(t *testing.T) (*BadgerDB, func()) {
	t.Helper()

	dir := t.TempDir()
	logger := common.NewSilentLogger()

	cfg := &config.BadgerConfig{Path: dir}
	db, err := NewBadgerDB(logger, cfg)
	if err != nil {
		t.Fatalf("failed to create test DB: %v", err)
	}

	cleanup := func() {
		db.Close()
	}

	return db, cleanup
}

func TestKVStorage_SetAndGet(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	kv := NewKVStorage(db, common.NewSilentLogger())
	ctx := context.Background()

	if err := kv.Set(ctx, "portfolio", `[{"symbol":"AAPL"}]`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, err := kv.Get(ctx, "portfolio")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if val != `[{"symbol":"AAPL"}]` {
		t.Errorf("unexpected value: %s", val)
	}
}

func TestKVStorage_GetNotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	kv := NewKVStorage(db, common.NewSilentLogger())

	_, err := kv.Get(context.Background(), "nonexistent-key")
	if err == nil {
		t.Fatal("expected error for nonexistent key, got nil")
	}
	if !errors.Is(err, interfaces.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestKVStorage_Upsert(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	kv := NewKVStorage(db, common.NewSilentLogger())
	ctx := context.Background()

	if err := kv.Set(ctx, "key", "value1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := kv.Set(ctx, "key", "value2"); err != nil {
		t.Fatalf("Set (upsert) failed: %v", err)
	}

	val, err := kv.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if val != "value2" {
		t.Errorf("expected value2 after upsert, got %s", val)
	}
}

func TestKVStorage_Delete(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	kv := NewKVStorage(db, common.NewSilentLogger())
	ctx := context.Background()

	if err := kv.Set(ctx, "key", "value"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := kv.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := kv.Get(ctx, "key"); !errors.Is(err, interfaces.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting a missing key is not an error
	if err := kv.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete of missing key should be nil, got %v", err)
	}
}

func TestKVStorage_GetAll(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	kv := NewKVStorage(db, common.NewSilentLogger())
	ctx := context.Background()

	pairs := map[string]string{
		"portfolio": "[]",
		"goals":     "[]",
		"cache":     "{}",
	}
	for k, v := range pairs {
		if err := kv.Set(ctx, k, v); err != nil {
			t.Fatalf("Set %s failed: %v", k, err)
		}
	}

	all, err := kv.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != len(pairs) {
		t.Errorf("expected %d entries, got %d", len(pairs), len(all))
	}
	for k, v := range pairs {
		if all[k] != v {
			t.Errorf("key %s: expected %s, got %s", k, v, all[k])
		}
	}
}
