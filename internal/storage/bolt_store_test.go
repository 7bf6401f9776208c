package storage

import (
	"path/filepath"
	"testing"
	"time"
)

func TestBoltStoreMarksAndExpiresArticles(t *testing.T) {
	store, err := openBolt(filepath.Join(t.TempDir(), "nested", "analyzed.db"), Options{
		TTL:             time.Hour,
		CleanupInterval: time.Hour,
	})
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	defer store.Close()

	clock := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }
	store.lastCleanup.Store(clock.Unix())

	seen, err := store.Analyzed("id1")
	if err != nil || seen {
		t.Fatalf("expected unseen article, seen=%v err=%v", seen, err)
	}

	if err := store.MarkAnalyzed("id1"); err != nil {
		t.Fatalf("MarkAnalyzed: %v", err)
	}

	seen, err = store.Analyzed("id1")
	if err != nil || !seen {
		t.Fatalf("expected article marked as analyzed, got seen=%v err=%v", seen, err)
	}
	at, ok, err := store.AnalyzedAt("id1")
	if err != nil || !ok || !at.Equal(clock) {
		t.Fatalf("AnalyzedAt = %v, %v, %v", at, ok, err)
	}

	clock = clock.Add(2 * time.Hour)

	seen, err = store.Analyzed("id1")
	if err != nil {
		t.Fatalf("Analyzed after expiry: %v", err)
	}
	if seen {
		t.Fatalf("expected entry to expire")
	}
	if _, ok, _ := store.AnalyzedAt("id1"); ok {
		t.Fatalf("expired entry should have been removed")
	}
}

func TestBoltStoreCleanupSweepsOtherKeys(t *testing.T) {
	store, err := openBolt(filepath.Join(t.TempDir(), "analyzed.db"), Options{
		TTL:             time.Minute,
		CleanupInterval: time.Minute,
	})
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	defer store.Close()

	clock := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }
	store.lastCleanup.Store(clock.Unix())

	if err := store.MarkAnalyzed("old"); err != nil {
		t.Fatalf("MarkAnalyzed: %v", err)
	}

	clock = clock.Add(5 * time.Minute)
	if err := store.MarkAnalyzed("new"); err != nil {
		t.Fatalf("MarkAnalyzed: %v", err)
	}

	if _, ok, _ := store.AnalyzedAt("old"); ok {
		t.Fatalf("cleanup should have removed the expired key")
	}
	if _, ok, _ := store.AnalyzedAt("new"); !ok {
		t.Fatalf("fresh key missing")
	}
}

func TestNewStore(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.MarkAnalyzed("x"); err != nil {
		t.Fatalf("noop MarkAnalyzed: %v", err)
	}
	if seen, _ := store.Analyzed("x"); seen {
		t.Fatalf("noop store should never report analyzed")
	}

	if _, err := NewStore("bbolt", " ", Options{}); err == nil {
		t.Fatalf("expected error for bbolt without path")
	}
	if _, err := NewStore("redis", "", Options{}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
}
