package storage

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	analyzedBucket = "analyzed"
	// value layout: analyzed-at unix seconds, then expiry unix seconds.
	recordBytes = 16
)

// boltStore implements a Store backed by BoltDB.
type boltStore struct {
	db              *bolt.DB
	now             func() time.Time
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	ttl             time.Duration
	cleanupInterval time.Duration
}

func openBolt(path string, opts Options) (*boltStore, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(analyzedBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{
		db:              db,
		now:             time.Now,
		ttl:             opts.TTL,
		cleanupInterval: opts.CleanupInterval,
	}
	store.lastCleanup.Store(store.now().Unix())
	return store, nil
}

func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Analyzed reports whether id was marked within the TTL. Expired records are
// deleted on read.
func (b *boltStore) Analyzed(id string) (bool, error) {
	if b == nil || b.db == nil {
		return false, nil
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return false, err
	}

	var found bool
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := bucketOf(tx)
		if err != nil {
			return err
		}

		key := []byte(id)
		value := bucket.Get(key)
		if value == nil {
			return nil
		}
		if _, expiry, ok := decodeRecord(value); !ok || !expiry.After(now) {
			return bucket.Delete(key)
		}
		found = true
		return nil
	})
	return found, err
}

// MarkAnalyzed records id as analyzed now.
func (b *boltStore) MarkAnalyzed(id string) error {
	if b == nil || b.db == nil {
		return nil
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := bucketOf(tx)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(id), encodeRecord(now, now.Add(b.ttl)))
	})
}

// AnalyzedAt returns when id was last marked, if it is still retained.
func (b *boltStore) AnalyzedAt(id string) (time.Time, bool, error) {
	var (
		at    time.Time
		found bool
	)
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket, err := bucketOf(tx)
		if err != nil {
			return err
		}
		if value := bucket.Get([]byte(id)); value != nil {
			at, _, found = decodeRecord(value)
		}
		return nil
	})
	return at, found, err
}

// maybeCleanupExpired sweeps expired records at most once per cleanup interval.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	last := time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	last = time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := bucketOf(tx)
		if err != nil {
			return err
		}

		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			if _, expiry, ok := decodeRecord(v); !ok || !expiry.After(now) {
				if err := cursor.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return err
}

func bucketOf(tx *bolt.Tx) (*bolt.Bucket, error) {
	bucket := tx.Bucket([]byte(analyzedBucket))
	if bucket == nil {
		return nil, fmt.Errorf("analyzed bucket missing")
	}
	return bucket, nil
}

func encodeRecord(at, expiry time.Time) []byte {
	buf := make([]byte, recordBytes)
	binary.BigEndian.PutUint64(buf[:8], uint64(at.Unix()))
	binary.BigEndian.PutUint64(buf[8:], uint64(expiry.Unix()))
	return buf
}

func decodeRecord(value []byte) (at, expiry time.Time, ok bool) {
	if len(value) != recordBytes {
		return time.Time{}, time.Time{}, false
	}
	atUnix := int64(binary.BigEndian.Uint64(value[:8]))
	expUnix := int64(binary.BigEndian.Uint64(value[8:]))
	if atUnix <= 0 || expUnix <= 0 {
		return time.Time{}, time.Time{}, false
	}
	return time.Unix(atUnix, 0), time.Unix(expUnix, 0), true
}
