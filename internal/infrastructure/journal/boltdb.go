package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Store wraps BoltDB to persist pending reward credits across restarts.
type Store struct {
	db     *bolt.DB
	bucket []byte
}

// Open initializes the BoltDB file and ensures the bucket exists.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	bucket := []byte("pending_credits")
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:     db,
		bucket: bucket,
	}, nil
}

// Enqueue journals a pending credit under a replay-ordered key.
func (s *Store) Enqueue(credit PendingCredit) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	credit.normalize()
	credit.bucketKey = []byte(buildKey(credit))

	payload, err := json.Marshal(credit)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put(credit.bucketKey, payload)
	})
}

// Batch returns up to limit credits in enqueue order without removing them.
func (s *Store) Batch(limit int) ([]PendingCredit, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	if limit <= 0 {
		limit = 50
	}

	var credits []PendingCredit
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(s.bucket).Cursor()
		for k, v := c.First(); k != nil && len(credits) < limit; k, v = c.Next() {
			var credit PendingCredit
			if err := json.Unmarshal(v, &credit); err != nil {
				continue
			}
			credit.bucketKey = append([]byte(nil), k...)
			credits = append(credits, credit)
		}
		return nil
	})
	return credits, err
}

// Remove deletes a journaled credit.
func (s *Store) Remove(credit PendingCredit) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	if len(credit.bucketKey) == 0 {
		return s.deleteByID(credit.ID)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Delete(credit.bucketKey)
	})
}

// Requeue re-journals a credit at the back of the replay order.
func (s *Store) Requeue(credit PendingCredit) error {
	credit.bucketKey = nil
	credit.EnqueuedAt = time.Now().UTC()
	return s.Enqueue(credit)
}

// Size returns the number of journaled credits.
func (s *Store) Size() (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	var count int
	err := s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(s.bucket).Stats().KeyN
		return nil
	})
	return count, err
}

// Purge drops every journaled credit.
func (s *Store) Purge() error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(s.bucket); err != nil {
			return err
		}
		_, err := tx.CreateBucket(s.bucket)
		return err
	})
}

// Close closes the Bolt database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) deleteByID(id string) error {
	if id == "" {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		c := tx.Bucket(s.bucket).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var credit PendingCredit
			if err := json.Unmarshal(v, &credit); err != nil {
				continue
			}
			if credit.ID == id {
				return c.Delete()
			}
		}
		return nil
	})
}

func buildKey(credit PendingCredit) string {
	return fmt.Sprintf("%020d_%s", credit.EnqueuedAt.UnixNano(), credit.ID)
}
