package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	domrepo "FishCast/internal/domain/repository"
)

const modelsBucket = "models"

// ErrModelStoreLocked is returned when another process holds the store file.
var ErrModelStoreLocked = errors.New("model store is locked by another process")

// BoltModelStore keeps model artifacts in a single bbolt file, one key per
// species in the "models" bucket.
type BoltModelStore struct {
	db *bolt.DB
}

var _ domrepo.ModelStore = (*BoltModelStore)(nil)

type boltOptions struct {
	lockTimeout time.Duration
}

// BoltOption configures OpenBoltModelStore.
type BoltOption func(*boltOptions)

// WithBoltLockTimeout bounds the wait for the file lock.
func WithBoltLockTimeout(d time.Duration) BoltOption {
	return func(o *boltOptions) {
		if d > 0 {
			o.lockTimeout = d
		}
	}
}

// OpenBoltModelStore opens or creates the store file, creating parent
// directories as needed. bbolt locks the file for the life of the handle, so a
// second process gets ErrModelStoreLocked once the lock timeout passes.
func OpenBoltModelStore(path string, opts ...BoltOption) (*BoltModelStore, error) {
	o := boltOptions{lockTimeout: time.Second}
	for _, opt := range opts {
		opt(&o)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create model dir: %w", err)
		}
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: o.lockTimeout})
	if errors.Is(err, bolt.ErrTimeout) {
		return nil, fmt.Errorf("open model store %s: %w", path, ErrModelStoreLocked)
	}
	if err != nil {
		return nil, fmt.Errorf("open model store: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(modelsBucket))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create models bucket: %w", err)
	}
	return &BoltModelStore{db: db}, nil
}

func (s *BoltModelStore) Load(_ context.Context, species string) ([]byte, bool, error) {
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(modelsBucket)).Get([]byte(species))
		if v != nil {
			out = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("load model: %w", err)
	}
	return out, out != nil, nil
}

func (s *BoltModelStore) Save(_ context.Context, species string, b []byte) error {
	if err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(modelsBucket)).Put([]byte(species), b)
	}); err != nil {
		return fmt.Errorf("put model: %w", err)
	}
	return nil
}

// Species lists the species with a stored artifact, in key order.
func (s *BoltModelStore) Species() ([]string, error) {
	var keys []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(modelsBucket)).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	return keys, err
}

func (s *BoltModelStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close model store: %w", err)
	}
	return nil
}
