package repository

import (
	"context"
	"errors"
	"fmt"

	domrepo "FishCast/internal/domain/repository"
	"FishCast/pkg/cache"
)

// CacheModelStore keeps artifacts in the shared cache under model:<species>
// with no expiry.
type CacheModelStore struct {
	c cache.Service
}

var _ domrepo.ModelStore = (*CacheModelStore)(nil)

func NewCacheModelStore(c cache.Service) *CacheModelStore {
	return &CacheModelStore{c: c}
}

func ModelKey(species string) string {
	return cache.GenerateKey("model", species)
}

func (s *CacheModelStore) Load(ctx context.Context, species string) ([]byte, bool, error) {
	var b []byte
	if err := s.c.Get(ctx, ModelKey(species), &b); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("load model: %w", err)
	}
	return b, true, nil
}

func (s *CacheModelStore) Save(ctx context.Context, species string, b []byte) error {
	if err := s.c.Set(ctx, ModelKey(species), b, 0); err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	return nil
}

// ErrModelStoreDisabled is returned by NoModelStore.Save.
var ErrModelStoreDisabled = errors.New("model store is disabled")

// NoModelStore never has a model, so every prediction takes the heuristic
// path.
type NoModelStore struct{}

var _ domrepo.ModelStore = NoModelStore{}

func (NoModelStore) Load(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (NoModelStore) Save(context.Context, string, []byte) error { return ErrModelStoreDisabled }
