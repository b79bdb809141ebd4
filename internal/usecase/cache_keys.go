package usecase

import (
	"FishCast/internal/services/estimator"
	"FishCast/pkg/cache"
)

const (
	PredictionCachePrefix = "prediction"
	CompareCachePrefix    = "compare"
)

// PredictionCacheKey is prediction:<species>:<request hash>. Keeping the
// species in the key lets training drop one species' entries.
func PredictionCacheKey(species, hash string) string {
	return cache.GenerateKeyWithParams(PredictionCachePrefix, estimator.NormalizeSpecies(species), hash)
}

// PredictionCachePattern matches every cached prediction for species.
func PredictionCachePattern(species string) string {
	return cache.BuildPattern(cache.GenerateKeyWithParams(PredictionCachePrefix, estimator.NormalizeSpecies(species)) + ":")
}

// CompareCacheKey is compare:<request hash>.
func CompareCacheKey(hash string) string {
	return cache.GenerateKey(CompareCachePrefix, hash)
}
