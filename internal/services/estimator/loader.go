package estimator

import (
	"context"
	"fmt"

	"FishCast/internal/domain/models"
	"FishCast/internal/domain/repository"
)

// LoadModel fetches and decodes the artifact for species. A missing artifact
// or a nil store yields ModelAbsent with no error.
func LoadModel(ctx context.Context, store repository.ModelStore, species string) (models.ModelResult, error) {
	if store == nil {
		return models.ModelAbsent(), nil
	}
	b, ok, err := store.Load(ctx, NormalizeSpecies(species))
	if err != nil {
		return models.ModelAbsent(), fmt.Errorf("load model %s: %w", species, err)
	}
	if !ok {
		return models.ModelAbsent(), nil
	}
	m, err := DecodeModel(b)
	if err != nil {
		return models.ModelAbsent(), fmt.Errorf("load model %s: %w", species, err)
	}
	return models.ModelFound(m), nil
}

// SaveModel encodes m and writes it under its species.
func SaveModel(ctx context.Context, store repository.ModelStore, m *LinearModel) error {
	b, err := EncodeModel(m)
	if err != nil {
		return err
	}
	if err := store.Save(ctx, m.SpeciesName, b); err != nil {
		return fmt.Errorf("save model %s: %w", m.SpeciesName, err)
	}
	return nil
}
