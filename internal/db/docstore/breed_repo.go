package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"HappyDog/internal/core/pets"
)

// breedDoc is the breed-table entry, keyed by the lowercased breed name.
// Ideal weights are per gender; a breed may have an entry without one.
type breedDoc struct {
	Name          string             `json:"name"`
	IdealWeightKg map[string]float64 `json:"ideal_weight_kg"`
}

// BreedRepository implements pets.BreedRepository over the breed table.
type BreedRepository struct {
	store *Store
}

// NewBreedRepository creates a breed repository.
func NewBreedRepository(store *Store) *BreedRepository {
	return &BreedRepository{store: store}
}

func (r *BreedRepository) IdealWeight(ctx context.Context, breed string, gender pets.Gender) (*float64, bool, error) {
	var doc breedDoc
	err := r.store.Get(ctx, Breeds, strings.ToLower(strings.TrimSpace(breed)), &doc)
	if errors.Is(err, ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("getting breed: %w", err)
	}

	w, ok := doc.IdealWeightKg[string(gender)]
	if !ok {
		return nil, true, nil
	}
	return &w, true, nil
}
