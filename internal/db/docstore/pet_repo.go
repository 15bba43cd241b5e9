package docstore

import (
	"context"
	"errors"
	"fmt"

	"HappyDog/internal/core/pets"
)

// PetRepository implements pets.Repository.
type PetRepository struct {
	store *Store
}

// NewPetRepository creates a pet repository.
func NewPetRepository(store *Store) *PetRepository {
	return &PetRepository{store: store}
}

func (r *PetRepository) GetByID(ctx context.Context, petID string) (*pets.Pet, error) {
	var p pets.Pet
	if err := r.store.Get(ctx, Pets, petID, &p); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, pets.ErrNotFound
		}
		return nil, fmt.Errorf("getting pet: %w", err)
	}
	return &p, nil
}

func (r *PetRepository) FirstByOwner(ctx context.Context, userID string) (*pets.Pet, error) {
	docs, _, err := r.store.QueryDocs(ctx, Pets, Query{
		Filters: []Filter{{Path: "owner_user_id", Value: userID}},
		OrderBy: "created_at",
		Limit:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("querying pets by owner: %w", err)
	}
	if len(docs) == 0 {
		return nil, pets.ErrNotFound
	}
	var p pets.Pet
	if err := unmarshalDoc(docs[0], &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateWithSettings writes the pet and its seeded care settings in one
// transaction so registration is never partial.
func (r *PetRepository) CreateWithSettings(ctx context.Context, pet *pets.Pet, settings *pets.CareSettings) error {
	return r.store.Transaction(ctx, func(tx *Tx) error {
		if err := tx.Set(ctx, Pets, pet.PetID, pet); err != nil {
			return err
		}
		return tx.Set(ctx, PetSettings, settings.PetID, settings)
	})
}

func (r *PetRepository) GetSettings(ctx context.Context, petID string) (*pets.CareSettings, error) {
	var s pets.CareSettings
	if err := r.store.Get(ctx, PetSettings, petID, &s); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, pets.ErrNotFound
		}
		return nil, fmt.Errorf("getting care settings: %w", err)
	}
	return &s, nil
}

// MarkVerified commits all three admission fields together so a reader
// never observes is_verified without the ordinal.
func (r *PetRepository) MarkVerified(ctx context.Context, petID, nosePrintURL string, vectorIndexID int) error {
	err := r.store.Transaction(ctx, func(tx *Tx) error {
		return tx.Update(ctx, Pets, petID, map[string]any{
			"is_verified":     true,
			"nose_print_url":  nosePrintURL,
			"vector_index_id": vectorIndexID,
		})
	})
	if errors.Is(err, ErrNotFound) {
		return pets.ErrNotFound
	}
	return err
}

func (r *PetRepository) CreateRecord(ctx context.Context, rec *pets.CareRecord) error {
	return r.store.Set(ctx, CareRecords, rec.LogID, rec)
}

func (r *PetRepository) ListRecordsByDate(ctx context.Context, petID, date string) ([]*pets.CareRecord, error) {
	var out []*pets.CareRecord
	cursor := ""
	for {
		docs, next, err := r.store.QueryDocs(ctx, CareRecords, Query{
			Filters: []Filter{
				{Path: "pet_id", Value: petID},
				{Path: "search_date", Value: date},
			},
			OrderBy: "event_time",
			Limit:   100,
			Cursor:  cursor,
		})
		if err != nil {
			return nil, fmt.Errorf("querying care records: %w", err)
		}
		for _, raw := range docs {
			var rec pets.CareRecord
			if err := unmarshalDoc(raw, &rec); err != nil {
				return nil, err
			}
			out = append(out, &rec)
		}
		if next == "" {
			return out, nil
		}
		cursor = next
	}
}
