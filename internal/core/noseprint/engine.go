// Package noseprint is the biometric admission engine: it decides
// whether a staged nose-print image is admitted as a pet's unique
// biometric, rejecting duplicates and outliers against the vector
// index.
package noseprint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"HappyDog/internal/core/pets"
	"HappyDog/internal/ml"
	"HappyDog/internal/storage"
	"HappyDog/internal/vecindex"
)

// Admission statuses.
const (
	StatusSuccess         = "SUCCESS"
	StatusDuplicate       = "DUPLICATE"
	StatusInvalidImage    = "INVALID_IMAGE"
	StatusAlreadyVerified = "ALREADY_VERIFIED"
	StatusError           = "ERROR"
)

// ErrNotOwner is returned when the caller does not own the pet.
var ErrNotOwner = errors.New("caller does not own this pet")

// Result is the admission outcome. Distance and NearestID are set for
// DUPLICATE and INVALID_IMAGE outcomes; NearestID never discloses the
// owning pet.
type Result struct {
	Status    string   `json:"status"`
	Message   string   `json:"message"`
	Distance  *float32 `json:"distance,omitempty"`
	NearestID *uint32  `json:"nearest_id,omitempty"`
}

// Engine runs admissions. The ML calls happen with no lock held; the
// index lock covers only the count-search-commit-add decision phase.
type Engine struct {
	pets      pets.Repository
	store     storage.Store
	detector  ml.Detector
	extractor ml.Extractor
	index     *vecindex.Index

	duplicateThresh float32
	outlierThresh   float32
	logger          *slog.Logger
}

// NewEngine wires the admission collaborators. Thresholds are squared
// L2 distances.
func NewEngine(petRepo pets.Repository, store storage.Store, detector ml.Detector, extractor ml.Extractor, index *vecindex.Index, duplicateThresh, outlierThresh float32, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		pets:            petRepo,
		store:           store,
		detector:        detector,
		extractor:       extractor,
		index:           index,
		duplicateThresh: duplicateThresh,
		outlierThresh:   outlierThresh,
		logger:          logger,
	}
}

// Admit runs the full admission pipeline for one staged image.
func (e *Engine) Admit(ctx context.Context, petID, callerUserID, stagingKey string) (*Result, error) {
	pet, err := e.pets.GetByID(ctx, petID)
	if err != nil {
		return nil, err
	}
	if pet.OwnerUserID != callerUserID {
		return nil, ErrNotOwner
	}
	if pet.IsVerified {
		return &Result{Status: StatusAlreadyVerified, Message: "pet already has a verified nose print"}, nil
	}

	// Read phase: download, detect, embed. No locks held across these
	// network calls.
	image, err := e.store.Download(ctx, stagingKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			e.logger.Warn("staged nose print missing", "pet", petID, "key", stagingKey)
			return &Result{Status: StatusError, Message: "staged image not found"}, nil
		}
		return nil, fmt.Errorf("downloading staged image: %w", err)
	}

	crop, err := e.detector.DetectNose(ctx, image)
	if err != nil {
		// A detector miss must not block an otherwise valid biometric;
		// the extractor tolerates whole-image input.
		e.logger.Warn("nose detection failed, embedding whole image", "pet", petID, "error", err)
		crop = image
	}

	vector, err := e.extractor.ExtractEmbedding(ctx, crop)
	if err != nil {
		return nil, fmt.Errorf("extracting embedding: %w", err)
	}

	// Decision phase under the single-writer lock.
	var result *Result
	err = e.index.WithWriter(func(w *vecindex.Writer) error {
		if w.Count() > 0 {
			nearest, dist, ok := w.Search(vector)
			if !ok {
				return vecindex.ErrDimension
			}
			switch {
			case dist <= e.duplicateThresh:
				result = &Result{
					Status:    StatusDuplicate,
					Message:   "nose print already registered to another pet",
					Distance:  &dist,
					NearestID: &nearest,
				}
				return nil
			case dist >= e.outlierThresh:
				result = &Result{
					Status:    StatusInvalidImage,
					Message:   "image does not look like a dog nose print",
					Distance:  &dist,
					NearestID: &nearest,
				}
				return nil
			}
		}

		ordinal := uint32(w.Count())

		publicURL, err := e.store.MakePublic(ctx, stagingKey)
		if err != nil {
			return fmt.Errorf("promoting nose print: %w", err)
		}

		// The database commit precedes the index insert: a crash here
		// leaves a committed ordinal with no vector, which a boot-time
		// replay of pet documents can repair. The reverse order could
		// leave an ordinal no pet owns.
		if err := e.pets.MarkVerified(ctx, petID, publicURL, int(ordinal)); err != nil {
			return fmt.Errorf("marking pet verified: %w", err)
		}

		if _, err := w.Add(vector); err != nil {
			e.logger.Error("index insert failed after commit, replay needed",
				"pet", petID, "ordinal", ordinal, "error", err)
			result = &Result{Status: StatusError, Message: "verification recorded but index update failed"}
			return nil
		}

		result = &Result{Status: StatusSuccess, Message: "nose print registered"}
		e.logger.Info("nose print admitted", "pet", petID, "ordinal", ordinal)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
