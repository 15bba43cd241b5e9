package pets

import (
	"context"
	"log/slog"
	"math"

	"HappyDog/internal/clock"
)

// Default care goals. Weight and water are derived from the pet; the rest
// are fixed starting points the owner tunes later.
const (
	defaultGoalActivityMinutes      = 30
	defaultActivityIncrementMinutes = 10
	defaultGoalMealCount            = 3
	defaultMealIncrementCount       = 1

	waterMlPerKg       = 60
	waterIncrementRate = 0.2
)

type petService struct {
	repo   Repository
	breeds BreedRepository
	clock  clock.Clock
	logger *slog.Logger
	strict bool
}

// NewService creates a pet service. strictBreeds controls whether unknown
// breeds reject registration (the default) or fall back to the initial
// weight (explicit permissive mode).
func NewService(repo Repository, breeds BreedRepository, clk clock.Clock, logger *slog.Logger, strictBreeds bool) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &petService{
		repo:   repo,
		breeds: breeds,
		clock:  clk,
		logger: logger,
		strict: strictBreeds,
	}
}

// Register creates the pet and seeds care settings atomically. Settings are
// derived deterministically from the registration inputs so re-reading a
// just-registered pet always returns them.
func (s *petService) Register(ctx context.Context, req RegisterRequest) (*Pet, *CareSettings, error) {
	if req.Name == "" {
		return nil, nil, NewValidationError("name", "name is required")
	}
	if req.Gender != GenderMale && req.Gender != GenderFemale {
		return nil, nil, NewValidationError("gender", "gender must be MALE or FEMALE")
	}
	if req.Breed == "" {
		return nil, nil, NewValidationError("breed", "breed is required")
	}
	if req.InitialWeightKg <= 0 {
		return nil, nil, NewValidationError("initial_weight_kg", "initial weight must be positive")
	}

	idealWeight, breedKnown, err := s.breeds.IdealWeight(ctx, req.Breed, req.Gender)
	if err != nil {
		return nil, nil, err
	}
	if !breedKnown && s.strict {
		return nil, nil, NewValidationError("breed", "unknown breed: "+req.Breed)
	}

	now := s.clock.Now()
	pet := &Pet{
		PetID:           clock.NewUUID(),
		OwnerUserID:     req.OwnerUserID,
		Name:            req.Name,
		Gender:          req.Gender,
		Breed:           req.Breed,
		Birthdate:       req.Birthdate,
		InitialWeightKg: req.InitialWeightKg,
		FurColor:        req.FurColor,
		HealthConcerns:  req.HealthConcerns,
		CreatedAt:       now,
	}
	settings := deriveCareSettings(pet, idealWeight)

	if err := s.repo.CreateWithSettings(ctx, pet, settings); err != nil {
		return nil, nil, err
	}

	s.logger.Info("pet registered",
		"pet_id", pet.PetID,
		"owner", pet.OwnerUserID,
		"breed", pet.Breed)
	return pet, settings, nil
}

// deriveCareSettings computes the seeded care settings. goal weight prefers
// the breed-table ideal for (breed, gender); water capacity scales with the
// registered weight.
func deriveCareSettings(pet *Pet, idealWeight *float64) *CareSettings {
	goalWeight := pet.InitialWeightKg
	if idealWeight != nil {
		goalWeight = *idealWeight
	}

	capacity := int(math.Round(pet.InitialWeightKg * waterMlPerKg))
	increment := int(math.Round(float64(capacity) * waterIncrementRate))
	if increment < 1 {
		increment = 1
	}

	return &CareSettings{
		PetID:                    pet.PetID,
		GoalWeightKg:             goalWeight,
		WaterBowlCapacityMl:      capacity,
		WaterIncrementMl:         increment,
		GoalActivityMinutes:      defaultGoalActivityMinutes,
		ActivityIncrementMinutes: defaultActivityIncrementMinutes,
		GoalMealCount:            defaultGoalMealCount,
		MealIncrementCount:       defaultMealIncrementCount,
	}
}

func (s *petService) Get(ctx context.Context, petID, callerID string) (*Pet, *CareSettings, error) {
	pet, err := s.ownedPet(ctx, petID, callerID)
	if err != nil {
		return nil, nil, err
	}
	settings, err := s.repo.GetSettings(ctx, petID)
	if err != nil {
		return nil, nil, err
	}
	return pet, settings, nil
}

func (s *petService) CreateRecord(ctx context.Context, req CreateRecordRequest) (*CareRecord, error) {
	switch req.RecordType {
	case RecordWeight, RecordWater, RecordActivity, RecordMeal:
	default:
		return nil, NewValidationError("record_type", "unknown record type: "+req.RecordType)
	}
	if req.EventTime.IsZero() {
		return nil, NewValidationError("event_time", "event time is required")
	}

	if _, err := s.ownedPet(ctx, req.PetID, req.CallerID); err != nil {
		return nil, err
	}

	rec := &CareRecord{
		LogID:      clock.NewUUID(),
		PetID:      req.PetID,
		RecordType: req.RecordType,
		EventTime:  req.EventTime,
		SearchDate: clock.SearchDate(req.EventTime),
		Data:       req.Data,
		Notes:      req.Notes,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.repo.CreateRecord(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *petService) ListRecords(ctx context.Context, petID, callerID, date string) ([]*CareRecord, error) {
	if _, err := s.ownedPet(ctx, petID, callerID); err != nil {
		return nil, err
	}
	return s.repo.ListRecordsByDate(ctx, petID, date)
}

// ownedPet loads a pet and enforces ownership.
func (s *petService) ownedPet(ctx context.Context, petID, callerID string) (*Pet, error) {
	pet, err := s.repo.GetByID(ctx, petID)
	if err != nil {
		return nil, err
	}
	if pet.OwnerUserID != callerID {
		return nil, ErrNotOwner
	}
	return pet, nil
}
