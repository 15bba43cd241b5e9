package pets

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"HappyDog/internal/clock"
)

type mockPetRepository struct {
	mock.Mock
}

func (m *mockPetRepository) GetByID(ctx context.Context, petID string) (*Pet, error) {
	args := m.Called(ctx, petID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Pet), args.Error(1)
}

func (m *mockPetRepository) FirstByOwner(ctx context.Context, userID string) (*Pet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Pet), args.Error(1)
}

func (m *mockPetRepository) CreateWithSettings(ctx context.Context, pet *Pet, settings *CareSettings) error {
	args := m.Called(ctx, pet, settings)
	return args.Error(0)
}

func (m *mockPetRepository) GetSettings(ctx context.Context, petID string) (*CareSettings, error) {
	args := m.Called(ctx, petID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CareSettings), args.Error(1)
}

func (m *mockPetRepository) MarkVerified(ctx context.Context, petID, url string, vectorIndexID int) error {
	args := m.Called(ctx, petID, url, vectorIndexID)
	return args.Error(0)
}

func (m *mockPetRepository) CreateRecord(ctx context.Context, rec *CareRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *mockPetRepository) ListRecordsByDate(ctx context.Context, petID, date string) ([]*CareRecord, error) {
	args := m.Called(ctx, petID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*CareRecord), args.Error(1)
}

type mockBreedRepository struct {
	mock.Mock
}

func (m *mockBreedRepository) IdealWeight(ctx context.Context, breed string, gender Gender) (*float64, bool, error) {
	args := m.Called(ctx, breed, gender)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*float64), args.Bool(1), args.Error(2)
}

func validRegisterRequest() RegisterRequest {
	return RegisterRequest{
		OwnerUserID:     "user-1",
		Name:            "Mung",
		Gender:          GenderMale,
		Breed:           "Jindo",
		Birthdate:       "2022-05-01",
		InitialWeightKg: 10,
	}
}

func TestRegister_SeedsCareSettings(t *testing.T) {
	repo := new(mockPetRepository)
	breeds := new(mockBreedRepository)
	ideal := 12.5
	breeds.On("IdealWeight", mock.Anything, "Jindo", GenderMale).Return(&ideal, true, nil)
	repo.On("CreateWithSettings", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := NewService(repo, breeds, clock.Fixed(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)), nil, true)
	pet, settings, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, pet.PetID)
	assert.False(t, pet.IsVerified)
	assert.Equal(t, pet.PetID, settings.PetID)
	assert.Equal(t, 12.5, settings.GoalWeightKg)
	assert.Equal(t, 600, settings.WaterBowlCapacityMl) // 10kg * 60ml
	assert.Equal(t, 120, settings.WaterIncrementMl)    // 20% of capacity
	assert.Equal(t, 30, settings.GoalActivityMinutes)
	assert.Equal(t, 10, settings.ActivityIncrementMinutes)
	assert.Equal(t, 3, settings.GoalMealCount)
	assert.Equal(t, 1, settings.MealIncrementCount)
	repo.AssertExpectations(t)
}

func TestRegister_UnknownBreedStrict(t *testing.T) {
	repo := new(mockPetRepository)
	breeds := new(mockBreedRepository)
	breeds.On("IdealWeight", mock.Anything, "Chupacabra", GenderFemale).Return(nil, false, nil)

	svc := NewService(repo, breeds, clock.UTC{}, nil, true)
	req := validRegisterRequest()
	req.Breed = "Chupacabra"
	req.Gender = GenderFemale

	_, _, err := svc.Register(context.Background(), req)
	assert.True(t, IsValidationError(err))
	repo.AssertNotCalled(t, "CreateWithSettings", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegister_UnknownBreedPermissive(t *testing.T) {
	repo := new(mockPetRepository)
	breeds := new(mockBreedRepository)
	breeds.On("IdealWeight", mock.Anything, "Chupacabra", GenderMale).Return(nil, false, nil)
	repo.On("CreateWithSettings", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := NewService(repo, breeds, clock.UTC{}, nil, false)
	req := validRegisterRequest()
	req.Breed = "Chupacabra"

	_, settings, err := svc.Register(context.Background(), req)
	require.NoError(t, err)
	// Falls back to the registered weight when no breed-table entry exists.
	assert.Equal(t, 10.0, settings.GoalWeightKg)
}

func TestRegister_KnownBreedWithoutGenderWeight(t *testing.T) {
	repo := new(mockPetRepository)
	breeds := new(mockBreedRepository)
	breeds.On("IdealWeight", mock.Anything, "Jindo", GenderMale).Return(nil, true, nil)
	repo.On("CreateWithSettings", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := NewService(repo, breeds, clock.UTC{}, nil, true)
	_, settings, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)
	assert.Equal(t, 10.0, settings.GoalWeightKg)
}

func TestRegister_WaterIncrementFloor(t *testing.T) {
	repo := new(mockPetRepository)
	breeds := new(mockBreedRepository)
	breeds.On("IdealWeight", mock.Anything, mock.Anything, mock.Anything).Return(nil, true, nil)
	repo.On("CreateWithSettings", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := NewService(repo, breeds, clock.UTC{}, nil, true)
	req := validRegisterRequest()
	req.InitialWeightKg = 0.05 // capacity rounds to 3ml, 20% rounds to 1

	_, settings, err := svc.Register(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 3, settings.WaterBowlCapacityMl)
	assert.Equal(t, 1, settings.WaterIncrementMl)
}

func TestRegister_Validation(t *testing.T) {
	svc := NewService(new(mockPetRepository), new(mockBreedRepository), clock.UTC{}, nil, true)

	cases := []struct {
		name   string
		mutate func(*RegisterRequest)
	}{
		{"missing name", func(r *RegisterRequest) { r.Name = "" }},
		{"bad gender", func(r *RegisterRequest) { r.Gender = "OTHER" }},
		{"missing breed", func(r *RegisterRequest) { r.Breed = "" }},
		{"zero weight", func(r *RegisterRequest) { r.InitialWeightKg = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRegisterRequest()
			tc.mutate(&req)
			_, _, err := svc.Register(context.Background(), req)
			assert.True(t, IsValidationError(err))
		})
	}
}

func TestCreateRecord_DerivesSearchDateInUTC(t *testing.T) {
	repo := new(mockPetRepository)
	repo.On("GetByID", mock.Anything, "pet-1").Return(&Pet{PetID: "pet-1", OwnerUserID: "user-1"}, nil)
	repo.On("CreateRecord", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(repo, new(mockBreedRepository), clock.UTC{}, nil, true)
	kst := time.FixedZone("KST", 9*3600)
	rec, err := svc.CreateRecord(context.Background(), CreateRecordRequest{
		PetID:      "pet-1",
		CallerID:   "user-1",
		RecordType: RecordWater,
		EventTime:  time.Date(2025, 3, 10, 1, 30, 0, 0, kst),
		Data:       150,
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-09", rec.SearchDate)
}

func TestCreateRecord_OwnershipAndType(t *testing.T) {
	repo := new(mockPetRepository)
	repo.On("GetByID", mock.Anything, "pet-1").Return(&Pet{PetID: "pet-1", OwnerUserID: "user-1"}, nil)

	svc := NewService(repo, new(mockBreedRepository), clock.UTC{}, nil, true)

	_, err := svc.CreateRecord(context.Background(), CreateRecordRequest{
		PetID: "pet-1", CallerID: "intruder", RecordType: RecordMeal, EventTime: time.Now(),
	})
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = svc.CreateRecord(context.Background(), CreateRecordRequest{
		PetID: "pet-1", CallerID: "user-1", RecordType: "naps", EventTime: time.Now(),
	})
	assert.True(t, IsValidationError(err))
}
