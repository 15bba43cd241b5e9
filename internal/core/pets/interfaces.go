package pets

import "context"

// Service defines the business logic interface for pets and care records.
type Service interface {
	// Register creates a pet and seeds its care settings in one
	// transaction. Unknown breeds fail registration in strict mode.
	Register(ctx context.Context, req RegisterRequest) (*Pet, *CareSettings, error)

	// Get returns a pet with its care settings, owner-scoped.
	Get(ctx context.Context, petID, callerID string) (*Pet, *CareSettings, error)

	// CreateRecord logs one care event for an owned pet.
	CreateRecord(ctx context.Context, req CreateRecordRequest) (*CareRecord, error)

	// ListRecords returns the records for an owned pet on a YYYY-MM-DD date.
	ListRecords(ctx context.Context, petID, callerID, date string) ([]*CareRecord, error)
}

// Repository defines the data access interface for pets.
type Repository interface {
	GetByID(ctx context.Context, petID string) (*Pet, error)

	// FirstByOwner returns the owner's first pet. The one-pet-per-user
	// assumption on the social surface flows through here.
	FirstByOwner(ctx context.Context, userID string) (*Pet, error)

	// CreateWithSettings inserts the pet and its care settings atomically.
	CreateWithSettings(ctx context.Context, pet *Pet, settings *CareSettings) error

	GetSettings(ctx context.Context, petID string) (*CareSettings, error)

	// MarkVerified commits the biometric admission fields in one
	// transaction: is_verified, nose_print_url and vector_index_id.
	MarkVerified(ctx context.Context, petID, nosePrintURL string, vectorIndexID int) error

	CreateRecord(ctx context.Context, rec *CareRecord) error
	ListRecordsByDate(ctx context.Context, petID, date string) ([]*CareRecord, error)
}

// BreedRepository resolves breed-table ideal weights.
type BreedRepository interface {
	// IdealWeight returns the ideal weight for (breed, gender), nil when
	// the table has no entry for that gender, and whether the breed exists
	// in the table at all.
	IdealWeight(ctx context.Context, breed string, gender Gender) (weightKg *float64, breedKnown bool, err error)
}
