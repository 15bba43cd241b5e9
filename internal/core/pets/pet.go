// Package pets covers pet registration, ownership checks, care settings
// seeding and daily care records.
package pets

import "time"

// Gender of a pet.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

// Pet is the pet document. is_verified, nose_print_url and vector_index_id
// move together: a pet is verified iff both biometric fields are set.
type Pet struct {
	PetID           string    `json:"pet_id"`
	OwnerUserID     string    `json:"owner_user_id"`
	Name            string    `json:"name"`
	Gender          Gender    `json:"gender"`
	Breed           string    `json:"breed"`
	Birthdate       string    `json:"birthdate"` // YYYY-MM-DD
	InitialWeightKg float64   `json:"initial_weight_kg"`
	IsVerified      bool      `json:"is_verified"`
	NosePrintURL    *string   `json:"nose_print_url,omitempty"`
	VectorIndexID   *int      `json:"vector_index_id,omitempty"`
	FurColor        *string   `json:"fur_color,omitempty"`
	HealthConcerns  []string  `json:"health_concerns,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// CareSettings is seeded in the same transaction as its Pet and keyed by the
// same id.
type CareSettings struct {
	PetID                    string  `json:"pet_id"`
	GoalWeightKg             float64 `json:"goal_weight_kg"`
	WaterBowlCapacityMl      int     `json:"water_bowl_capacity_ml"`
	WaterIncrementMl         int     `json:"water_increment_ml"`
	GoalActivityMinutes      int     `json:"goal_activity_minutes"`
	ActivityIncrementMinutes int     `json:"activity_increment_minutes"`
	GoalMealCount            int     `json:"goal_meal_count"`
	MealIncrementCount       int     `json:"meal_increment_count"`
}

// Care record types.
const (
	RecordWeight   = "weight"
	RecordWater    = "water"
	RecordActivity = "activity"
	RecordMeal     = "meal"
)

// CareRecord is one logged care event. EventTime is client-supplied and
// stored as-is; SearchDate is derived server-side from it in UTC.
type CareRecord struct {
	LogID      string    `json:"log_id"`
	PetID      string    `json:"pet_id"`
	RecordType string    `json:"record_type"`
	EventTime  time.Time `json:"event_time"`
	SearchDate string    `json:"search_date"`
	Data       float64   `json:"data"`
	Notes      *string   `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// RegisterRequest is the input for pet registration.
type RegisterRequest struct {
	OwnerUserID     string   `json:"-"`
	Name            string   `json:"name"`
	Gender          Gender   `json:"gender"`
	Breed           string   `json:"breed"`
	Birthdate       string   `json:"birthdate"`
	InitialWeightKg float64  `json:"initial_weight_kg"`
	FurColor        *string  `json:"fur_color,omitempty"`
	HealthConcerns  []string `json:"health_concerns,omitempty"`
}

// CreateRecordRequest is the input for logging a care event.
type CreateRecordRequest struct {
	PetID      string    `json:"-"`
	CallerID   string    `json:"-"`
	RecordType string    `json:"record_type"`
	EventTime  time.Time `json:"event_time"`
	Data       float64   `json:"data"`
	Notes      *string   `json:"notes,omitempty"`
}
