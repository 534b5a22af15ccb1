package domain

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Rating bounds.
const (
	MinRatingValue = 1
	MaxRatingValue = 5
)

// Rating is one user's score for one store. A user rates a store at most once.
type Rating struct {
	ID        uuid.UUID `json:"id"`
	StoreID   uuid.UUID `json:"store_id"`
	UserID    uuid.UUID `json:"user_id"`
	Value     int       `json:"rating_value"`
	Comment   *string   `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewRating builds a validated Rating. An empty comment is stored as nil.
func NewRating(storeID, userID uuid.UUID, value int, comment string) (*Rating, error) {
	now := time.Now().UTC()
	r := &Rating{
		ID:        uuid.New(),
		StoreID:   storeID,
		UserID:    userID,
		Value:     value,
		Comment:   NormalizeComment(comment),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks the rating's references and value.
func (r *Rating) Validate() error {
	if r.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if r.StoreID == uuid.Nil {
		return NewValidationError("storeId", "is required", ErrInvalidID)
	}
	if r.UserID == uuid.Nil {
		return NewValidationError("userId", "is required", ErrInvalidID)
	}
	return ValidateRatingValue(r.Value)
}

// ValidateRatingValue checks that v is an integer score between 1 and 5.
func ValidateRatingValue(v int) error {
	if v < MinRatingValue || v > MaxRatingValue {
		return NewValidationError("rating_value", "rating_value must be between 1 and 5", ErrInvalidRatingValue)
	}
	return nil
}

// NormalizeComment trims a comment and maps blank input to nil.
func NormalizeComment(comment string) *string {
	c := strings.TrimSpace(comment)
	if c == "" {
		return nil
	}
	return &c
}

// RatingSummary is the derived aggregate stored on a Store.
type RatingSummary struct {
	Average float64
	Count   int
}

// NewRatingSummary builds a summary from a raw mean and row count.
// The mean is rounded to two decimals and forced to 0 when there are no rows.
func NewRatingSummary(mean float64, count int) RatingSummary {
	if count <= 0 {
		return RatingSummary{}
	}
	return RatingSummary{Average: RoundRating(mean), Count: count}
}

// RoundRating rounds an average rating to two decimal places.
func RoundRating(v float64) float64 {
	return math.Round(v*100) / 100
}

// RatingWithAuthor is a rating shown to a store owner together with who wrote it.
type RatingWithAuthor struct {
	ID        uuid.UUID   `json:"id"`
	Value     int         `json:"rating_value"`
	Comment   *string     `json:"comment"`
	CreatedAt time.Time   `json:"created_at"`
	User      UserSummary `json:"user"`
}
