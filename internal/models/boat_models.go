package models

import "time"

// BoatStatus controls whether a boat can be booked.
type BoatStatus string

const (
	BoatStatusAvailable   BoatStatus = "AVAILABLE"
	BoatStatusMaintenance BoatStatus = "MAINTENANCE"
	BoatStatusUnavailable BoatStatus = "UNAVAILABLE"
)

func IsValidBoatStatus(status string) bool {
	switch BoatStatus(status) {
	case BoatStatusAvailable, BoatStatusMaintenance, BoatStatusUnavailable:
		return true
	default:
		return false
	}
}

// Boat is a rentable vessel listing owned by a user.
type Boat struct {
	ID            int64       `json:"id" db:"id"`
	OwnerID       int64       `json:"owner_id" db:"owner_id"`
	Name          string      `json:"name" db:"name"`
	Description   *string     `json:"description,omitempty" db:"description"`
	BoatType      *string     `json:"boat_type,omitempty" db:"boat_type"`
	Location      *string     `json:"location,omitempty" db:"location"`
	Capacity      int         `json:"capacity" db:"capacity"`
	LengthM       *float64    `json:"length_m,omitempty" db:"length_m"`
	YearBuilt     *int        `json:"year_built,omitempty" db:"year_built"`
	Status        BoatStatus  `json:"status" db:"status"`
	AverageRating *float64    `json:"average_rating,omitempty" db:"average_rating"`
	ReviewCount   int         `json:"review_count" db:"review_count"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at" db:"updated_at"`
	Features      []Feature   `json:"features,omitempty"`
	Prices        []BoatPrice `json:"prices,omitempty"`
}

// Feature is an amenity that can be attached to many boats.
type Feature struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// BoatPrice is an hours->price tier valid inside [EffectiveDate, ExpiryDate).
// Superseded rows are deactivated, never deleted.
type BoatPrice struct {
	ID            int64      `json:"id" db:"id"`
	BoatID        int64      `json:"boat_id" db:"boat_id"`
	Hours         int        `json:"hours" db:"hours"`
	Price         float64    `json:"price" db:"price"`
	EffectiveDate time.Time  `json:"effective_date" db:"effective_date"`
	ExpiryDate    *time.Time `json:"expiry_date,omitempty" db:"expiry_date"`
	IsActive      bool       `json:"is_active" db:"is_active"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

// ValidAt reports whether the tier can be used for a booking starting at t.
func (p *BoatPrice) ValidAt(t time.Time) bool {
	if !p.IsActive || t.Before(p.EffectiveDate) {
		return false
	}
	return p.ExpiryDate == nil || t.Before(*p.ExpiryDate)
}

// BoatFilters defines the available filters for querying boats.
type BoatFilters struct {
	Status      *string `form:"status"`
	Location    *string `form:"location"`
	MinCapacity *int    `form:"min_capacity"`
	FeatureID   *int64  `form:"feature_id"`
	OwnerID     *int64  `form:"owner_id"`
	Page        int     `form:"page"`
	PageSize    int     `form:"page_size"`
}
