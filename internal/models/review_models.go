package models

import "time"

// Review is a rating and comment left on a completed booking.
type Review struct {
	ID         int64     `json:"id" db:"id"`
	BookingID  int64     `json:"booking_id" db:"booking_id"`
	UserID     int64     `json:"user_id" db:"user_id"`
	BoatID     int64     `json:"boat_id" db:"boat_id"`
	Rating     int       `json:"rating" db:"rating"`
	Comment    *string   `json:"comment,omitempty" db:"comment"`
	AuthorName string    `json:"author_name,omitempty" db:"author_name"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
