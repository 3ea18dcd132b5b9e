package models

import (
	"time"

	"sbs/src/types"
)

// Booking occupies a spot over the half-open date range
// [StartDate, EndDate). EndDate is the checkout day and may equal the
// StartDate of the next booking.
type Booking struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	SpotID    uint      `json:"spot_id,omitempty"`
	UserID    uint      `json:"user_id,omitempty"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	Spot *Spot `gorm:"foreignKey:spot_id" json:"spot,omitempty"`
	User *User `gorm:"foreignKey:user_id" json:"user,omitempty"`

	types.Timestamps
}

// RedactedBooking is the projection non-owners get when listing a spot's
// calendar: which dates are taken, never who holds them.
type RedactedBooking struct {
	SpotID    uint      `json:"spot_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}
