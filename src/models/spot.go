package models

import (
	"sbs/src/types"
)

type Spot struct {
	ID          uint    `gorm:"primarykey" json:"id"`
	OwnerID     uint    `json:"owner_id,omitempty"`
	Name        string  `json:"name,omitempty"`
	Description string  `json:"description,omitempty"`
	Address     string  `json:"address,omitempty"`
	City        string  `json:"city,omitempty"`
	State       string  `json:"state,omitempty"`
	Country     string  `json:"country,omitempty"`
	Lat         float64 `json:"lat,omitempty"`
	Lng         float64 `json:"lng,omitempty"`
	Price       float32 `json:"price,omitempty"`

	Owner    *User     `gorm:"foreignKey:owner_id" json:"owner,omitempty"`
	Bookings []Booking `gorm:"foreignKey:spot_id" json:"bookings,omitempty"`

	types.Timestamps
}
