package models

import (
	"gorm.io/gorm"
)

type Restaurant struct {
	gorm.Model
	Name         string  `json:"name" gorm:"not null;index"`
	Description  string  `json:"description" gorm:"type:text"`
	Location     string  `json:"location"`
	Address      string  `json:"address"`
	Category     string  `json:"category"`
	Capacity     int     `json:"capacity"`
	Rating       float64 `json:"rating"`
	PriceRange   string  `json:"priceRange"`
	Features     string  `json:"features" gorm:"type:text"` // comma-separated
	Cuisines     string  `json:"cuisines" gorm:"type:text"` // comma-separated
	ContactPhone string  `json:"contactPhone"`
	ContactEmail string  `json:"contactEmail"`
	OwnerID      uint    `json:"ownerId" gorm:"not null;index"`
	Owner        User    `json:"-"`
}
