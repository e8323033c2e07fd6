package models

import (
	"gorm.io/gorm"
)

type Review struct {
	gorm.Model
	Username     string `json:"username" gorm:"not null"`
	Rating       int    `json:"rating" gorm:"not null"` // 1-5 stars
	Comment      string `json:"comment" gorm:"type:text"`
	RestaurantID uint   `json:"restaurantId" gorm:"not null;index"`
}
