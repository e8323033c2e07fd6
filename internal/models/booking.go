package models

import (
	"time"

	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusRejected  BookingStatus = "rejected"
)

// Booking is one reservation request for a restaurant on a calendar date.
// BookingDate is stored at UTC midnight and never changes after creation;
// there is no reschedule, only confirm or reject.
type Booking struct {
	gorm.Model
	UserID         uint          `json:"userId" gorm:"not null;index"`
	RestaurantID   uint          `json:"restaurantId" gorm:"not null;index"`
	BookingDate    time.Time     `json:"bookingDate" gorm:"type:date;not null;index"`
	Status         BookingStatus `json:"status" gorm:"not null;default:'pending'"`
	GuestName      string        `json:"guestName" gorm:"not null;default:''"`
	Email          string        `json:"email" gorm:"not null;default:''"`
	PhoneNumber    string        `json:"phoneNumber" gorm:"not null;default:''"`
	EventType      string        `json:"eventType" gorm:"not null;default:''"`
	NumberOfGuests int           `json:"numberOfGuests" gorm:"not null;default:0"`
	AdditionalInfo string        `json:"additionalInfo"`
}
