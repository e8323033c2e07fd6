package handlers

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tablebook/tablebook-backend/internal/ledger"
	"github.com/tablebook/tablebook-backend/internal/models"
	"github.com/tablebook/tablebook-backend/internal/services"
)

// CreateBooking handles a booking request for a restaurant on a specific day.
// The booking starts out pending until the owner confirms or rejects it.
func CreateBooking(db *gorm.DB, l *ledger.Ledger, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input struct {
			RestaurantID   uint   `json:"restaurantId" binding:"required"`
			Date           string `json:"date" binding:"required"`
			GuestName      string `json:"guestName" binding:"required"`
			Email          string `json:"email" binding:"required,email"`
			PhoneNumber    string `json:"phoneNumber" binding:"required"`
			EventType      string `json:"eventType"`
			NumberOfGuests int    `json:"numberOfGuests"`
			AdditionalInfo string `json:"additionalInfo"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		date, err := time.Parse(time.DateOnly, input.Date)
		if err != nil {
			c.JSON(400, gin.H{"error": "date must be formatted as YYYY-MM-DD"})
			return
		}

		booking, err := l.Create(c.Request.Context(), userId, ledger.CreateBookingInput{
			RestaurantID:   input.RestaurantID,
			Date:           date,
			GuestName:      input.GuestName,
			Email:          input.Email,
			PhoneNumber:    input.PhoneNumber,
			EventType:      input.EventType,
			NumberOfGuests: input.NumberOfGuests,
			AdditionalInfo: input.AdditionalInfo,
		})
		if err != nil {
			c.JSON(ledgerErrorStatus(err), gin.H{"error": err.Error()})
			return
		}

		go publishBookingEvent(db, hub, "booking_created", booking, userId)

		c.JSON(201, booking)
	}
}

// ConfirmBooking confirms a pending booking. Only the restaurant owner (or an
// admin owning the restaurant) may confirm; the slot conflict itself is the
// ledger's call.
func ConfirmBooking(db *gorm.DB, l *ledger.Ledger, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		booking, restaurant, ok := requireBookingOwnership(c, db, userId)
		if !ok {
			return
		}

		confirmed, err := l.Confirm(c.Request.Context(), booking.ID, userId)
		if err != nil {
			c.JSON(ledgerErrorStatus(err), gin.H{"error": err.Error()})
			return
		}

		go publishOwnedBookingEvent(hub, "booking_confirmed", confirmed, restaurant.OwnerID, userId)

		c.JSON(200, confirmed)
	}
}

// RejectBooking rejects a booking. Rejection is unconditional: a confirmed
// booking can be rejected too, which frees its slot.
func RejectBooking(db *gorm.DB, l *ledger.Ledger, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		booking, restaurant, ok := requireBookingOwnership(c, db, userId)
		if !ok {
			return
		}

		rejected, err := l.Reject(c.Request.Context(), booking.ID, userId)
		if err != nil {
			c.JSON(ledgerErrorStatus(err), gin.H{"error": err.Error()})
			return
		}

		go publishOwnedBookingEvent(hub, "booking_rejected", rejected, restaurant.OwnerID, userId)

		c.JSON(200, rejected)
	}
}

// GetRestaurantBookings lists all bookings for a restaurant, any status.
// Admins may view any restaurant, owners only their own.
func GetRestaurantBookings(db *gorm.DB, l *ledger.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		role := c.GetString("role")

		restaurantID, ok := uintParam(c, "restaurantId")
		if !ok {
			return
		}

		if role != string(models.RoleAdmin) {
			var restaurant models.Restaurant
			if err := db.First(&restaurant, restaurantID).Error; err != nil || restaurant.OwnerID != userId {
				c.JSON(403, gin.H{"error": "Not authorized to view bookings for this restaurant"})
				return
			}
		}

		bookings, err := l.ByRestaurant(c.Request.Context(), restaurantID)
		if err != nil {
			c.JSON(ledgerErrorStatus(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(200, bookings)
	}
}

// GetOwnerBookings lists bookings across every restaurant the caller owns.
func GetOwnerBookings(l *ledger.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		bookings, err := l.ByOwner(c.Request.Context(), userId)
		if err != nil {
			c.JSON(ledgerErrorStatus(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(200, bookings)
	}
}

// GetFreeDays lists the days in [start, end] without a confirmed booking.
func GetFreeDays(l *ledger.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID, ok := uintParam(c, "restaurantId")
		if !ok {
			return
		}

		start, err := time.Parse(time.DateOnly, c.Query("start"))
		if err != nil {
			c.JSON(400, gin.H{"error": "start must be formatted as YYYY-MM-DD"})
			return
		}
		end, err := time.Parse(time.DateOnly, c.Query("end"))
		if err != nil {
			c.JSON(400, gin.H{"error": "end must be formatted as YYYY-MM-DD"})
			return
		}

		days, err := l.FreeDays(c.Request.Context(), restaurantID, start, end)
		if err != nil {
			c.JSON(ledgerErrorStatus(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(200, formatDates(days))
	}
}

// GetReservedRestaurants lists restaurant ids with a confirmed booking on the
// given date.
func GetReservedRestaurants(l *ledger.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		date, err := time.Parse(time.DateOnly, c.Param("date"))
		if err != nil {
			c.JSON(400, gin.H{"error": "date must be formatted as YYYY-MM-DD"})
			return
		}

		ids, err := l.ReservedRestaurants(c.Request.Context(), date)
		if err != nil {
			c.JSON(ledgerErrorStatus(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(200, ids)
	}
}

// GetBookedDates lists the dates with a pending or confirmed booking for a
// restaurant, ascending, optionally bounded by start_date/end_date.
func GetBookedDates(l *ledger.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID, ok := uintParam(c, "restaurantId")
		if !ok {
			return
		}

		var start, end *time.Time
		if raw := c.Query("start_date"); raw != "" {
			parsed, err := time.Parse(time.DateOnly, raw)
			if err != nil {
				c.JSON(400, gin.H{"error": "start_date must be formatted as YYYY-MM-DD"})
				return
			}
			start = &parsed
		}
		if raw := c.Query("end_date"); raw != "" {
			parsed, err := time.Parse(time.DateOnly, raw)
			if err != nil {
				c.JSON(400, gin.H{"error": "end_date must be formatted as YYYY-MM-DD"})
				return
			}
			end = &parsed
		}

		dates, err := l.BookedDates(c.Request.Context(), restaurantID, start, end)
		if err != nil {
			c.JSON(ledgerErrorStatus(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(200, formatDates(dates))
	}
}

// requireBookingOwnership loads the booking from the :id param and its
// restaurant, and aborts unless the caller owns that restaurant. Admins get
// no shortcut here: confirming on someone else's behalf is not a thing.
func requireBookingOwnership(c *gin.Context, db *gorm.DB, userId uint) (*models.Booking, *models.Restaurant, bool) {
	var booking models.Booking
	if err := db.First(&booking, c.Param("id")).Error; err != nil {
		c.JSON(404, gin.H{"error": "Booking not found"})
		return nil, nil, false
	}

	var restaurant models.Restaurant
	if err := db.First(&restaurant, booking.RestaurantID).Error; err != nil {
		c.JSON(404, gin.H{"error": "Restaurant not found"})
		return nil, nil, false
	}

	if restaurant.OwnerID != userId {
		c.JSON(403, gin.H{"error": "Only the restaurant owner can manage this booking"})
		return nil, nil, false
	}

	return &booking, &restaurant, true
}

func publishBookingEvent(db *gorm.DB, hub *services.Hub, eventType string, booking *models.Booking, actorID uint) {
	var restaurant models.Restaurant
	if err := db.First(&restaurant, booking.RestaurantID).Error; err != nil {
		log.Printf("Failed to resolve restaurant %d for booking event: %v", booking.RestaurantID, err)
		return
	}
	publishOwnedBookingEvent(hub, eventType, booking, restaurant.OwnerID, actorID)
}

func publishOwnedBookingEvent(hub *services.Hub, eventType string, booking *models.Booking, ownerID, actorID uint) {
	event := services.BookingEvent{
		Type:         eventType,
		BookingID:    booking.ID,
		RestaurantID: booking.RestaurantID,
		OwnerID:      ownerID,
		Date:         booking.BookingDate.Format(time.DateOnly),
		Status:       string(booking.Status),
		ActorID:      actorID,
	}

	if hub != nil {
		hub.SendBookingEvent(event)
	}
	if services.RedisClient != nil {
		if err := services.PublishBookingEvent(context.Background(), event); err != nil {
			log.Printf("Failed to publish booking event: %v", err)
		}
	}
}

func ledgerErrorStatus(err error) int {
	switch {
	case errors.Is(err, ledger.ErrRestaurantNotFound), errors.Is(err, ledger.ErrBookingNotFound):
		return 404
	case errors.Is(err, ledger.ErrSlotConfirmed):
		return 409
	case errors.Is(err, ledger.ErrInvalidRange), errors.Is(err, ledger.ErrInvalidBooking):
		return 400
	default:
		return 500
	}
}

func formatDates(dates []time.Time) []string {
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.Format(time.DateOnly))
	}
	return out
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(400, gin.H{"error": name + " must be a positive integer"})
		return 0, false
	}
	return uint(id), true
}
