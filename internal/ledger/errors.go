package ledger

import "errors"

var (
	// ErrRestaurantNotFound is returned when the referenced restaurant does
	// not exist.
	ErrRestaurantNotFound = errors.New("restaurant not found")

	// ErrBookingNotFound is returned when the referenced booking does not
	// exist.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrSlotConfirmed is returned when the (restaurant, date) slot already
	// holds a confirmed booking.
	ErrSlotConfirmed = errors.New("restaurant already confirmed for this date")

	// ErrInvalidRange is returned when a date range has start after end.
	ErrInvalidRange = errors.New("start date must not be after end date")

	// ErrInvalidBooking is returned when a booking request is missing
	// required fields.
	ErrInvalidBooking = errors.New("invalid booking request")
)
