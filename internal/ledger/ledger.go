package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/tablebook/tablebook-backend/internal/metrics"
	"github.com/tablebook/tablebook-backend/internal/models"
)

// Ledger is the authoritative store of booking records. It owns the booking
// state machine (pending -> confirmed/rejected) and the confirmed-exclusivity
// rule: at most one confirmed booking per restaurant per date. Authorization
// is the caller's job; the ledger only records the acting user for audit.
type Ledger struct {
	db  *gorm.DB
	log *logrus.Logger
}

func New(db *gorm.DB, log *logrus.Logger) *Ledger {
	return &Ledger{db: db, log: log}
}

// CreateBookingInput carries the caller-supplied fields of a new booking
// request. Date only needs a valid calendar day; the time component is
// discarded.
type CreateBookingInput struct {
	RestaurantID   uint
	Date           time.Time
	GuestName      string
	Email          string
	PhoneNumber    string
	EventType      string
	NumberOfGuests int
	AdditionalInfo string
}

func (in *CreateBookingInput) validate() error {
	switch {
	case in.RestaurantID == 0:
		return fmt.Errorf("%w: restaurant id is required", ErrInvalidBooking)
	case in.Date.IsZero():
		return fmt.Errorf("%w: booking date is required", ErrInvalidBooking)
	case strings.TrimSpace(in.GuestName) == "":
		return fmt.Errorf("%w: guest name is required", ErrInvalidBooking)
	case strings.TrimSpace(in.Email) == "":
		return fmt.Errorf("%w: email is required", ErrInvalidBooking)
	case strings.TrimSpace(in.PhoneNumber) == "":
		return fmt.Errorf("%w: phone number is required", ErrInvalidBooking)
	case in.NumberOfGuests < 0:
		return fmt.Errorf("%w: number of guests must not be negative", ErrInvalidBooking)
	}
	return nil
}

// Create records a new pending booking for the requester. A confirmed booking
// on the same slot blocks creation, but pending ones do not: any number of
// competing pending requests may pile up on one date, and exclusivity is
// enforced only at confirmation time. That is inherited behavior, kept so
// owners can choose among competing requests.
func (l *Ledger) Create(ctx context.Context, requesterID uint, in CreateBookingInput) (*models.Booking, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	date := DateOf(in.Date)
	booking := models.Booking{
		UserID:         requesterID,
		RestaurantID:   in.RestaurantID,
		BookingDate:    date,
		Status:         models.BookingStatusPending,
		GuestName:      in.GuestName,
		Email:          in.Email,
		PhoneNumber:    in.PhoneNumber,
		EventType:      in.EventType,
		NumberOfGuests: in.NumberOfGuests,
		AdditionalInfo: in.AdditionalInfo,
	}

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := restaurantExists(tx, in.RestaurantID); err != nil {
			return err
		}

		var confirmed int64
		if err := tx.Model(&models.Booking{}).
			Where("restaurant_id = ? AND booking_date = ? AND status = ?",
				in.RestaurantID, date, models.BookingStatusConfirmed).
			Count(&confirmed).Error; err != nil {
			return err
		}
		if confirmed > 0 {
			return ErrSlotConfirmed
		}

		return tx.Create(&booking).Error
	})
	if err != nil {
		if errors.Is(err, ErrSlotConfirmed) {
			metrics.RecordSlotConflict()
		}
		return nil, err
	}

	metrics.RecordBooking(string(models.BookingStatusPending))
	l.log.WithFields(logrus.Fields{
		"bookingId":    booking.ID,
		"restaurantId": booking.RestaurantID,
		"date":         date.Format(time.DateOnly),
		"userId":       requesterID,
	}).Info("booking created")

	return &booking, nil
}

// ByRestaurant returns every booking for the restaurant, any status.
func (l *Ledger) ByRestaurant(ctx context.Context, restaurantID uint) ([]models.Booking, error) {
	if err := restaurantExists(l.db.WithContext(ctx), restaurantID); err != nil {
		return nil, err
	}

	bookings := []models.Booking{}
	if err := l.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// ByOwner returns every booking across all restaurants owned by ownerID.
func (l *Ledger) ByOwner(ctx context.Context, ownerID uint) ([]models.Booking, error) {
	bookings := []models.Booking{}
	if err := l.db.WithContext(ctx).
		Joins("JOIN restaurants ON restaurants.id = bookings.restaurant_id").
		Where("restaurants.owner_id = ?", ownerID).
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// Confirm moves a booking to confirmed. The confirmed-exclusivity check runs
// again here, inside the transaction, because creation lets competing pending
// requests coexist; confirmation is the actual exclusion point. The partial
// unique index on confirmed slots backstops the check, so if two confirms for
// one slot race, the loser's commit fails and is reported as a conflict.
// Re-confirming an already confirmed booking succeeds as a no-op write.
func (l *Ledger) Confirm(ctx context.Context, bookingID, actorID uint) (*models.Booking, error) {
	var booking models.Booking

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		var conflicting int64
		if err := tx.Model(&models.Booking{}).
			Where("restaurant_id = ? AND booking_date = ? AND status = ? AND id <> ?",
				booking.RestaurantID, booking.BookingDate, models.BookingStatusConfirmed, booking.ID).
			Count(&conflicting).Error; err != nil {
			return err
		}
		if conflicting > 0 {
			return ErrSlotConfirmed
		}

		booking.Status = models.BookingStatusConfirmed
		if err := tx.Save(&booking).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrSlotConfirmed
			}
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSlotConfirmed) {
			metrics.RecordSlotConflict()
		}
		return nil, err
	}

	metrics.RecordBooking(string(models.BookingStatusConfirmed))
	l.log.WithFields(logrus.Fields{
		"bookingId":    booking.ID,
		"restaurantId": booking.RestaurantID,
		"date":         booking.BookingDate.Format(time.DateOnly),
		"actorId":      actorID,
	}).Info("booking confirmed")

	return &booking, nil
}

// Reject moves a booking to rejected regardless of its current status. A
// confirmed booking can be rejected, which silently frees its slot; that
// transition is logged at warn level since there is no other audit trail for
// it. Rejecting twice is a harmless repeat write.
func (l *Ledger) Reject(ctx context.Context, bookingID, actorID uint) (*models.Booking, error) {
	var booking models.Booking
	if err := l.db.WithContext(ctx).First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	wasConfirmed := booking.Status == models.BookingStatusConfirmed
	booking.Status = models.BookingStatusRejected
	if err := l.db.WithContext(ctx).Save(&booking).Error; err != nil {
		return nil, err
	}

	metrics.RecordBooking(string(models.BookingStatusRejected))
	entry := l.log.WithFields(logrus.Fields{
		"bookingId":    booking.ID,
		"restaurantId": booking.RestaurantID,
		"date":         booking.BookingDate.Format(time.DateOnly),
		"actorId":      actorID,
	})
	if wasConfirmed {
		entry.Warn("confirmed booking rejected, slot freed")
	} else {
		entry.Info("booking rejected")
	}

	return &booking, nil
}

// FreeDays lists every date in [start, end] without a confirmed booking for
// the restaurant, in chronological order. Pending and rejected bookings do
// not block a day. An inverted range is an error rather than a silent empty
// result.
func (l *Ledger) FreeDays(ctx context.Context, restaurantID uint, start, end time.Time) ([]time.Time, error) {
	start, end = DateOf(start), DateOf(end)
	if start.After(end) {
		return nil, ErrInvalidRange
	}

	if err := restaurantExists(l.db.WithContext(ctx), restaurantID); err != nil {
		return nil, err
	}

	var booked []time.Time
	if err := l.db.WithContext(ctx).Model(&models.Booking{}).
		Where("restaurant_id = ? AND booking_date BETWEEN ? AND ? AND status = ?",
			restaurantID, start, end, models.BookingStatusConfirmed).
		Pluck("booking_date", &booked).Error; err != nil {
		return nil, err
	}

	taken := make(map[time.Time]struct{}, len(booked))
	for _, d := range booked {
		taken[DateOf(d)] = struct{}{}
	}

	free := []time.Time{}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if _, ok := taken[d]; !ok {
			free = append(free, d)
		}
	}
	return free, nil
}

// ReservedRestaurants returns the ids of restaurants with a confirmed booking
// on the given date. Any date is valid input; there is nothing to look up if
// no bookings exist.
func (l *Ledger) ReservedRestaurants(ctx context.Context, date time.Time) ([]uint, error) {
	ids := []uint{}
	if err := l.db.WithContext(ctx).Model(&models.Booking{}).
		Where("booking_date = ? AND status = ?", DateOf(date), models.BookingStatusConfirmed).
		Distinct().
		Pluck("restaurant_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// BookedDates returns the distinct dates with a pending or confirmed booking
// for the restaurant, ascending. This is the "not safely offerable" view:
// broader than FreeDays, which only counts confirmed bookings. Either range
// bound may be nil; all four combinations are supported.
func (l *Ledger) BookedDates(ctx context.Context, restaurantID uint, start, end *time.Time) ([]time.Time, error) {
	if err := restaurantExists(l.db.WithContext(ctx), restaurantID); err != nil {
		return nil, err
	}

	query := l.db.WithContext(ctx).Model(&models.Booking{}).
		Where("restaurant_id = ? AND status IN ?", restaurantID,
			[]models.BookingStatus{models.BookingStatusPending, models.BookingStatusConfirmed})

	switch {
	case start != nil && end != nil:
		query = query.Where("booking_date BETWEEN ? AND ?", DateOf(*start), DateOf(*end))
	case start != nil:
		query = query.Where("booking_date >= ?", DateOf(*start))
	case end != nil:
		query = query.Where("booking_date <= ?", DateOf(*end))
	}

	var raw []time.Time
	if err := query.Pluck("booking_date", &raw).Error; err != nil {
		return nil, err
	}

	seen := make(map[time.Time]struct{}, len(raw))
	dates := []time.Time{}
	for _, d := range raw {
		d = DateOf(d)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

// DateOf truncates a timestamp to its calendar day at UTC midnight. Every
// date that reaches the store goes through this, so day equality and range
// comparisons behave the same on postgres and sqlite.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func restaurantExists(tx *gorm.DB, restaurantID uint) error {
	var restaurant models.Restaurant
	if err := tx.Select("id").First(&restaurant, restaurantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRestaurantNotFound
		}
		return err
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// sqlite (tests) reports the same condition as a plain error string.
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
