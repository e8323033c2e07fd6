package database

import (
	"gorm.io/gorm"

	"github.com/tablebook/tablebook-backend/internal/models"
)

// RunMigrations creates the schema. It is also used by the test suites, so
// everything here has to work on both postgres and sqlite.
func RunMigrations(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Restaurant{},
		&models.Review{},
		&models.Booking{},
	)
	if err != nil {
		return err
	}

	// At most one confirmed booking may exist per restaurant and date. The
	// confirm path re-checks inside its transaction, but this index is what
	// makes two concurrent confirmations of the same slot impossible - a
	// plain read-then-write would race.
	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_confirmed_slot
		 ON bookings (restaurant_id, booking_date)
		 WHERE status = 'confirmed'`,
	).Error
}
