package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds the indexes and checks AutoMigrate cannot express
func MigrateConstraints(db *gorm.DB) error {
	statements := []string{
		// upcoming schedule lookups
		`CREATE INDEX IF NOT EXISTS idx_shows_movie_datetime
			ON shows (movie_id, show_date_time)`,

		// dashboard aggregates scan only paid rows
		`CREATE INDEX IF NOT EXISTS idx_bookings_paid
			ON bookings (created_at DESC) WHERE is_paid = true`,

		`CREATE INDEX IF NOT EXISTS idx_bookings_user_created
			ON bookings (user_id, created_at DESC)`,

		// every occupancy write bumps the version
		`DO $$ BEGIN
			ALTER TABLE shows ADD CONSTRAINT chk_shows_version_nonnegative CHECK (version >= 0);
		EXCEPTION WHEN duplicate_object THEN NULL;
		END $$`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
