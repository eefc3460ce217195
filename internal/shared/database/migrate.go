package database

import (
	"fmt"

	"quickshow/internal/bookings"
	"quickshow/internal/movies"
	"quickshow/internal/shows"
	"quickshow/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	// uuid_generate_v4() column defaults
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to enable uuid-ossp: %w", err)
	}

	err := db.AutoMigrate(
		&users.User{},
		&movies.Movie{},
		&shows.Show{},
		&bookings.Booking{},
	)
	if err != nil {
		return err
	}

	return MigrateConstraints(db)
}
