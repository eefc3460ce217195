package analytics

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Repository defines the analytics repository interface
type Repository interface {
	GetPaidBookingStats(ctx context.Context) (*PaidBookingStats, error)
	GetUserCount(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new analytics repository instance
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetPaidBookingStats(ctx context.Context) (*PaidBookingStats, error) {
	var stats PaidBookingStats
	err := r.db.WithContext(ctx).
		Table("bookings").
		Select("COUNT(*) AS count, COALESCE(SUM(amount), 0) AS revenue").
		Where("is_paid = ?", true).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate paid bookings: %w", err)
	}
	return &stats, nil
}

func (r *repository) GetUserCount(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Table("users").Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
