package shows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quickshow/internal/seats"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrShowNotFound = seats.ErrShowNotFound
	// ErrConcurrentUpdate means the occupancy version moved between read and write
	ErrConcurrentUpdate = errors.New("show was modified concurrently")
)

type Repository interface {
	CreateMany(ctx context.Context, shows []Show) error
	GetByID(ctx context.Context, id uuid.UUID) (*Show, error)
	GetOccupancy(ctx context.Context, showID string) (seats.OccupancyMap, error)
	ListUpcoming(ctx context.Context, from time.Time) ([]Show, error)
	ListUpcomingByMovie(ctx context.Context, movieID uuid.UUID, from time.Time) ([]Show, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateMany(ctx context.Context, shows []Show) error {
	if len(shows) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&shows).Error; err != nil {
		return fmt.Errorf("failed to create shows: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Show, error) {
	var show Show
	err := r.db.WithContext(ctx).Preload("Movie").First(&show, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	return &show, nil
}

// GetOccupancy reads only the occupancy column. It satisfies seats.OccupancySource.
func (r *repository) GetOccupancy(ctx context.Context, showID string) (seats.OccupancyMap, error) {
	id, err := uuid.Parse(showID)
	if err != nil {
		return nil, ErrShowNotFound
	}

	var show Show
	err = r.db.WithContext(ctx).Select("id", "occupied_seats").First(&show, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	if show.OccupiedSeats == nil {
		return seats.OccupancyMap{}, nil
	}
	return show.OccupiedSeats, nil
}

func (r *repository) ListUpcoming(ctx context.Context, from time.Time) ([]Show, error) {
	var shows []Show
	err := r.db.WithContext(ctx).
		Preload("Movie").
		Where("show_date_time >= ?", from).
		Order("show_date_time ASC").
		Find(&shows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming shows: %w", err)
	}
	return shows, nil
}

func (r *repository) ListUpcomingByMovie(ctx context.Context, movieID uuid.UUID, from time.Time) ([]Show, error) {
	var shows []Show
	err := r.db.WithContext(ctx).
		Where("movie_id = ? AND show_date_time >= ?", movieID, from).
		Order("show_date_time ASC").
		Find(&shows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list shows for movie: %w", err)
	}
	return shows, nil
}

// LockForUpdate loads a show inside tx holding its row lock until tx ends.
// Every occupancy write goes through a locked read.
func LockForUpdate(tx *gorm.DB, id uuid.UUID) (*Show, error) {
	var show Show
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&show, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShowNotFound
		}
		return nil, fmt.Errorf("failed to lock show: %w", err)
	}
	if show.OccupiedSeats == nil {
		show.OccupiedSeats = seats.OccupancyMap{}
	}
	return &show, nil
}

// SaveOccupancy writes the whole occupancy map back, conditional on the
// version read under the lock, and advances the version.
func SaveOccupancy(tx *gorm.DB, show *Show) error {
	result := tx.Model(&Show{}).
		Where("id = ? AND version = ?", show.ID, show.Version).
		Updates(map[string]interface{}{
			"occupied_seats": show.OccupiedSeats,
			"version":        gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to save occupancy: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrConcurrentUpdate
	}
	show.Version++
	return nil
}
