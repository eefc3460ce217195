package bookings

import (
	"context"
	"errors"
	"fmt"

	"quickshow/internal/seats"
	"quickshow/internal/shows"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrSeatsUnavailable = errors.New("selected seats are not available")
)

type Repository interface {
	// CreateWithSeatHold checks, holds and records the seats in one
	// transaction under the show row lock. The amount is priced there too.
	CreateWithSeatHold(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	SetPaymentSession(ctx context.Context, id uuid.UUID, sessionID, link string) error

	// MarkPaid flips is_paid exactly once
	MarkPaid(ctx context.Context, id uuid.UUID) (MarkPaidResult, error)
	// ReleaseUnpaid frees the seats of an unpaid booking and deletes it.
	// It returns nil when the booking is gone or already paid.
	ReleaseUnpaid(ctx context.Context, id uuid.UUID) (*Release, error)

	ListByUser(ctx context.Context, userID string) ([]Booking, error)
	ListAll(ctx context.Context) ([]Booking, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateWithSeatHold(ctx context.Context, booking *Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		show, err := shows.LockForUpdate(tx, booking.ShowID)
		if err != nil {
			return err
		}

		if taken := seats.Conflicts(show.OccupiedSeats, booking.BookedSeats); len(taken) > 0 {
			return fmt.Errorf("%w: %v", ErrSeatsUnavailable, taken)
		}

		booking.Amount = show.ShowPrice * float64(len(booking.BookedSeats))
		booking.IsPaid = false
		if err := tx.Create(booking).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		show.OccupiedSeats.Hold(booking.BookedSeats, booking.UserID)
		return shows.SaveOccupancy(tx, show)
	})
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Show").
		Preload("Show.Movie").
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) SetPaymentSession(ctx context.Context, id uuid.UUID, sessionID, link string) error {
	result := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ? AND is_paid = ?", id, false).
		Updates(map[string]interface{}{
			"payment_session_id": sessionID,
			"payment_link":       link,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to store payment session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *repository) MarkPaid(ctx context.Context, id uuid.UUID) (MarkPaidResult, error) {
	result := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ? AND is_paid = ?", id, false).
		Updates(map[string]interface{}{
			"is_paid":      true,
			"payment_link": "",
		})
	if result.Error != nil {
		return MarkPaidNotFound, fmt.Errorf("failed to mark booking paid: %w", result.Error)
	}
	if result.RowsAffected == 1 {
		return MarkPaidConfirmed, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&Booking{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return MarkPaidNotFound, err
	}
	if count == 0 {
		return MarkPaidNotFound, nil
	}
	return MarkPaidAlreadyPaid, nil
}

func (r *repository) ReleaseUnpaid(ctx context.Context, id uuid.UUID) (*Release, error) {
	var release *Release
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// booking row first, then the show row
		var booking Booking
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND is_paid = ?", id, false).
			First(&booking).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("failed to lock booking: %w", err)
		}

		show, err := shows.LockForUpdate(tx, booking.ShowID)
		if err != nil && !errors.Is(err, shows.ErrShowNotFound) {
			return err
		}

		var freed []string
		if show != nil {
			freed = show.OccupiedSeats.Release(booking.BookedSeats, booking.UserID)
			if len(freed) > 0 {
				if err := shows.SaveOccupancy(tx, show); err != nil {
					return err
				}
			}
		}

		if err := tx.Delete(&Booking{}, "id = ?", booking.ID).Error; err != nil {
			return fmt.Errorf("failed to delete booking: %w", err)
		}

		release = &Release{
			BookingID:     booking.ID,
			ShowID:        booking.ShowID,
			ReleasedSeats: freed,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return release, nil
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Preload("Show").
		Preload("Show.Movie").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list user bookings: %w", err)
	}
	return bookings, nil
}

func (r *repository) ListAll(ctx context.Context) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Show").
		Preload("Show.Movie").
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}
