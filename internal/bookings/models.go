package bookings

import (
	"time"

	"quickshow/internal/shared/types"
	"quickshow/internal/shows"
	"quickshow/internal/users"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Booking is a reservation of seats for one show. While IsPaid is false
// its seats are held and a release timer is pending.
type Booking struct {
	ID               uuid.UUID        `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	UserID           string           `json:"user_id" gorm:"size:64;not null;index"`
	ShowID           uuid.UUID        `json:"show_id" gorm:"type:uuid;not null;index"`
	Amount           float64          `json:"amount" gorm:"not null;check:amount >= 0"`
	BookedSeats      types.StringList `json:"booked_seats" gorm:"type:jsonb;not null"`
	IsPaid           bool             `json:"is_paid" gorm:"not null;default:false;index"`
	PaymentSessionID string           `json:"-" gorm:"size:255;index"`
	PaymentLink      string           `json:"payment_link" gorm:"type:text"`
	CreatedAt        time.Time        `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt        time.Time        `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Show *shows.Show `json:"show,omitempty" gorm:"foreignKey:ShowID"`
	User *users.User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (Booking) TableName() string {
	return "bookings"
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// MarkPaidResult tells a confirmation apart from a replay
type MarkPaidResult int

const (
	MarkPaidConfirmed MarkPaidResult = iota
	MarkPaidAlreadyPaid
	MarkPaidNotFound
)

// Release describes what a cleanup removed
type Release struct {
	BookingID     uuid.UUID
	ShowID        uuid.UUID
	ReleasedSeats []string
}
