package shows

import (
	"time"

	"quickshow/internal/movies"
	"quickshow/internal/seats"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Show is one screening of a movie. OccupiedSeats is written as a whole
// document and Version moves forward on every write to it.
type Show struct {
	ID            uuid.UUID          `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	MovieID       uuid.UUID          `json:"movie_id" gorm:"type:uuid;not null;index"`
	ShowDateTime  time.Time          `json:"show_date_time" gorm:"not null;index"`
	ShowPrice     float64            `json:"show_price" gorm:"not null;check:show_price >= 0"`
	OccupiedSeats seats.OccupancyMap `json:"occupied_seats" gorm:"type:jsonb;not null;default:'{}'"`
	Version       int                `json:"version" gorm:"not null;default:0"`
	CreatedAt     time.Time          `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time          `json:"updated_at" gorm:"autoUpdateTime"`

	Movie *movies.Movie `json:"movie,omitempty" gorm:"foreignKey:MovieID;constraint:OnDelete:RESTRICT;"`
}

func (Show) TableName() string {
	return "shows"
}

func (s *Show) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.OccupiedSeats == nil {
		s.OccupiedSeats = seats.OccupancyMap{}
	}
	return nil
}

// IsUpcoming reports whether the show starts at or after now
func (s *Show) IsUpcoming(now time.Time) bool {
	return !s.ShowDateTime.Before(now)
}
