package seats

import (
	"context"
	"errors"
	"fmt"

	"quickshow/pkg/logger"
)

// ErrShowNotFound is returned by an OccupancySource for an unknown show.
// The shows package re-exports it.
var ErrShowNotFound = errors.New("show not found")

// OccupancySource reads the current occupancy map of a show.
type OccupancySource interface {
	GetOccupancy(ctx context.Context, showID string) (OccupancyMap, error)
}

type Service interface {
	// CheckAvailability reports whether every requested seat is free.
	// It never errors: any lookup failure reads as unavailable.
	CheckAvailability(ctx context.Context, showID string, seatIDs []string) bool
	OccupiedSeats(ctx context.Context, showID string) ([]string, error)
}

type service struct {
	source OccupancySource
	log    *logger.Logger
}

func NewService(source OccupancySource) Service {
	return &service{
		source: source,
		log:    logger.GetDefault(),
	}
}

func (s *service) CheckAvailability(ctx context.Context, showID string, seatIDs []string) bool {
	occupied, err := s.source.GetOccupancy(ctx, showID)
	if err != nil {
		if !errors.Is(err, ErrShowNotFound) {
			s.log.ErrorWithContext(ctx, "availability lookup failed", err, map[string]interface{}{
				"show_id": showID,
			})
		}
		return false
	}
	return AllFree(occupied, seatIDs)
}

func (s *service) OccupiedSeats(ctx context.Context, showID string) ([]string, error) {
	occupied, err := s.source.GetOccupancy(ctx, showID)
	if err != nil {
		return nil, fmt.Errorf("failed to load occupancy for show %s: %w", showID, err)
	}
	return occupied.Keys(), nil
}
