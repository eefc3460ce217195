package analytics

import (
	"context"
	"fmt"

	"quickshow/internal/bookings"
	"quickshow/internal/shared/constants"
	"quickshow/internal/shows"
	"quickshow/pkg/cache"
	"quickshow/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// ShowLister lists upcoming shows with their movies
type ShowLister interface {
	ListUpcoming(ctx context.Context) ([]shows.Show, error)
}

// BookingLister lists every booking for the admin console
type BookingLister interface {
	AllBookings(ctx context.Context) ([]bookings.Booking, error)
}

// Service defines the analytics service interface
type Service interface {
	GetDashboard(ctx context.Context) (*DashboardData, error)
	GetAllShows(ctx context.Context) ([]shows.Show, error)
	GetAllBookings(ctx context.Context) ([]bookings.Booking, error)
}

type service struct {
	repo         Repository
	shows        ShowLister
	bookings     BookingLister
	cacheService cache.Service
	log          *logger.Logger
}

// NewService creates a new analytics service instance. cacheService may be nil.
func NewService(repo Repository, showLister ShowLister, bookingLister BookingLister, cacheService cache.Service) Service {
	return &service{
		repo:         repo,
		shows:        showLister,
		bookings:     bookingLister,
		cacheService: cacheService,
		log:          logger.GetDefault(),
	}
}

func (s *service) GetDashboard(ctx context.Context) (*DashboardData, error) {
	cacheKey := constants.CACHE_KEY_ADMIN_DASHBOARD

	if s.cacheService != nil {
		var cached DashboardData
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	var (
		dashboard DashboardData
		stats     *PaidBookingStats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = s.repo.GetPaidBookingStats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		dashboard.TotalUser, err = s.repo.GetUserCount(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		dashboard.ActiveShows, err = s.shows.ListUpcoming(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}

	dashboard.TotalBookings = stats.Count
	dashboard.TotalRevenue = stats.Revenue
	if dashboard.ActiveShows == nil {
		dashboard.ActiveShows = []shows.Show{}
	}

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, cacheKey, dashboard, constants.TTL_ADMIN_DASHBOARD); err != nil {
			s.log.WarnContext(ctx, "Failed to cache dashboard", "error", err)
		}
	}
	return &dashboard, nil
}

func (s *service) GetAllShows(ctx context.Context) ([]shows.Show, error) {
	return s.shows.ListUpcoming(ctx)
}

func (s *service) GetAllBookings(ctx context.Context) ([]bookings.Booking, error) {
	return s.bookings.AllBookings(ctx)
}
