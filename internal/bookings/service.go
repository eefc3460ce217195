package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"quickshow/internal/payments"
	"quickshow/internal/scheduler"
	"quickshow/internal/seats"
	"quickshow/internal/shared/config"
	"quickshow/internal/shared/constants"
	"quickshow/internal/shows"
	"quickshow/pkg/cache"
	"quickshow/pkg/logger"

	"github.com/google/uuid"
)

// ReleaseJobKind is the scheduler kind for the unpaid booking cleanup
const ReleaseJobKind = "booking.release"

var (
	ErrInvalidRequest = errors.New("invalid booking request")
	ErrTooManySeats   = errors.New("too many seats selected")
)

// SeatChecker answers the optimistic pre-check before the transaction
type SeatChecker interface {
	CheckAvailability(ctx context.Context, showID string, seatIDs []string) bool
}

// ShowLookup loads a show with its movie
type ShowLookup interface {
	GetShow(ctx context.Context, showID string) (*shows.Show, error)
}

// PaymentGateway is the part of payments.Gateway the booking flow needs
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, req payments.CheckoutRequest) (*payments.CheckoutSession, error)
	ExpireSession(ctx context.Context, sessionID string) error
}

// Timers schedules and cancels the deferred release
type Timers interface {
	Schedule(ctx context.Context, job scheduler.Job) error
	Cancel(ctx context.Context, kind, id string) error
}

// ConfirmationNotifier is told once per booking when payment lands
type ConfirmationNotifier interface {
	BookingConfirmed(ctx context.Context, booking *Booking) error
}

type CreateBookingInput struct {
	UserID string
	ShowID string
	Seats  []string
	Origin string
}

type Service interface {
	CreateBooking(ctx context.Context, in CreateBookingInput) (*CreateBookingResponse, error)
	ConfirmPayment(ctx context.Context, bookingID string) error
	ReleaseUnpaid(ctx context.Context, bookingID string) error
	HandleReleaseJob(ctx context.Context, job scheduler.Job) error
	UserBookings(ctx context.Context, userID string) ([]Booking, error)
	AllBookings(ctx context.Context) ([]Booking, error)
}

type service struct {
	repo     Repository
	seats    SeatChecker
	shows    ShowLookup
	gateway  PaymentGateway
	timers   Timers
	notifier ConfirmationNotifier
	cache    cache.Service
	cfg      config.BookingConfig
	now      func() time.Time
	log      *logger.Logger
}

func NewService(
	repo Repository,
	seatChecker SeatChecker,
	showLookup ShowLookup,
	gateway PaymentGateway,
	timers Timers,
	notifier ConfirmationNotifier,
	cacheService cache.Service,
	cfg config.BookingConfig,
) Service {
	return &service{
		repo:     repo,
		seats:    seatChecker,
		shows:    showLookup,
		gateway:  gateway,
		timers:   timers,
		notifier: notifier,
		cache:    cacheService,
		cfg:      cfg,
		now:      time.Now,
		log:      logger.GetDefault(),
	}
}

func (s *service) CreateBooking(ctx context.Context, in CreateBookingInput) (*CreateBookingResponse, error) {
	if in.UserID == "" || in.ShowID == "" || len(in.Seats) == 0 {
		return nil, ErrInvalidRequest
	}
	requested, err := seats.Normalize(in.Seats)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if s.cfg.MaxSeats > 0 && len(requested) > s.cfg.MaxSeats {
		return nil, fmt.Errorf("%w: at most %d per booking", ErrTooManySeats, s.cfg.MaxSeats)
	}

	if !s.seats.CheckAvailability(ctx, in.ShowID, requested) {
		s.log.LogSeatConflict(ctx, in.ShowID, in.UserID, requested)
		return nil, ErrSeatsUnavailable
	}

	show, err := s.shows.GetShow(ctx, in.ShowID)
	if err != nil {
		return nil, err
	}

	booking := &Booking{
		UserID:      in.UserID,
		ShowID:      show.ID,
		BookedSeats: requested,
	}
	if err := s.repo.CreateWithSeatHold(ctx, booking); err != nil {
		if errors.Is(err, ErrSeatsUnavailable) {
			s.log.LogSeatConflict(ctx, in.ShowID, in.UserID, requested)
		}
		return nil, err
	}
	s.log.LogBookingCreated(ctx, booking.ID.String(), show.ID.String(), in.UserID, requested)

	// The release timer is armed before talking to the provider so the
	// holds are freed even if checkout creation fails.
	now := s.now()
	job := scheduler.Job{
		ID:     booking.ID.String(),
		Kind:   ReleaseJobKind,
		FireAt: now.Add(s.cfg.CleanupDelay),
	}
	if err := s.timers.Schedule(ctx, job); err != nil {
		// without a timer nothing would ever free the holds
		if _, relErr := s.repo.ReleaseUnpaid(ctx, booking.ID); relErr != nil {
			s.log.ErrorWithContext(ctx, "failed to roll back seat hold", relErr, map[string]interface{}{
				"booking_id": booking.ID.String(),
			})
		}
		return nil, fmt.Errorf("failed to schedule booking release: %w", err)
	}

	origin := strings.TrimRight(in.Origin, "/")
	if origin == "" {
		origin = strings.TrimRight(s.cfg.FrontendURL, "/")
	}

	title := "Movie ticket"
	if show.Movie != nil && show.Movie.Title != "" {
		title = show.Movie.Title
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, payments.CheckoutRequest{
		BookingID:  booking.ID.String(),
		Title:      title,
		Amount:     booking.Amount,
		SuccessURL: origin + "/loading/my-bookings",
		CancelURL:  origin + "/my-bookings",
		ExpiresAt:  now.Add(s.cfg.SessionTTL),
	})
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetPaymentSession(ctx, booking.ID, session.ID, session.URL); err != nil {
		return nil, err
	}

	return &CreateBookingResponse{
		BookingID: booking.ID.String(),
		Amount:    booking.Amount,
		URL:       session.URL,
	}, nil
}

func (s *service) ConfirmPayment(ctx context.Context, bookingID string) error {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		s.log.WarnContext(ctx, "Payment for unknown booking id", "booking_id", bookingID)
		return nil
	}

	result, err := s.repo.MarkPaid(ctx, id)
	if err != nil {
		return err
	}

	switch result {
	case MarkPaidNotFound:
		s.log.WarnContext(ctx, "Payment for missing booking", "booking_id", bookingID)
		return nil
	case MarkPaidAlreadyPaid:
		s.log.InfoContext(ctx, "Booking already paid", "booking_id", bookingID)
		return nil
	}

	s.log.LogBookingPaid(ctx, bookingID)

	// paid totals changed
	if s.cache != nil {
		if err := s.cache.Delete(ctx, constants.CACHE_KEY_ADMIN_DASHBOARD); err != nil {
			s.log.WarnContext(ctx, "Failed to invalidate dashboard cache", "error", err)
		}
	}

	if err := s.timers.Cancel(ctx, ReleaseJobKind, bookingID); err != nil {
		// the release handler re-checks is_paid, a stale timer is harmless
		s.log.ErrorWithContext(ctx, "failed to cancel release timer", err, map[string]interface{}{
			"booking_id": bookingID,
		})
	}

	if s.notifier != nil {
		booking, err := s.repo.GetByID(ctx, id)
		if err == nil {
			err = s.notifier.BookingConfirmed(ctx, booking)
		}
		if err != nil {
			s.log.ErrorWithContext(ctx, "failed to send booking confirmation", err, map[string]interface{}{
				"booking_id": bookingID,
			})
		}
	}
	return nil
}

func (s *service) ReleaseUnpaid(ctx context.Context, bookingID string) error {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return fmt.Errorf("%w: bad booking id %q", ErrInvalidRequest, bookingID)
	}

	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return nil
		}
		return err
	}
	if booking.IsPaid {
		return nil
	}

	if booking.PaymentSessionID != "" {
		err := s.gateway.ExpireSession(ctx, booking.PaymentSessionID)
		switch {
		case errors.Is(err, payments.ErrSessionCompleted):
			s.log.InfoContext(ctx, "Checkout completed, leaving booking to payment confirmation",
				"booking_id", bookingID)
			return nil
		case err != nil:
			s.log.ErrorWithContext(ctx, "failed to expire checkout session", err, map[string]interface{}{
				"booking_id": bookingID,
				"session_id": booking.PaymentSessionID,
			})
			if s.retryRelease(ctx, booking) {
				return nil
			}
		}
	}

	release, err := s.repo.ReleaseUnpaid(ctx, id)
	if err != nil {
		return err
	}
	if release == nil {
		return nil
	}
	s.log.LogBookingReleased(ctx, bookingID, release.ShowID.String(), release.ReleasedSeats)
	return nil
}

// retryRelease re-arms the timer while the checkout session may still be
// paid. Once the session's own expiry has passed no charge can land and the
// caller may release.
func (s *service) retryRelease(ctx context.Context, booking *Booking) bool {
	now := s.now()
	if !now.Before(booking.CreatedAt.Add(s.cfg.SessionTTL)) {
		return false
	}
	delay := s.cfg.ReleaseRetryDelay
	if delay <= 0 {
		delay = time.Minute
	}
	job := scheduler.Job{
		ID:     booking.ID.String(),
		Kind:   ReleaseJobKind,
		FireAt: now.Add(delay),
	}
	if err := s.timers.Schedule(ctx, job); err != nil {
		s.log.ErrorWithContext(ctx, "failed to re-arm release timer", err, map[string]interface{}{
			"booking_id": job.ID,
		})
		return false
	}
	s.log.InfoContext(ctx, "Release deferred until the provider answers",
		"booking_id", job.ID, "retry_at", job.FireAt)
	return true
}

// HandleReleaseJob adapts ReleaseUnpaid to a scheduler.Handler
func (s *service) HandleReleaseJob(ctx context.Context, job scheduler.Job) error {
	return s.ReleaseUnpaid(ctx, job.ID)
}

func (s *service) UserBookings(ctx context.Context, userID string) ([]Booking, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) AllBookings(ctx context.Context) ([]Booking, error) {
	return s.repo.ListAll(ctx)
}
