package bookings

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"quickshow/internal/movies"
	"quickshow/internal/payments"
	"quickshow/internal/scheduler"
	"quickshow/internal/seats"
	"quickshow/internal/shared/config"
	"quickshow/internal/shared/constants"
	"quickshow/internal/shows"
	"quickshow/pkg/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// memStore plays the database: one mutex stands in for the show row lock.
type memStore struct {
	mu       sync.Mutex
	shows    map[uuid.UUID]*shows.Show
	bookings map[uuid.UUID]*Booking
	now      func() time.Time
}

func newMemStore() *memStore {
	return &memStore{
		shows:    map[uuid.UUID]*shows.Show{},
		bookings: map[uuid.UUID]*Booking{},
	}
}

func (m *memStore) addShow(price float64) *shows.Show {
	m.mu.Lock()
	defer m.mu.Unlock()
	show := &shows.Show{
		ID:            uuid.New(),
		ShowDateTime:  time.Now().Add(24 * time.Hour),
		ShowPrice:     price,
		OccupiedSeats: seats.OccupancyMap{},
		Movie:         &movies.Movie{Title: "Dune"},
	}
	m.shows[show.ID] = show
	return show
}

func (m *memStore) occupancy(showID uuid.UUID) seats.OccupancyMap {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shows[showID].OccupiedSeats.Clone()
}

// seats.OccupancySource
func (m *memStore) GetOccupancy(_ context.Context, showID string) (seats.OccupancyMap, error) {
	id, err := uuid.Parse(showID)
	if err != nil {
		return nil, seats.ErrShowNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	show, ok := m.shows[id]
	if !ok {
		return nil, seats.ErrShowNotFound
	}
	return show.OccupiedSeats.Clone(), nil
}

// ShowLookup
func (m *memStore) GetShow(_ context.Context, showID string) (*shows.Show, error) {
	id, err := uuid.Parse(showID)
	if err != nil {
		return nil, shows.ErrShowNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	show, ok := m.shows[id]
	if !ok {
		return nil, shows.ErrShowNotFound
	}
	cp := *show
	return &cp, nil
}

func (m *memStore) CreateWithSeatHold(_ context.Context, booking *Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	show, ok := m.shows[booking.ShowID]
	if !ok {
		return shows.ErrShowNotFound
	}
	if taken := seats.Conflicts(show.OccupiedSeats, booking.BookedSeats); len(taken) > 0 {
		return fmt.Errorf("%w: %v", ErrSeatsUnavailable, taken)
	}
	booking.ID = uuid.New()
	if m.now != nil {
		booking.CreatedAt = m.now()
	}
	booking.Amount = show.ShowPrice * float64(len(booking.BookedSeats))
	show.OccupiedSeats.Hold(booking.BookedSeats, booking.UserID)
	show.Version++
	cp := *booking
	m.bookings[booking.ID] = &cp
	return nil
}

func (m *memStore) GetByID(_ context.Context, id uuid.UUID) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memStore) SetPaymentSession(_ context.Context, id uuid.UUID, sessionID, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok || b.IsPaid {
		return ErrBookingNotFound
	}
	b.PaymentSessionID = sessionID
	b.PaymentLink = link
	return nil
}

func (m *memStore) MarkPaid(_ context.Context, id uuid.UUID) (MarkPaidResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return MarkPaidNotFound, nil
	}
	if b.IsPaid {
		return MarkPaidAlreadyPaid, nil
	}
	b.IsPaid = true
	b.PaymentLink = ""
	return MarkPaidConfirmed, nil
}

func (m *memStore) ReleaseUnpaid(_ context.Context, id uuid.UUID) (*Release, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok || b.IsPaid {
		return nil, nil
	}
	var freed []string
	if show, ok := m.shows[b.ShowID]; ok {
		freed = show.OccupiedSeats.Release(b.BookedSeats, b.UserID)
		show.Version++
	}
	delete(m.bookings, id)
	return &Release{BookingID: id, ShowID: b.ShowID, ReleasedSeats: freed}, nil
}

func (m *memStore) ListByUser(_ context.Context, userID string) ([]Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Booking
	for _, b := range m.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memStore) ListAll(_ context.Context) ([]Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Booking
	for _, b := range m.bookings {
		out = append(out, *b)
	}
	return out, nil
}

type fakeGateway struct {
	mu         sync.Mutex
	created    []payments.CheckoutRequest
	expired    []string
	createErr  error
	expireErr  error
	nextNumber int
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, req payments.CheckoutRequest) (*payments.CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.created = append(g.created, req)
	g.nextNumber++
	id := fmt.Sprintf("cs_test_%d", g.nextNumber)
	return &payments.CheckoutSession{ID: id, URL: "https://checkout.example/" + id}, nil
}

func (g *fakeGateway) ExpireSession(_ context.Context, sessionID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.expired = append(g.expired, sessionID)
	return g.expireErr
}

type fakeTimers struct {
	mu          sync.Mutex
	scheduled   map[string]scheduler.Job
	cancelled   []string
	scheduleErr error
}

func newFakeTimers() *fakeTimers {
	return &fakeTimers{scheduled: map[string]scheduler.Job{}}
}

func (f *fakeTimers) Schedule(_ context.Context, job scheduler.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.scheduleErr != nil {
		return f.scheduleErr
	}
	f.scheduled[job.ID] = job
	return nil
}

func (f *fakeTimers) Cancel(_ context.Context, kind, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.scheduled, id)
	f.cancelled = append(f.cancelled, kind+":"+id)
	return nil
}

type fakeNotifier struct {
	mu        sync.Mutex
	confirmed []string
}

func (f *fakeNotifier) BookingConfirmed(_ context.Context, booking *Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmed = append(f.confirmed, booking.ID.String())
	return nil
}

type fixture struct {
	store    *memStore
	gateway  *fakeGateway
	timers   *fakeTimers
	notifier *fakeNotifier
	cache    cache.Service
	svc      Service
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    newMemStore(),
		gateway:  &fakeGateway{},
		timers:   newFakeTimers(),
		notifier: &fakeNotifier{},
		now:      time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC),
	}
	f.store.now = func() time.Time { return f.now }

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	f.cache = cache.NewService(client)

	cfg := config.BookingConfig{
		FrontendURL:       "http://localhost:5173",
		CleanupDelay:      10 * time.Minute,
		SessionTTL:        30 * time.Minute,
		MaxSeats:          5,
		ReleaseRetryDelay: time.Minute,
	}
	svc := NewService(f.store, seats.NewService(f.store), f.store, f.gateway, f.timers, f.notifier, f.cache, cfg).(*service)
	svc.now = func() time.Time { return f.now }
	f.svc = svc
	return f
}

func TestCreateBookingHoldsSeatsAndSchedulesRelease(t *testing.T) {
	f := newFixture(t)
	show := f.store.addShow(12.5)

	resp, err := f.svc.CreateBooking(context.Background(), CreateBookingInput{
		UserID: "user_1",
		ShowID: show.ID.String(),
		Seats:  []string{"a1", "A2"},
		Origin: "https://quickshow.app/",
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	if resp.Amount != 25 {
		t.Errorf("amount = %v, want 25", resp.Amount)
	}
	occ := f.store.occupancy(show.ID)
	if occ["A1"] != "user_1" || occ["A2"] != "user_1" {
		t.Errorf("occupancy = %v, want A1 and A2 held by user_1", occ)
	}

	job, ok := f.timers.scheduled[resp.BookingID]
	if !ok {
		t.Fatalf("no release job scheduled for %s", resp.BookingID)
	}
	if job.Kind != ReleaseJobKind || !job.FireAt.Equal(f.now.Add(10*time.Minute)) {
		t.Errorf("job = %+v", job)
	}

	if len(f.gateway.created) != 1 {
		t.Fatalf("checkout sessions = %d, want 1", len(f.gateway.created))
	}
	req := f.gateway.created[0]
	if req.SuccessURL != "https://quickshow.app/loading/my-bookings" || req.CancelURL != "https://quickshow.app/my-bookings" {
		t.Errorf("redirects = %q %q", req.SuccessURL, req.CancelURL)
	}
	if req.Title != "Dune" || !req.ExpiresAt.Equal(f.now.Add(30*time.Minute)) {
		t.Errorf("checkout request = %+v", req)
	}

	booking, _ := f.store.GetByID(context.Background(), uuid.MustParse(resp.BookingID))
	if booking.PaymentLink != resp.URL || booking.IsPaid {
		t.Errorf("booking = %+v", booking)
	}
}

func TestCreateBookingRejectsHeldSeats(t *testing.T) {
	f := newFixture(t)
	show := f.store.addShow(10)
	ctx := context.Background()

	if _, err := f.svc.CreateBooking(ctx, CreateBookingInput{UserID: "u1", ShowID: show.ID.String(), Seats: []string{"B3"}}); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	_, err := f.svc.CreateBooking(ctx, CreateBookingInput{UserID: "u2", ShowID: show.ID.String(), Seats: []string{"B3", "B4"}})
	if !errors.Is(err, ErrSeatsUnavailable) {
		t.Fatalf("err = %v, want ErrSeatsUnavailable", err)
	}
	if occ := f.store.occupancy(show.ID); occ.IsHeld("B4") {
		t.Error("B4 was held although the booking failed")
	}
	if len(f.gateway.created) != 1 {
		t.Errorf("checkout sessions = %d, want 1", len(f.gateway.created))
	}
}

func TestCreateBookingValidation(t *testing.T) {
	f := newFixture(t)
	show := f.store.addShow(10)

	tests := []struct {
		name string
		in   CreateBookingInput
		want error
	}{
		{"no user", CreateBookingInput{ShowID: show.ID.String(), Seats: []string{"A1"}}, ErrInvalidRequest},
		{"no seats", CreateBookingInput{UserID: "u", ShowID: show.ID.String()}, ErrInvalidRequest},
		{"blank seat", CreateBookingInput{UserID: "u", ShowID: show.ID.String(), Seats: []string{" "}}, ErrInvalidRequest},
		{"too many", CreateBookingInput{UserID: "u", ShowID: show.ID.String(), Seats: []string{"A1", "A2", "A3", "A4", "A5", "A6"}}, ErrTooManySeats},
		{"unknown show", CreateBookingInput{UserID: "u", ShowID: uuid.NewString(), Seats: []string{"A1"}}, ErrSeatsUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateBooking(context.Background(), tt.in)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestConcurrentBookingsForSameSeat(t *testing.T) {
	f := newFixture(t)
	show := f.store.addShow(10)

	const n = 20
	var wg sync.WaitGroup
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.svc.CreateBooking(context.Background(), CreateBookingInput{
				UserID: fmt.Sprintf("user_%d", i),
				ShowID: show.ID.String(),
				Seats:  []string{"C7"},
			})
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	wins := 0
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrSeatsUnavailable):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Errorf("successful bookings = %d, want 1", wins)
	}
	all, _ := f.store.ListAll(context.Background())
	if len(all) != 1 {
		t.Errorf("stored bookings = %d, want 1", len(all))
	}
}

func TestCreateBookingLeavesHoldsForCleanupWhenCheckoutFails(t *testing.T) {
	f := newFixture(t)
	show := f.store.addShow(10)
	f.gateway.createErr = fmt.Errorf("%w: boom", payments.ErrPaymentProvider)

	_, err := f.svc.CreateBooking(context.Background(), CreateBookingInput{UserID: "u1", ShowID: show.ID.String(), Seats: []string{"D1"}})
	if !errors.Is(err, payments.ErrPaymentProvider) {
		t.Fatalf("err = %v, want ErrPaymentProvider", err)
	}
	if len(f.timers.scheduled) != 1 {
		t.Fatalf("release jobs = %d, want 1", len(f.timers.scheduled))
	}

	for id := range f.timers.scheduled {
		if err := f.svc.ReleaseUnpaid(context.Background(), id); err != nil {
			t.Fatalf("ReleaseUnpaid: %v", err)
		}
	}
	if occ := f.store.occupancy(show.ID); len(occ) != 0 {
		t.Errorf("occupancy after release = %v, want empty", occ)
	}
	if len(f.gateway.expired) != 0 {
		t.Errorf("expired %v, want nothing without a session", f.gateway.expired)
	}
}

func TestConfirmPaymentIsIdempotent(t *testing.T) {
	f := newFixture(t)
	show := f.store.addShow(10)
	ctx := context.Background()

	resp, err := f.svc.CreateBooking(ctx, CreateBookingInput{UserID: "u1", ShowID: show.ID.String(), Seats: []string{"E1"}})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := f.svc.ConfirmPayment(ctx, resp.BookingID); err != nil {
			t.Fatalf("ConfirmPayment #%d: %v", i, err)
		}
	}

	booking, _ := f.store.GetByID(ctx, uuid.MustParse(resp.BookingID))
	if !booking.IsPaid || booking.PaymentLink != "" {
		t.Errorf("booking = %+v, want paid with link cleared", booking)
	}
	if len(f.notifier.confirmed) != 1 {
		t.Errorf("notifications = %d, want 1", len(f.notifier.confirmed))
	}
	if len(f.timers.scheduled) != 0 {
		t.Errorf("release job still pending after payment")
	}

	// a late timer must not touch a paid booking
	if err := f.svc.ReleaseUnpaid(ctx, resp.BookingID); err != nil {
		t.Fatalf("ReleaseUnpaid: %v", err)
	}
	if occ := f.store.occupancy(show.ID); occ["E1"] != "u1" {
		t.Errorf("paid seat released: %v", occ)
	}
}

func TestConfirmPaymentUnknownBooking(t *testing.T) {
	f := newFixture(t)
	for _, id := range []string{uuid.NewString(), "not-a-uuid"} {
		if err := f.svc.ConfirmPayment(context.Background(), id); err != nil {
			t.Errorf("ConfirmPayment(%q) = %v, want nil", id, err)
		}
	}
	if len(f.notifier.confirmed) != 0 {
		t.Errorf("notified for a missing booking")
	}
}

func TestReleaseUnpaid(t *testing.T) {
	ctx := context.Background()

	t.Run("frees seats and deletes booking", func(t *testing.T) {
		f := newFixture(t)
		show := f.store.addShow(10)
		resp, _ := f.svc.CreateBooking(ctx, CreateBookingInput{UserID: "u1", ShowID: show.ID.String(), Seats: []string{"F1", "F2"}})

		if err := f.svc.HandleReleaseJob(ctx, scheduler.Job{ID: resp.BookingID, Kind: ReleaseJobKind}); err != nil {
			t.Fatalf("HandleReleaseJob: %v", err)
		}
		if occ := f.store.occupancy(show.ID); len(occ) != 0 {
			t.Errorf("occupancy = %v, want empty", occ)
		}
		if _, err := f.store.GetByID(ctx, uuid.MustParse(resp.BookingID)); !errors.Is(err, ErrBookingNotFound) {
			t.Errorf("booking still present: %v", err)
		}
		if len(f.gateway.expired) != 1 {
			t.Errorf("expired sessions = %v, want one", f.gateway.expired)
		}

		// the seats can be booked again
		if _, err := f.svc.CreateBooking(ctx, CreateBookingInput{UserID: "u2", ShowID: show.ID.String(), Seats: []string{"F1"}}); err != nil {
			t.Errorf("rebooking released seat: %v", err)
		}
	})

	t.Run("completed checkout defers to confirmation", func(t *testing.T) {
		f := newFixture(t)
		show := f.store.addShow(10)
		resp, _ := f.svc.CreateBooking(ctx, CreateBookingInput{UserID: "u1", ShowID: show.ID.String(), Seats: []string{"G1"}})
		f.gateway.expireErr = payments.ErrSessionCompleted

		if err := f.svc.ReleaseUnpaid(ctx, resp.BookingID); err != nil {
			t.Fatalf("ReleaseUnpaid: %v", err)
		}
		if occ := f.store.occupancy(show.ID); occ["G1"] != "u1" {
			t.Errorf("seat released while payment in flight: %v", occ)
		}

		if err := f.svc.ConfirmPayment(ctx, resp.BookingID); err != nil {
			t.Fatalf("ConfirmPayment: %v", err)
		}
		booking, _ := f.store.GetByID(ctx, uuid.MustParse(resp.BookingID))
		if !booking.IsPaid {
			t.Error("booking not paid after late webhook")
		}
	})

	t.Run("provider outage defers release until the session lapses", func(t *testing.T) {
		f := newFixture(t)
		show := f.store.addShow(10)
		resp, _ := f.svc.CreateBooking(ctx, CreateBookingInput{UserID: "u1", ShowID: show.ID.String(), Seats: []string{"H1"}})
		f.gateway.expireErr = fmt.Errorf("%w: timeout", payments.ErrPaymentProvider)

		// the cleanup timer fires at T0+10min while the provider is down
		f.now = f.now.Add(10 * time.Minute)
		delete(f.timers.scheduled, resp.BookingID)
		if err := f.svc.HandleReleaseJob(ctx, scheduler.Job{ID: resp.BookingID, Kind: ReleaseJobKind}); err != nil {
			t.Fatalf("HandleReleaseJob: %v", err)
		}
		if occ := f.store.occupancy(show.ID); occ["H1"] != "u1" {
			t.Errorf("seat released while the session could still be paid: %v", occ)
		}
		job, ok := f.timers.scheduled[resp.BookingID]
		if !ok || !job.FireAt.Equal(f.now.Add(time.Minute)) {
			t.Fatalf("retry job = %+v (scheduled %v), want one at +1m", job, ok)
		}

		// past the session expiry no payment can land
		f.now = f.now.Add(20 * time.Minute)
		if err := f.svc.ReleaseUnpaid(ctx, resp.BookingID); err != nil {
			t.Fatalf("ReleaseUnpaid: %v", err)
		}
		if occ := f.store.occupancy(show.ID); len(occ) != 0 {
			t.Errorf("occupancy = %v, want empty", occ)
		}
	})

	t.Run("provider outage with no timer store releases", func(t *testing.T) {
		f := newFixture(t)
		show := f.store.addShow(10)
		resp, _ := f.svc.CreateBooking(ctx, CreateBookingInput{UserID: "u1", ShowID: show.ID.String(), Seats: []string{"H2"}})
		f.gateway.expireErr = fmt.Errorf("%w: timeout", payments.ErrPaymentProvider)
		f.timers.scheduleErr = errors.New("redis down")

		if err := f.svc.ReleaseUnpaid(ctx, resp.BookingID); err != nil {
			t.Fatalf("ReleaseUnpaid: %v", err)
		}
		if occ := f.store.occupancy(show.ID); len(occ) != 0 {
			t.Errorf("occupancy = %v, want empty", occ)
		}
	})

	t.Run("missing booking is a no-op", func(t *testing.T) {
		f := newFixture(t)
		if err := f.svc.ReleaseUnpaid(ctx, uuid.NewString()); err != nil {
			t.Errorf("ReleaseUnpaid = %v, want nil", err)
		}
	})
}

func TestReleaseKeepsSeatsRebookedByOthers(t *testing.T) {
	f := newFixture(t)
	show := f.store.addShow(10)
	ctx := context.Background()

	resp, _ := f.svc.CreateBooking(ctx, CreateBookingInput{UserID: "u1", ShowID: show.ID.String(), Seats: []string{"J1"}})

	// someone else holds J1 by the time the stale booking is cleaned up
	f.store.mu.Lock()
	f.store.shows[show.ID].OccupiedSeats["J1"] = "u2"
	f.store.mu.Unlock()

	if err := f.svc.ReleaseUnpaid(ctx, resp.BookingID); err != nil {
		t.Fatalf("ReleaseUnpaid: %v", err)
	}
	if occ := f.store.occupancy(show.ID); occ["J1"] != "u2" {
		t.Errorf("J1 = %q, want u2", occ["J1"])
	}
}

func TestCreateBookingFreesSeatsWhenTimerCannotBeArmed(t *testing.T) {
	f := newFixture(t)
	show := f.store.addShow(10)
	f.timers.scheduleErr = errors.New("redis down")

	_, err := f.svc.CreateBooking(context.Background(), CreateBookingInput{UserID: "u1", ShowID: show.ID.String(), Seats: []string{"A1", "A2"}})
	if err == nil {
		t.Fatal("CreateBooking succeeded without a release timer")
	}
	if occ := f.store.occupancy(show.ID); len(occ) != 0 {
		t.Errorf("occupancy = %v, want empty", occ)
	}
	if all, _ := f.store.ListAll(context.Background()); len(all) != 0 {
		t.Errorf("bookings = %d, want 0", len(all))
	}
	if len(f.gateway.created) != 0 {
		t.Errorf("checkout opened for a rolled back booking")
	}

	// the seats are sellable again once timers work
	f.timers.scheduleErr = nil
	if _, err := f.svc.CreateBooking(context.Background(), CreateBookingInput{UserID: "u2", ShowID: show.ID.String(), Seats: []string{"A1"}}); err != nil {
		t.Errorf("rebooking: %v", err)
	}
}

func TestConfirmPaymentDropsCachedDashboard(t *testing.T) {
	f := newFixture(t)
	show := f.store.addShow(10)
	ctx := context.Background()

	resp, err := f.svc.CreateBooking(ctx, CreateBookingInput{UserID: "u1", ShowID: show.ID.String(), Seats: []string{"K1"}})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if err := f.cache.Set(ctx, constants.CACHE_KEY_ADMIN_DASHBOARD, map[string]int{"totalBookings": 0}, time.Minute); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	if err := f.svc.ConfirmPayment(ctx, resp.BookingID); err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}
	if f.cache.Exists(ctx, constants.CACHE_KEY_ADMIN_DASHBOARD) {
		t.Error("dashboard still cached after a confirmed payment")
	}
}
