package shows

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quickshow/internal/movies"
	"quickshow/internal/seats"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type fakeRepo struct {
	shows []Show
	err   error
}

func (f *fakeRepo) CreateMany(_ context.Context, shows []Show) error {
	if f.err != nil {
		return f.err
	}
	for i := range shows {
		shows[i].ID = uuid.New()
		f.shows = append(f.shows, shows[i])
	}
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Show, error) {
	for i := range f.shows {
		if f.shows[i].ID == id {
			return &f.shows[i], nil
		}
	}
	return nil, ErrShowNotFound
}

func (f *fakeRepo) GetOccupancy(_ context.Context, showID string) (seats.OccupancyMap, error) {
	id, err := uuid.Parse(showID)
	if err != nil {
		return nil, ErrShowNotFound
	}
	show, err := f.GetByID(context.Background(), id)
	if err != nil {
		return nil, err
	}
	return show.OccupiedSeats, nil
}

func (f *fakeRepo) ListUpcoming(_ context.Context, from time.Time) ([]Show, error) {
	var out []Show
	for _, s := range f.shows {
		if !s.ShowDateTime.Before(from) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListUpcomingByMovie(ctx context.Context, movieID uuid.UUID, from time.Time) ([]Show, error) {
	all, _ := f.ListUpcoming(ctx, from)
	var out []Show
	for _, s := range all {
		if s.MovieID == movieID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeMovies struct {
	movie *movies.Movie
	err   error
}

func (f *fakeMovies) NowPlaying(context.Context) ([]movies.NowPlayingMovie, error) { return nil, nil }
func (f *fakeMovies) GetMany(context.Context, []string) ([]movies.Movie, error)    { return nil, nil }

func (f *fakeMovies) Resolve(_ context.Context, id string) (*movies.Movie, error) {
	if f.err != nil {
		return nil, f.err
	}
	if id != f.movie.ExternalID && id != f.movie.ID.String() {
		return nil, movies.ErrMovieNotFound
	}
	return f.movie, nil
}

func (f *fakeMovies) FindOrImport(ctx context.Context, id string) (*movies.Movie, error) {
	return f.Resolve(ctx, id)
}

type recordingAnnouncer struct {
	movieID string
	count   int
}

func (r *recordingAnnouncer) ShowsAdded(_ context.Context, movieID, _ string, count int) error {
	r.movieID = movieID
	r.count = count
	return nil
}

func newTestService(repo *fakeRepo, mv *fakeMovies, ann Announcer, now time.Time) *service {
	svc := NewService(repo, mv, ann).(*service)
	svc.location = time.UTC
	svc.now = func() time.Time { return now }
	return svc
}

func TestAddShowsSkipsInvalidSlots(t *testing.T) {
	movie := &movies.Movie{ID: uuid.New(), ExternalID: "tt1", Title: "First"}
	repo := &fakeRepo{}
	ann := &recordingAnnouncer{}
	svc := newTestService(repo, &fakeMovies{movie: movie}, ann, time.Now())

	resp, err := svc.AddShows(context.Background(), AddShowsRequest{
		MovieID: "tt1",
		Shows: []ShowSlotInput{
			{Date: "2030-05-01", Time: "18:30"},
			{Date: "2030-05-01", Time: "not-a-time"},
			{Date: "", Time: "10:00"},
			{Date: "2030-05-02", Time: "21:00:00"},
		},
		ShowPrice: 12.5,
	})
	if err != nil {
		t.Fatalf("AddShows: %v", err)
	}
	if resp.Created != 2 || resp.Skipped != 2 {
		t.Errorf("created/skipped = %d/%d, want 2/2", resp.Created, resp.Skipped)
	}
	if len(repo.shows) != 2 {
		t.Fatalf("stored %d shows", len(repo.shows))
	}

	want := time.Date(2030, 5, 1, 18, 30, 0, 0, time.UTC)
	if !repo.shows[0].ShowDateTime.Equal(want) {
		t.Errorf("first show at %v, want %v", repo.shows[0].ShowDateTime, want)
	}
	if repo.shows[0].ShowPrice != 12.5 || repo.shows[0].MovieID != movie.ID {
		t.Errorf("unexpected show %+v", repo.shows[0])
	}
	if ann.count != 2 || ann.movieID != movie.ID.String() {
		t.Errorf("announcer got %s/%d", ann.movieID, ann.count)
	}
}

func TestAddShowsAllInvalid(t *testing.T) {
	movie := &movies.Movie{ID: uuid.New(), ExternalID: "tt1"}
	repo := &fakeRepo{}
	svc := newTestService(repo, &fakeMovies{movie: movie}, nil, time.Now())

	_, err := svc.AddShows(context.Background(), AddShowsRequest{
		MovieID:   "tt1",
		Shows:     []ShowSlotInput{{Date: "yesterday", Time: "noon"}},
		ShowPrice: 10,
	})
	if !errors.Is(err, ErrNoValidShows) {
		t.Fatalf("err = %v, want ErrNoValidShows", err)
	}
	if len(repo.shows) != 0 {
		t.Error("nothing should be stored")
	}
}

func TestMovieScheduleGroupsUpcomingByDate(t *testing.T) {
	now := time.Date(2030, 1, 10, 12, 0, 0, 0, time.UTC)
	movie := &movies.Movie{ID: uuid.New(), ExternalID: "tt1"}
	other := uuid.New()
	repo := &fakeRepo{shows: []Show{
		{ID: uuid.New(), MovieID: movie.ID, ShowDateTime: now.Add(-time.Hour)},
		{ID: uuid.New(), MovieID: movie.ID, ShowDateTime: now.Add(2 * time.Hour)},
		{ID: uuid.New(), MovieID: movie.ID, ShowDateTime: now.Add(3 * time.Hour)},
		{ID: uuid.New(), MovieID: movie.ID, ShowDateTime: now.Add(26 * time.Hour)},
		{ID: uuid.New(), MovieID: other, ShowDateTime: now.Add(time.Hour)},
	}}
	svc := newTestService(repo, &fakeMovies{movie: movie}, nil, now)

	schedule, err := svc.MovieSchedule(context.Background(), "tt1")
	if err != nil {
		t.Fatalf("MovieSchedule: %v", err)
	}
	if got := len(schedule.DateTime["2030-01-10"]); got != 2 {
		t.Errorf("2030-01-10 has %d shows, want 2", got)
	}
	if got := len(schedule.DateTime["2030-01-11"]); got != 1 {
		t.Errorf("2030-01-11 has %d shows, want 1", got)
	}
	if len(schedule.DateTime) != 2 {
		t.Errorf("dates = %v", schedule.DateTime)
	}
}

func TestMovieScheduleUnknownMovie(t *testing.T) {
	movie := &movies.Movie{ID: uuid.New(), ExternalID: "tt1"}
	svc := newTestService(&fakeRepo{}, &fakeMovies{movie: movie}, nil, time.Now())

	if _, err := svc.MovieSchedule(context.Background(), "tt404"); !errors.Is(err, movies.ErrMovieNotFound) {
		t.Errorf("err = %v, want ErrMovieNotFound", err)
	}
}

func TestAddShowsHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	movie := &movies.Movie{ID: uuid.New(), ExternalID: "tt1"}

	tests := []struct {
		name     string
		body     interface{}
		wantCode int
	}{
		{"ok", AddShowsRequest{MovieID: "tt1", Shows: []ShowSlotInput{{Date: "2030-01-01", Time: "10:00"}}, ShowPrice: 9}, http.StatusCreated},
		{"missing movie id", AddShowsRequest{Shows: []ShowSlotInput{{Date: "2030-01-01", Time: "10:00"}}, ShowPrice: 9}, http.StatusBadRequest},
		{"no slots", AddShowsRequest{MovieID: "tt1", ShowPrice: 9}, http.StatusBadRequest},
		{"zero price", AddShowsRequest{MovieID: "tt1", Shows: []ShowSlotInput{{Date: "2030-01-01", Time: "10:00"}}}, http.StatusBadRequest},
		{"all invalid", AddShowsRequest{MovieID: "tt1", Shows: []ShowSlotInput{{Date: "x", Time: "y"}}, ShowPrice: 9}, http.StatusBadRequest},
		{"unknown movie", AddShowsRequest{MovieID: "tt404", Shows: []ShowSlotInput{{Date: "2030-01-01", Time: "10:00"}}, ShowPrice: 9}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&fakeRepo{}, &fakeMovies{movie: movie}, nil, time.Now())
			ctrl := NewController(svc)

			body, _ := json.Marshal(tt.body)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/show/add", bytes.NewReader(body))
			c.Request.Header.Set("Content-Type", "application/json")

			ctrl.AddShows(c)

			if w.Code != tt.wantCode {
				t.Errorf("code = %d, want %d (body %s)", w.Code, tt.wantCode, w.Body.String())
			}
		})
	}
}
