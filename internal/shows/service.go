package shows

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"quickshow/internal/movies"
	"quickshow/pkg/logger"

	"github.com/google/uuid"
)

var ErrNoValidShows = errors.New("no valid show datetimes found")

// Announcer is told about newly scheduled shows. Failures are logged only.
type Announcer interface {
	ShowsAdded(ctx context.Context, movieID, movieTitle string, count int) error
}

type Service interface {
	AddShows(ctx context.Context, req AddShowsRequest) (*AddShowsResponse, error)
	ListUpcoming(ctx context.Context) ([]Show, error)
	MovieSchedule(ctx context.Context, movieIdentifier string) (*MovieScheduleResponse, error)
	GetShow(ctx context.Context, showID string) (*Show, error)
}

type service struct {
	repo      Repository
	movies    movies.Service
	announcer Announcer
	location  *time.Location
	now       func() time.Time
	log       *logger.Logger
}

func NewService(repo Repository, movieService movies.Service, announcer Announcer) Service {
	return &service{
		repo:      repo,
		movies:    movieService,
		announcer: announcer,
		location:  time.Local,
		now:       time.Now,
		log:       logger.GetDefault(),
	}
}

func (s *service) AddShows(ctx context.Context, req AddShowsRequest) (*AddShowsResponse, error) {
	movie, err := s.movies.FindOrImport(ctx, req.MovieID)
	if err != nil {
		return nil, err
	}

	toCreate := make([]Show, 0, len(req.Shows))
	for _, slot := range req.Shows {
		at, err := parseSlot(slot, s.location)
		if err != nil {
			s.log.WarnContext(ctx, "Skipping invalid show datetime",
				"date", slot.Date, "time", slot.Time)
			continue
		}
		toCreate = append(toCreate, Show{
			MovieID:      movie.ID,
			ShowDateTime: at,
			ShowPrice:    req.ShowPrice,
		})
	}

	if len(toCreate) == 0 {
		return nil, ErrNoValidShows
	}

	if err := s.repo.CreateMany(ctx, toCreate); err != nil {
		return nil, err
	}
	s.log.LogShowsAdded(ctx, movie.ID.String(), len(toCreate))

	if s.announcer != nil {
		if err := s.announcer.ShowsAdded(ctx, movie.ID.String(), movie.Title, len(toCreate)); err != nil {
			s.log.ErrorWithContext(ctx, "failed to announce new shows", err, map[string]interface{}{
				"movie_id": movie.ID.String(),
			})
		}
	}

	return &AddShowsResponse{
		MovieID: movie.ID.String(),
		Created: len(toCreate),
		Skipped: len(req.Shows) - len(toCreate),
	}, nil
}

func (s *service) ListUpcoming(ctx context.Context) ([]Show, error) {
	return s.repo.ListUpcoming(ctx, s.now())
}

func (s *service) MovieSchedule(ctx context.Context, movieIdentifier string) (*MovieScheduleResponse, error) {
	movie, err := s.movies.Resolve(ctx, movieIdentifier)
	if err != nil {
		return nil, err
	}

	shows, err := s.repo.ListUpcomingByMovie(ctx, movie.ID, s.now())
	if err != nil {
		return nil, err
	}

	return &MovieScheduleResponse{
		Movie:    movie,
		DateTime: groupByDate(shows),
	}, nil
}

func (s *service) GetShow(ctx context.Context, showID string) (*Show, error) {
	id, err := uuid.Parse(showID)
	if err != nil {
		return nil, ErrShowNotFound
	}
	return s.repo.GetByID(ctx, id)
}

var slotLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
}

func parseSlot(slot ShowSlotInput, loc *time.Location) (time.Time, error) {
	date := strings.TrimSpace(slot.Date)
	clock := strings.TrimSpace(slot.Time)
	if date == "" || clock == "" {
		return time.Time{}, fmt.Errorf("empty date or time")
	}

	value := date + "T" + clock
	for _, layout := range slotLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised datetime %q", value)
}

func groupByDate(shows []Show) map[string][]ShowTime {
	out := make(map[string][]ShowTime)
	for _, show := range shows {
		if show.ShowDateTime.IsZero() {
			continue
		}
		date := show.ShowDateTime.UTC().Format("2006-01-02")
		out[date] = append(out[date], ShowTime{
			Time:   show.ShowDateTime,
			ShowID: show.ID.String(),
		})
	}
	return out
}
