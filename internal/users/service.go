package users

import (
	"context"
	"errors"
	"strings"

	"quickshow/internal/movies"
	"quickshow/pkg/logger"
)

var ErrInvalidMovieID = errors.New("movie id is required")

// MovieLookup resolves stored favorite ids to movies
type MovieLookup interface {
	GetMany(ctx context.Context, identifiers []string) ([]movies.Movie, error)
}

type Service interface {
	// ToggleFavorite adds the movie if absent, removes it if present, and
	// returns the new list.
	ToggleFavorite(ctx context.Context, userID, movieID string) ([]string, error)
	FavoriteMovies(ctx context.Context, userID string) ([]movies.Movie, error)

	SyncUser(ctx context.Context, user *User) error
	DeleteUser(ctx context.Context, userID string) error
	CountUsers(ctx context.Context) (int64, error)
}

type service struct {
	repo      Repository
	favorites FavoritesStore
	movies    MovieLookup
	log       *logger.Logger
}

func NewService(repo Repository, favorites FavoritesStore, movieLookup MovieLookup) Service {
	return &service{
		repo:      repo,
		favorites: favorites,
		movies:    movieLookup,
		log:       logger.GetDefault(),
	}
}

func (s *service) ToggleFavorite(ctx context.Context, userID, movieID string) ([]string, error) {
	movieID = strings.TrimSpace(movieID)
	if movieID == "" {
		return nil, ErrInvalidMovieID
	}

	return s.favorites.Update(ctx, userID, func(current []string) []string {
		next := make([]string, 0, len(current)+1)
		removed := false
		for _, id := range current {
			if id == movieID {
				removed = true
				continue
			}
			next = append(next, id)
		}
		if !removed {
			next = append(next, movieID)
		}
		return next
	})
}

func (s *service) FavoriteMovies(ctx context.Context, userID string) ([]movies.Movie, error) {
	ids, err := s.favorites.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []movies.Movie{}, nil
	}
	return s.movies.GetMany(ctx, ids)
}

func (s *service) SyncUser(ctx context.Context, user *User) error {
	if err := s.repo.Upsert(ctx, user); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "User synced", "user_id", user.ID)
	return nil
}

func (s *service) DeleteUser(ctx context.Context, userID string) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}
	if err := s.favorites.Set(ctx, userID, nil); err != nil {
		s.log.ErrorWithContext(ctx, "failed to clear favorites", err, map[string]interface{}{
			"user_id": userID,
		})
	}
	s.log.InfoContext(ctx, "User deleted", "user_id", userID)
	return nil
}

func (s *service) CountUsers(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
