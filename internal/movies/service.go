package movies

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"quickshow/pkg/logger"

	"github.com/google/uuid"
)

type Service interface {
	NowPlaying(ctx context.Context) ([]NowPlayingMovie, error)
	// Resolve looks a movie up locally by internal id or catalog id.
	Resolve(ctx context.Context, identifier string) (*Movie, error)
	// FindOrImport resolves locally and falls back to importing the title
	// from the catalog.
	FindOrImport(ctx context.Context, identifier string) (*Movie, error)
	GetMany(ctx context.Context, identifiers []string) ([]Movie, error)
}

type service struct {
	repo    Repository
	catalog CatalogClient
	log     *logger.Logger
}

func NewService(repo Repository, catalog CatalogClient) Service {
	return &service{
		repo:    repo,
		catalog: catalog,
		log:     logger.GetDefault(),
	}
}

func (s *service) NowPlaying(ctx context.Context) ([]NowPlayingMovie, error) {
	titles, err := s.catalog.PopularMovies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch now playing movies: %w", err)
	}

	out := make([]NowPlayingMovie, 0, len(titles))
	for _, t := range titles {
		if t.ID == "" {
			continue
		}
		out = append(out, t.ToNowPlaying())
	}
	return out, nil
}

func (s *service) Resolve(ctx context.Context, identifier string) (*Movie, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, ErrMovieNotFound
	}
	if id, err := uuid.Parse(identifier); err == nil {
		return s.repo.GetByID(ctx, id)
	}
	return s.repo.GetByExternalID(ctx, identifier)
}

func (s *service) FindOrImport(ctx context.Context, identifier string) (*Movie, error) {
	movie, err := s.Resolve(ctx, identifier)
	if err == nil {
		return movie, nil
	}
	if !errors.Is(err, ErrMovieNotFound) {
		return nil, err
	}
	// Internal ids never come from the catalog
	if _, parseErr := uuid.Parse(identifier); parseErr == nil {
		return nil, ErrMovieNotFound
	}

	title, err := s.catalog.Title(ctx, identifier)
	if err != nil {
		return nil, err
	}

	movie = title.ToMovie()
	if err := s.repo.Create(ctx, movie); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "Movie imported from catalog",
		"movie_id", movie.ID.String(),
		"external_id", movie.ExternalID,
	)
	return movie, nil
}

func (s *service) GetMany(ctx context.Context, identifiers []string) ([]Movie, error) {
	return s.repo.GetByIdentifiers(ctx, identifiers)
}
