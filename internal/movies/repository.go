package movies

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Movie, error)
	GetByExternalID(ctx context.Context, externalID string) (*Movie, error)
	// GetByIdentifiers matches each identifier against the internal id or the
	// catalog id.
	GetByIdentifiers(ctx context.Context, identifiers []string) ([]Movie, error)
	// Create inserts movie, or loads the existing row when another request
	// imported the same catalog title first.
	Create(ctx context.Context, movie *Movie) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Movie, error) {
	var movie Movie
	if err := r.db.WithContext(ctx).First(&movie, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return &movie, nil
}

func (r *repository) GetByExternalID(ctx context.Context, externalID string) (*Movie, error) {
	var movie Movie
	if err := r.db.WithContext(ctx).First(&movie, "external_id = ?", externalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return &movie, nil
}

func (r *repository) GetByIdentifiers(ctx context.Context, identifiers []string) ([]Movie, error) {
	var movies []Movie
	if len(identifiers) == 0 {
		return movies, nil
	}

	var ids []uuid.UUID
	for _, raw := range identifiers {
		if id, err := uuid.Parse(raw); err == nil {
			ids = append(ids, id)
		}
	}

	query := r.db.WithContext(ctx).Where("external_id IN ?", identifiers)
	if len(ids) > 0 {
		query = query.Or("id IN ?", ids)
	}
	if err := query.Find(&movies).Error; err != nil {
		return nil, fmt.Errorf("failed to load movies: %w", err)
	}
	return movies, nil
}

func (r *repository) Create(ctx context.Context, movie *Movie) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "external_id"}}, DoNothing: true}).
		Create(movie).Error
	if err != nil {
		return fmt.Errorf("failed to create movie: %w", err)
	}

	existing, err := r.GetByExternalID(ctx, movie.ExternalID)
	if err != nil {
		return err
	}
	*movie = *existing
	return nil
}
