package movies

import (
	"strconv"
	"time"

	"quickshow/internal/shared/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Movie is the local copy of a catalog title. Shows reference it by ID.
type Movie struct {
	ID               uuid.UUID        `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ExternalID       string           `json:"external_id" gorm:"uniqueIndex;not null;size:32"`
	Title            string           `json:"title" gorm:"not null;size:255"`
	Overview         string           `json:"overview" gorm:"type:text"`
	PosterPath       string           `json:"poster_path" gorm:"size:500"`
	BackdropPath     string           `json:"backdrop_path" gorm:"size:500"`
	ReleaseDate      string           `json:"release_date" gorm:"size:32"`
	OriginalLanguage string           `json:"original_language" gorm:"size:32"`
	VoteAverage      float64          `json:"vote_average"`
	NumVotes         int              `json:"num_votes"`
	Runtime          int              `json:"runtime"`
	Trailer          string           `json:"trailer" gorm:"size:500"`
	Genres           types.StringList `json:"genres"`
	Casts            types.StringList `json:"casts"`
	CreatedAt        time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time        `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Movie) TableName() string {
	return "movies"
}

func (m *Movie) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// CatalogTitle is a title as returned by the external catalog API
type CatalogTitle struct {
	ID              string          `json:"id"`
	PrimaryTitle    string          `json:"primaryTitle"`
	OriginalTitle   string          `json:"originalTitle"`
	Description     string          `json:"description"`
	PrimaryImage    string          `json:"primaryImage"`
	ReleaseDate     string          `json:"releaseDate"`
	StartYear       int             `json:"startYear"`
	AverageRating   float64         `json:"averageRating"`
	NumVotes        int             `json:"numVotes"`
	RuntimeMinutes  int             `json:"runtimeMinutes"`
	Trailer         string          `json:"trailer"`
	Genres          []string        `json:"genres"`
	Cast            []CatalogPerson `json:"cast"`
	SpokenLanguages []string        `json:"spokenLanguages"`
}

type CatalogPerson struct {
	FullName string `json:"fullName"`
}

// NowPlayingMovie is the trimmed projection the admin UI lists
type NowPlayingMovie struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	Overview    string  `json:"overview"`
	VoteAverage float64 `json:"vote_average"`
	PosterPath  string  `json:"poster_path"`
}

const noDescription = "No description available"

// ToNowPlaying projects a catalog title for listing
func (t CatalogTitle) ToNowPlaying() NowPlayingMovie {
	return NowPlayingMovie{
		ID:          t.ID,
		Title:       t.title(),
		ReleaseDate: t.releaseDate(),
		Overview:    t.overview(),
		VoteAverage: t.AverageRating,
		PosterPath:  t.PrimaryImage,
	}
}

// ToMovie converts a catalog title into a Movie ready to insert
func (t CatalogTitle) ToMovie() *Movie {
	casts := make(types.StringList, 0, len(t.Cast))
	for _, p := range t.Cast {
		if p.FullName != "" {
			casts = append(casts, p.FullName)
		}
	}
	genres := types.StringList(t.Genres)
	if genres == nil {
		genres = types.StringList{}
	}

	lang := "unknown"
	if len(t.SpokenLanguages) > 0 && t.SpokenLanguages[0] != "" {
		lang = t.SpokenLanguages[0]
	}

	return &Movie{
		ExternalID:       t.ID,
		Title:            t.title(),
		Overview:         t.overview(),
		PosterPath:       t.PrimaryImage,
		BackdropPath:     t.PrimaryImage,
		ReleaseDate:      t.releaseDate(),
		OriginalLanguage: lang,
		VoteAverage:      t.AverageRating,
		NumVotes:         t.NumVotes,
		Runtime:          t.RuntimeMinutes,
		Trailer:          t.Trailer,
		Genres:           genres,
		Casts:            casts,
	}
}

func (t CatalogTitle) title() string {
	if t.PrimaryTitle != "" {
		return t.PrimaryTitle
	}
	return t.OriginalTitle
}

func (t CatalogTitle) overview() string {
	if t.Description != "" {
		return t.Description
	}
	return noDescription
}

func (t CatalogTitle) releaseDate() string {
	if t.ReleaseDate != "" {
		return t.ReleaseDate
	}
	if t.StartYear > 0 {
		return strconv.Itoa(t.StartYear)
	}
	return ""
}
