package shows

import (
	"time"

	"quickshow/internal/movies"
)

type ShowTime struct {
	Time   time.Time `json:"time"`
	ShowID string    `json:"showId"`
}

// MovieScheduleResponse groups a movie's upcoming shows by calendar date (UTC)
type MovieScheduleResponse struct {
	Movie    *movies.Movie         `json:"movie"`
	DateTime map[string][]ShowTime `json:"datetime"`
}

type AddShowsResponse struct {
	MovieID string `json:"movieId"`
	Created int    `json:"created"`
	Skipped int    `json:"skipped"`
}
