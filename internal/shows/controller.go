package shows

import (
	"errors"
	"net/http"

	"quickshow/internal/movies"
	"quickshow/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{
		service:   service,
		validator: validator.New(),
	}
}

// AddShows schedules one or more shows of a movie (admin)
func (c *Controller) AddShows(ctx *gin.Context) {
	var req AddShowsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	resp, err := c.service.AddShows(ctx.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoValidShows):
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "No valid show datetimes found. Please check your input.", nil, nil)
		case errors.Is(err, movies.ErrMovieNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Movie not found", nil, nil)
		case errors.Is(err, movies.ErrCatalogUnavailable):
			response.RespondJSON(ctx, "error", http.StatusBadGateway, "Movie catalog unavailable", nil, err.Error())
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to add shows", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Show(s) added successfully.", resp, nil)
}

// GetShows lists every upcoming show with its movie, soonest first
func (c *Controller) GetShows(ctx *gin.Context) {
	shows, err := c.service.ListUpcoming(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get shows", nil, err.Error())
		return
	}
	if shows == nil {
		shows = []Show{}
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Shows retrieved successfully", gin.H{"shows": shows}, nil)
}

// GetMovieSchedule returns a movie and its upcoming shows grouped by date
func (c *Controller) GetMovieSchedule(ctx *gin.Context) {
	movieID := ctx.Param("movieId")
	if movieID == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Movie ID is required", nil, nil)
		return
	}

	schedule, err := c.service.MovieSchedule(ctx.Request.Context(), movieID)
	if err != nil {
		if errors.Is(err, movies.ErrMovieNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Movie not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get show", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Show retrieved successfully", schedule, nil)
}
