package users

import (
	"errors"
	"net/http"

	"quickshow/internal/shared/middleware"
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

// UpdateFavorite toggles a movie in the caller's favorites
func (c *Controller) UpdateFavorite(ctx *gin.Context) {
	userID := middleware.UserID(ctx)
	if userID == "" {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var req UpdateFavoriteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	favorites, err := c.service.ToggleFavorite(ctx.Request.Context(), userID, req.MovieID)
	if err != nil {
		if errors.Is(err, ErrInvalidMovieID) {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to update favorites", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Favorite movies updated.", gin.H{"favorites": favorites}, nil)
}

// GetFavorites returns the caller's favorite movies
func (c *Controller) GetFavorites(ctx *gin.Context) {
	userID := middleware.UserID(ctx)
	if userID == "" {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	movies, err := c.service.FavoriteMovies(ctx.Request.Context(), userID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get favorites", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Favorites retrieved successfully", gin.H{"movies": movies}, nil)
}
