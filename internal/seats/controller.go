package seats

import (
	"errors"
	"net/http"

	"quickshow/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// GetOccupiedSeats returns the held seat ids of a show
func (c *Controller) GetOccupiedSeats(ctx *gin.Context) {
	showID := ctx.Param("showId")
	if showID == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Show ID is required", nil, "missing show ID")
		return
	}

	occupied, err := c.service.OccupiedSeats(ctx.Request.Context(), showID)
	if err != nil {
		if errors.Is(err, ErrShowNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Show not found", nil, err.Error())
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get occupied seats", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Occupied seats retrieved successfully", OccupiedSeatsResponse{
		ShowID:        showID,
		OccupiedSeats: occupied,
	}, nil)
}
