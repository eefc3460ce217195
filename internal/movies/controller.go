package movies

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

// GetNowPlaying lists catalog titles an admin can schedule shows for
func (c *Controller) GetNowPlaying(ctx *gin.Context) {
	movies, err := c.service.NowPlaying(ctx.Request.Context())
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, ErrCatalogUnavailable) {
			code = http.StatusBadGateway
		}
		response.RespondJSON(ctx, "error", code, "Failed to fetch now playing movies", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Now playing movies retrieved successfully", gin.H{
		"movies": movies,
	}, nil)
}
