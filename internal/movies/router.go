package movies

import (
	"quickshow/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupMovieRoutes(rg *gin.RouterGroup, controller *Controller) {
	show := rg.Group("/show")
	show.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		show.GET("/now-playing", controller.GetNowPlaying) // GET /api/v1/show/now-playing
	}
}
