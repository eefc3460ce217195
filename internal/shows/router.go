package shows

import (
	"quickshow/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupShowRoutes(rg *gin.RouterGroup, controller *Controller) {
	// PUBLIC
	show := rg.Group("/show")
	{
		show.GET("/all", controller.GetShows)              // GET /api/v1/show/all
		show.GET("/:movieId", controller.GetMovieSchedule) // GET /api/v1/show/:movieId
	}

	// ADMIN
	adminShow := rg.Group("/show")
	adminShow.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminShow.POST("/add", controller.AddShows) // POST /api/v1/show/add
	}
}
