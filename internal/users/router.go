package users

import (
	"quickshow/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupUserRoutes(rg *gin.RouterGroup, controller *Controller) {
	user := rg.Group("/user")
	user.Use(middleware.JWTAuth())
	{
		user.POST("/update-favorite", controller.UpdateFavorite) // POST /api/v1/user/update-favorite
		user.GET("/favorites", controller.GetFavorites)          // GET /api/v1/user/favorites
	}
}
