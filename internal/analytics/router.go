package analytics

import (
	"quickshow/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupAnalyticsRoutes(rg *gin.RouterGroup, controller Controller) {
	admin := rg.Group("/admin")
	admin.Use(middleware.JWTAuth())
	admin.Use(middleware.RequireAdmin())

	admin.GET("/is-admin", controller.IsAdmin)
	admin.GET("/dashboard", controller.GetDashboard)
	admin.GET("/all-shows", controller.GetAllShows)
	admin.GET("/all-bookings", controller.GetAllBookings)
}
