package bookings

import (
	"quickshow/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures all booking-related routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller) {
	booking := rg.Group("/booking")
	booking.Use(middleware.JWTAuth())
	{
		booking.POST("/create", controller.CreateBooking) // POST /api/v1/booking/create
	}

	user := rg.Group("/user")
	user.Use(middleware.JWTAuth())
	{
		user.GET("/bookings", controller.GetUserBookings) // GET /api/v1/user/bookings
	}
}

// Key flow:
// 1. POST /booking/create holds the seats and returns a checkout URL
// 2. The payment webhook marks the booking paid
// 3. Otherwise the booking.release timer frees the seats and deletes it
