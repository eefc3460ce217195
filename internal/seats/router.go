package seats

import (
	"github.com/gin-gonic/gin"
)

func SetupSeatRoutes(rg *gin.RouterGroup, controller *Controller) {
	booking := rg.Group("/booking")
	{
		booking.GET("/seats/:showId", controller.GetOccupiedSeats) // GET /api/v1/booking/seats/:showId
	}
}
