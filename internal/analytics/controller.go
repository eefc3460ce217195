package analytics

import (
	"net/http"

	"quickshow/internal/bookings"
	"quickshow/internal/shared/utils/response"
	"quickshow/internal/shows"

	"github.com/gin-gonic/gin"
)

// Controller defines the admin console handlers
type Controller interface {
	IsAdmin(c *gin.Context)
	GetDashboard(c *gin.Context)
	GetAllShows(c *gin.Context)
	GetAllBookings(c *gin.Context)
}

type controller struct {
	service Service
}

// NewController creates a new analytics controller instance
func NewController(service Service) Controller {
	return &controller{service: service}
}

// IsAdmin only runs behind RequireAdmin, so reaching it is the answer
func (ctrl *controller) IsAdmin(c *gin.Context) {
	response.RespondJSON(c, "success", http.StatusOK, "Admin verified", gin.H{"isAdmin": true}, nil)
}

func (ctrl *controller) GetDashboard(c *gin.Context) {
	dashboard, err := ctrl.service.GetDashboard(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to load dashboard", nil, err.Error())
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Dashboard data retrieved successfully", gin.H{"dashboardData": dashboard}, nil)
}

func (ctrl *controller) GetAllShows(c *gin.Context) {
	list, err := ctrl.service.GetAllShows(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to get shows", nil, err.Error())
		return
	}
	if list == nil {
		list = []shows.Show{}
	}
	response.RespondJSON(c, "success", http.StatusOK, "Shows retrieved successfully", gin.H{"shows": list}, nil)
}

func (ctrl *controller) GetAllBookings(c *gin.Context) {
	list, err := ctrl.service.GetAllBookings(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to get bookings", nil, err.Error())
		return
	}
	if list == nil {
		list = []bookings.Booking{}
	}
	response.RespondJSON(c, "success", http.StatusOK, "Bookings retrieved successfully", gin.H{"bookings": list}, nil)
}
