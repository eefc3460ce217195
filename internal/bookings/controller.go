package bookings

import (
	"errors"
	"net/http"

	"quickshow/internal/payments"
	"quickshow/internal/shared/middleware"
	"quickshow/internal/shared/utils/response"
	"quickshow/internal/shows"

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

// CreateBooking handles POST /api/v1/booking/create
func (c *Controller) CreateBooking(ctx *gin.Context) {
	userID := middleware.UserID(ctx)
	if userID == "" {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	resp, err := c.service.CreateBooking(ctx.Request.Context(), CreateBookingInput{
		UserID: userID,
		ShowID: req.ShowID,
		Seats:  req.SelectedSeats,
		Origin: ctx.GetHeader("Origin"),
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrSeatsUnavailable):
			// a lost race is an expected outcome, not a transport error
			response.RespondJSON(ctx, "error", http.StatusOK, "Selected seats are not available.", nil, nil)
		case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrTooManySeats):
			response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
		case errors.Is(err, shows.ErrShowNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Show not found", nil, nil)
		case errors.Is(err, payments.ErrPaymentProvider):
			response.RespondJSON(ctx, "error", http.StatusBadGateway, "Payment provider unavailable", nil, err.Error())
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create booking", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking created", resp, nil)
}

// GetUserBookings handles GET /api/v1/user/bookings
func (c *Controller) GetUserBookings(ctx *gin.Context) {
	userID := middleware.UserID(ctx)
	if userID == "" {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	bookings, err := c.service.UserBookings(ctx.Request.Context(), userID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get user bookings", nil, err.Error())
		return
	}
	if bookings == nil {
		bookings = []Booking{}
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved successfully", gin.H{"bookings": bookings}, nil)
}
