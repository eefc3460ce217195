package bookings

type CreateBookingRequest struct {
	ShowID        string   `json:"showId" validate:"required"`
	SelectedSeats []string `json:"selectedSeats" validate:"required,min=1"`
}
