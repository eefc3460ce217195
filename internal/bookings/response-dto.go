package bookings

type CreateBookingResponse struct {
	BookingID string  `json:"bookingId"`
	Amount    float64 `json:"amount"`
	URL       string  `json:"url"`
}
