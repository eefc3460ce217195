package seats

type OccupiedSeatsResponse struct {
	ShowID        string   `json:"showId"`
	OccupiedSeats []string `json:"occupiedSeats"`
}
