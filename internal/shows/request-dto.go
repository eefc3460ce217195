package shows

// ShowSlotInput is one date/time pair from the admin form. Unparseable slots
// are skipped rather than rejected.
type ShowSlotInput struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type AddShowsRequest struct {
	MovieID   string          `json:"movieId" validate:"required"`
	Shows     []ShowSlotInput `json:"showsInput" validate:"required,min=1"`
	ShowPrice float64         `json:"showPrice" validate:"required,gt=0"`
}
