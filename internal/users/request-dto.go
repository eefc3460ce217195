package users

type UpdateFavoriteRequest struct {
	MovieID string `json:"movieId" validate:"required"`
}
