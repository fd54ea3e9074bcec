package models

// SelectScoreRequest carries the score tapped for today; also used by save-today
type SelectScoreRequest struct {
	Score *int `json:"score" binding:"required"`
}
