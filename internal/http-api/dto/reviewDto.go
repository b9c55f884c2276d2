package dto

import (
	"time"

	"reviewhub/internal/http-api/models"
)

// CreateReviewDTO used for POST /api/v1/titles/:title_id/reviews
type CreateReviewDTO struct {
	Text  string `json:"text" binding:"required"`
	Score int    `json:"score" binding:"required,min=1,max=10"`
}

// UpdateReviewDTO used for PATCH (partial updates allowed)
type UpdateReviewDTO struct {
	Text  *string `json:"text,omitempty"`
	Score *int    `json:"score,omitempty" binding:"omitempty,min=1,max=10"`
}

type ReviewResponse struct {
	ID      int64     `json:"id"`
	TitleID int64     `json:"title_id"`
	Author  string    `json:"author"`
	Text    string    `json:"text"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

func FromReviewModel(r models.Review) ReviewResponse {
	return ReviewResponse{
		ID:      r.ID,
		TitleID: r.TitleID,
		Author:  r.Author.Username,
		Text:    r.Text,
		Score:   r.Score,
		PubDate: r.PubDate,
	}
}
