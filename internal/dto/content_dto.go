package dto

import (
	"github.com/google/uuid"
	"github.com/snowpadi/community-backend/internal/models"
)

type CreatePostRequest struct {
	Title      string    `json:"title" validate:"required,max=200"`
	Content    string    `json:"content" validate:"required,max=10000"`
	CategoryID uuid.UUID `json:"category_id" validate:"required"`
}

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

type FeedResponse struct {
	Algorithm  string            `json:"algorithm"`
	Categories []models.Category `json:"categories"`
	Posts      []models.Post     `json:"posts"`
}

type CategoryFeedResponse struct {
	Category models.Category `json:"category"`
	Posts    []models.Post   `json:"posts"`
}
