package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/snowpadi/community-backend/internal/models"
	"github.com/snowpadi/community-backend/internal/reputation"
)

type UpdatePreferencesRequest struct {
	FeedAlgorithm      string      `json:"feed_algorithm" validate:"required,oneof=latest popular recommended"`
	HiddenCategories   []uuid.UUID `json:"hidden_categories"`
	EmailNotifications bool        `json:"email_notifications"`
	InAppNotifications bool        `json:"in_app_notifications"`
	NotifyOnComment    bool        `json:"notify_on_comment"`
	NotifyOnReply      bool        `json:"notify_on_reply"`
	NotifyOnPopular    bool        `json:"notify_on_popular"`
}

type BadgeView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	EarnedAt    time.Time `json:"earned_at"`
}

type ProfileResponse struct {
	Profile models.Profile  `json:"profile"`
	Tier    reputation.Tier `json:"tier"`
	Badges  []BadgeView     `json:"badges"`
}
