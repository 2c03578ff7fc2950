package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	FeedLatest      = "latest"
	FeedPopular     = "popular"
	FeedRecommended = "recommended"
)

// UserPreferences holds at most one row per profile. Boolean columns carry no
// SQL default so that an explicit false is always written on upsert.
type UserPreferences struct {
	UserID             uuid.UUID                      `gorm:"type:uuid;primaryKey" json:"user_id"`
	FeedAlgorithm      string                         `gorm:"size:20;not null" json:"feed_algorithm"`
	HiddenCategories   datatypes.JSONSlice[uuid.UUID] `json:"hidden_categories"`
	EmailNotifications bool                           `gorm:"not null" json:"email_notifications"`
	InAppNotifications bool                           `gorm:"not null" json:"in_app_notifications"`
	NotifyOnComment    bool                           `gorm:"not null" json:"notify_on_comment"`
	NotifyOnReply      bool                           `gorm:"not null" json:"notify_on_reply"`
	NotifyOnPopular    bool                           `gorm:"not null" json:"notify_on_popular"`
	CreatedAt          time.Time                      `json:"created_at"`
	UpdatedAt          time.Time                      `json:"updated_at"`
}

// DefaultPreferences is what a user without a stored row sees.
func DefaultPreferences(userID uuid.UUID) UserPreferences {
	return UserPreferences{
		UserID:             userID,
		FeedAlgorithm:      FeedLatest,
		HiddenCategories:   datatypes.JSONSlice[uuid.UUID]{},
		EmailNotifications: true,
		InAppNotifications: true,
		NotifyOnComment:    true,
		NotifyOnReply:      true,
		NotifyOnPopular:    false,
	}
}
