package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the public face of an identity issued by the external auth
// provider. ID is the provider's subject, never generated here.
type Profile struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username   string    `gorm:"size:50;not null;uniqueIndex" json:"username"`
	AvatarSeed string    `gorm:"size:64;not null" json:"avatar_seed"`
	Reputation int       `gorm:"not null;default:0" json:"reputation"`
	IsBanned   bool      `gorm:"not null;default:false;index" json:"is_banned"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}
