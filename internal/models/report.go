package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReportPending  = "pending"
	ReportReviewed = "reviewed"
	ReportResolved = "resolved"
)

const (
	ItemPost    = "post"
	ItemComment = "comment"
)

// Report is a user flag against a post or comment. Status only moves
// forward; resolved is terminal.
type Report struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ReporterID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"reporter_id"`
	ReportedItemType string     `gorm:"size:20;not null" json:"reported_item_type"`
	ReportedItemID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"reported_item_id"`
	Reason           string     `gorm:"size:1000;not null" json:"reason"`
	Status           string     `gorm:"size:20;not null;index" json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	ReviewedAt       *time.Time `json:"reviewed_at,omitempty"`
	Reporter         Profile    `gorm:"foreignKey:ReporterID" json:"reporter"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = ReportPending
	}
	return nil
}
