package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/snowpadi/community-backend/internal/models"
)

type CreateReportRequest struct {
	ItemType string    `json:"item_type" validate:"required,oneof=post comment"`
	ItemID   uuid.UUID `json:"item_id" validate:"required"`
	Reason   string    `json:"reason" validate:"required,max=1000"`
}

// DeleteContentRequest names the reported item an admin is removing.
type DeleteContentRequest struct {
	ItemType string    `json:"item_type" validate:"required,oneof=post comment"`
	ItemID   uuid.UUID `json:"item_id" validate:"required"`
}

type SetBanRequest struct {
	Banned bool `json:"banned"`
}

type ReportView struct {
	ID               uuid.UUID  `json:"id"`
	ReporterID       uuid.UUID  `json:"reporter_id"`
	ReporterUsername string     `json:"reporter_username"`
	ReportedItemType string     `json:"reported_item_type"`
	ReportedItemID   uuid.UUID  `json:"reported_item_id"`
	Reason           string     `json:"reason"`
	Status           string     `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	ReviewedAt       *time.Time `json:"reviewed_at,omitempty"`
}

type ReportListResponse struct {
	Reports []ReportView `json:"reports"`
	Total   int64        `json:"total"`
	Limit   int          `json:"limit"`
	Offset  int          `json:"offset"`
}

func NewReportView(r models.Report) ReportView {
	return ReportView{
		ID:               r.ID,
		ReporterID:       r.ReporterID,
		ReporterUsername: r.Reporter.Username,
		ReportedItemType: r.ReportedItemType,
		ReportedItemID:   r.ReportedItemID,
		Reason:           r.Reason,
		Status:           r.Status,
		CreatedAt:        r.CreatedAt,
		ReviewedAt:       r.ReviewedAt,
	}
}
