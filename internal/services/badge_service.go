package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/snowpadi/community-backend/internal/dto"
	"github.com/snowpadi/community-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultBadgeLimit = 3

	BadgeFreshPadi   = "Fresh Padi"
	BadgeStoryteller = "Storyteller"
)

type BadgeService struct {
	db *gorm.DB
}

func NewBadgeService(db *gorm.DB) *BadgeService {
	return &BadgeService{db: db}
}

// ListBadges returns up to limit badges earned by userID, most recent first.
func (s *BadgeService) ListBadges(ctx context.Context, userID uuid.UUID, limit int) ([]dto.BadgeView, error) {
	return listBadges(s.db.WithContext(ctx), userID, limit)
}

func listBadges(db *gorm.DB, userID uuid.UUID, limit int) ([]dto.BadgeView, error) {
	if limit <= 0 {
		limit = DefaultBadgeLimit
	}

	var earned []models.UserBadge
	err := db.Preload("Badge").
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Limit(limit).
		Find(&earned).Error
	if err != nil {
		return nil, storeError("list badges", err)
	}

	views := make([]dto.BadgeView, 0, len(earned))
	for _, ub := range earned {
		views = append(views, dto.BadgeView{
			ID:          ub.Badge.ID,
			Name:        ub.Badge.Name,
			Description: ub.Badge.Description,
			Icon:        ub.Badge.Icon,
			EarnedAt:    ub.EarnedAt,
		})
	}
	return views, nil
}

// awardBadge is a no-op when the badge is not in the catalog or already held.
func awardBadge(db *gorm.DB, userID uuid.UUID, name string) (bool, error) {
	var badge models.Badge
	err := db.Where("name = ?", name).Take(&badge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, storeError("load badge", err)
	}

	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "badge_id"}},
		DoNothing: true,
	}).Create(&models.UserBadge{UserID: userID, BadgeID: badge.ID})
	if result.Error != nil {
		return false, storeError("award badge", result.Error)
	}
	return result.RowsAffected > 0, nil
}
