package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/snowpadi/community-backend/internal/dto"
	"github.com/snowpadi/community-backend/internal/models"
	"github.com/snowpadi/community-backend/internal/reputation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// Ensure returns the profile for userID, creating it on first sight with an
// anonymous username and the welcome badge.
func (s *ProfileService) Ensure(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	var profile models.Profile
	err := s.db.WithContext(ctx).Where("id = ?", userID).Take(&profile).Error
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeError("load profile", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created, err := createProfile(tx, userID)
		if err != nil || !created {
			return err
		}
		if _, err := awardBadge(tx, userID, BadgeFreshPadi); err != nil {
			return err
		}
		slog.Info("profile created", "user_id", userID.String(), "action", "profile.create")
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Where("id = ?", userID).Take(&profile).Error; err != nil {
		return nil, lookupError("profile", err)
	}
	return &profile, nil
}

// IsAdmin reports whether userID holds the admin role.
func (s *ProfileService) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.UserRole{}).
		Where("user_id = ? AND role = ?", userID, models.RoleAdmin).
		Count(&count).Error
	if err != nil {
		return false, storeError("check role", err)
	}
	return count > 0, nil
}

// Get returns the public profile of id with its tier and recent badges.
func (s *ProfileService) Get(ctx context.Context, id uuid.UUID) (*dto.ProfileResponse, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&profile).Error; err != nil {
		return nil, lookupError("profile", err)
	}

	badges, err := listBadges(s.db.WithContext(ctx), id, DefaultBadgeLimit)
	if err != nil {
		return nil, err
	}

	return &dto.ProfileResponse{
		Profile: profile,
		Tier:    reputation.TierOf(profile.Reputation),
		Badges:  badges,
	}, nil
}

const usernameAttempts = 3

// createProfile inserts the profile row. It reports false when a concurrent
// request already created it. A username clash is retried with a random
// suffix.
func createProfile(tx *gorm.DB, userID uuid.UUID) (bool, error) {
	seed := userID
	for attempt := 0; attempt < usernameAttempts; attempt++ {
		profile := models.Profile{
			ID:         userID,
			Username:   anonymousUsername(seed),
			AvatarSeed: uuid.NewString(),
		}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&profile)
		if result.Error != nil {
			return false, storeError("create profile", result.Error)
		}
		if result.RowsAffected > 0 {
			return true, nil
		}

		var count int64
		if err := tx.Model(&models.Profile{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return false, storeError("load profile", err)
		}
		if count > 0 {
			return false, nil
		}
		seed = uuid.New()
	}
	return false, storeError("create profile", errors.New("no free username"))
}

func anonymousUsername(id uuid.UUID) string {
	return "padi-" + strings.ReplaceAll(id.String(), "-", "")[:8]
}
