package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/snowpadi/community-backend/internal/dto"
	"github.com/snowpadi/community-backend/internal/feed"
	"github.com/snowpadi/community-backend/internal/models"
	"github.com/snowpadi/community-backend/internal/viewer"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PreferenceService struct {
	db *gorm.DB
}

func NewPreferenceService(db *gorm.DB) *PreferenceService {
	return &PreferenceService{db: db}
}

// Resolve returns the feed preferences that apply to v. Anonymous viewers and
// users without a stored row get the defaults. On a store failure the
// defaults are returned together with the error.
func (s *PreferenceService) Resolve(ctx context.Context, v viewer.Viewer) (feed.Preferences, error) {
	if v.IsAnonymous() {
		return feed.DefaultPreferences(), nil
	}

	var row models.UserPreferences
	err := s.db.WithContext(ctx).
		Select("feed_algorithm", "hidden_categories").
		Where("user_id = ?", v.UserID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return feed.DefaultPreferences(), nil
	}
	if err != nil {
		return feed.DefaultPreferences(), storeError("load preferences", err)
	}

	hidden := []uuid.UUID(row.HiddenCategories)
	if hidden == nil {
		hidden = []uuid.UUID{}
	}
	return feed.Preferences{
		Algorithm:        feed.ParseAlgorithm(row.FeedAlgorithm),
		HiddenCategories: hidden,
	}, nil
}

// Get returns the full preference record of v, or the defaults when none is
// stored.
func (s *PreferenceService) Get(ctx context.Context, v viewer.Viewer) (*models.UserPreferences, error) {
	if v.IsAnonymous() {
		return nil, ErrUnauthorized
	}

	var row models.UserPreferences
	err := s.db.WithContext(ctx).Where("user_id = ?", v.UserID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		defaults := models.DefaultPreferences(v.UserID)
		return &defaults, nil
	}
	if err != nil {
		return nil, storeError("load preferences", err)
	}
	if row.HiddenCategories == nil {
		row.HiddenCategories = datatypes.JSONSlice[uuid.UUID]{}
	}
	return &row, nil
}

// Save replaces the preference record of v.
func (s *PreferenceService) Save(ctx context.Context, v viewer.Viewer, req *dto.UpdatePreferencesRequest) (*models.UserPreferences, error) {
	if v.IsAnonymous() {
		return nil, ErrUnauthorized
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	hidden := make(datatypes.JSONSlice[uuid.UUID], 0, len(req.HiddenCategories))
	seen := make(map[uuid.UUID]struct{}, len(req.HiddenCategories))
	for _, id := range req.HiddenCategories {
		if id == uuid.Nil {
			return nil, invalid("hidden_categories", "contains an empty id")
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		hidden = append(hidden, id)
	}

	row := models.UserPreferences{
		UserID:             v.UserID,
		FeedAlgorithm:      req.FeedAlgorithm,
		HiddenCategories:   hidden,
		EmailNotifications: req.EmailNotifications,
		InAppNotifications: req.InAppNotifications,
		NotifyOnComment:    req.NotifyOnComment,
		NotifyOnReply:      req.NotifyOnReply,
		NotifyOnPopular:    req.NotifyOnPopular,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"feed_algorithm", "hidden_categories",
			"email_notifications", "in_app_notifications",
			"notify_on_comment", "notify_on_reply", "notify_on_popular",
			"updated_at",
		}),
	}).Create(&row).Error
	if err != nil {
		return nil, storeError("save preferences", err)
	}
	return &row, nil
}
