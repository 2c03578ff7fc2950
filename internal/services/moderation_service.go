package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/snowpadi/community-backend/internal/dto"
	"github.com/snowpadi/community-backend/internal/models"
	"github.com/snowpadi/community-backend/internal/viewer"
	"gorm.io/gorm"
)

const (
	DefaultReportPageSize = 20
	MaxReportPageSize     = 100
)

var reportStatuses = map[string]bool{
	models.ReportPending:  true,
	models.ReportReviewed: true,
	models.ReportResolved: true,
}

type ModerationService struct {
	db *gorm.DB
}

func NewModerationService(db *gorm.DB) *ModerationService {
	return &ModerationService{db: db}
}

// CreateReport flags a post or comment for review.
func (s *ModerationService) CreateReport(ctx context.Context, v viewer.Viewer, req *dto.CreateReportRequest) (*models.Report, error) {
	if err := requireParticipant(v); err != nil {
		return nil, err
	}
	req.Reason = strings.TrimSpace(req.Reason)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	report := models.Report{
		ReporterID:       v.UserID,
		ReportedItemType: req.ItemType,
		ReportedItemID:   req.ItemID,
		Reason:           req.Reason,
		Status:           models.ReportPending,
	}
	if err := s.db.WithContext(ctx).Create(&report).Error; err != nil {
		return nil, storeError("create report", err)
	}

	slog.Info("report created",
		"action", "moderation.report",
		"user_id", v.UserID.String(),
		"report_id", report.ID.String(),
		"item_type", report.ReportedItemType,
	)
	return &report, nil
}

// ReportPage clamps a requested report page: a non-positive limit becomes
// the default, a large one the maximum, and a negative offset zero.
func ReportPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultReportPageSize
	}
	if limit > MaxReportPageSize {
		limit = MaxReportPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// ListReports returns reports newest first, optionally filtered by status.
func (s *ModerationService) ListReports(ctx context.Context, status string, limit, offset int) ([]models.Report, int64, error) {
	if status != "" && !reportStatuses[status] {
		return nil, 0, invalid("status", "must be one of: pending reviewed resolved")
	}
	limit, offset = ReportPage(limit, offset)

	query := s.db.WithContext(ctx).Model(&models.Report{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, storeError("count reports", err)
	}

	reports := []models.Report{}
	err := query.Preload("Reporter").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reports).Error
	if err != nil {
		return nil, 0, storeError("list reports", err)
	}
	return reports, total, nil
}

// ResolveOnly marks a report resolved without touching the reported content.
// Resolving an already resolved report succeeds and keeps its review time.
func (s *ModerationService) ResolveOnly(ctx context.Context, v viewer.Viewer, reportID uuid.UUID) error {
	if err := requireAdmin(v); err != nil {
		return err
	}
	if err := resolveReport(s.db.WithContext(ctx), reportID); err != nil {
		return err
	}

	slog.Info("report resolved",
		"action", "moderation.resolve",
		"user_id", v.UserID.String(),
		"report_id", reportID.String(),
	)
	return nil
}

// DeleteAndResolve removes the reported post or comment and resolves the
// report. The item must be the one the report names. Both writes commit
// together; content that is already gone counts as deleted.
func (s *ModerationService) DeleteAndResolve(ctx context.Context, v viewer.Viewer, itemType string, itemID, reportID uuid.UUID) error {
	if err := requireAdmin(v); err != nil {
		return err
	}

	var target interface{}
	switch itemType {
	case models.ItemPost:
		target = &models.Post{}
	case models.ItemComment:
		target = &models.Comment{}
	default:
		return invalid("item_type", "must be one of: post comment")
	}
	if itemID == uuid.Nil {
		return invalid("item_id", "is required")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var report models.Report
		if err := tx.Where("id = ?", reportID).Take(&report).Error; err != nil {
			return lookupError("report", err)
		}
		if report.ReportedItemType != itemType || report.ReportedItemID != itemID {
			return invalid("item_id", "does not match the reported item")
		}

		if err := tx.Where("id = ?", itemID).Delete(target).Error; err != nil {
			return storeError("delete "+itemType, err)
		}
		return resolveReport(tx, reportID)
	})
	if err != nil {
		return err
	}

	slog.Info("reported content deleted",
		"action", "moderation.delete_and_resolve",
		"user_id", v.UserID.String(),
		"report_id", reportID.String(),
		"item_type", itemType,
		"item_id", itemID.String(),
	)
	return nil
}

// ListUsers returns every profile, newest first.
func (s *ModerationService) ListUsers(ctx context.Context) ([]models.Profile, error) {
	profiles := []models.Profile{}
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&profiles).Error; err != nil {
		return nil, storeError("list profiles", err)
	}
	return profiles, nil
}

// SetBanned bans or unbans userID. Admins cannot ban themselves.
func (s *ModerationService) SetBanned(ctx context.Context, v viewer.Viewer, userID uuid.UUID, banned bool) (*models.Profile, error) {
	if err := requireAdmin(v); err != nil {
		return nil, err
	}
	if banned && userID == v.UserID {
		return nil, invalid("user_id", "cannot ban yourself")
	}

	result := s.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", userID).
		Update("is_banned", banned)
	if result.Error != nil {
		return nil, storeError("update profile", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, wrapNotFound("profile")
	}

	var profile models.Profile
	if err := s.db.WithContext(ctx).Where("id = ?", userID).Take(&profile).Error; err != nil {
		return nil, lookupError("profile", err)
	}

	slog.Info("ban updated",
		"action", "moderation.set_banned",
		"user_id", v.UserID.String(),
		"target_id", userID.String(),
		"banned", banned,
	)
	return &profile, nil
}

func resolveReport(db *gorm.DB, reportID uuid.UUID) error {
	result := db.Model(&models.Report{}).
		Where("id = ? AND status <> ?", reportID, models.ReportResolved).
		Updates(map[string]interface{}{
			"status":      models.ReportResolved,
			"reviewed_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return storeError("resolve report", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := db.Model(&models.Report{}).Where("id = ?", reportID).Count(&count).Error; err != nil {
		return storeError("load report", err)
	}
	if count == 0 {
		return wrapNotFound("report")
	}
	return nil
}
