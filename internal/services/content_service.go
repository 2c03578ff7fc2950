package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/snowpadi/community-backend/internal/dto"
	"github.com/snowpadi/community-backend/internal/models"
	"github.com/snowpadi/community-backend/internal/reputation"
	"github.com/snowpadi/community-backend/internal/viewer"
	"gorm.io/gorm"
)

type ContentService struct {
	db *gorm.DB
}

func NewContentService(db *gorm.DB) *ContentService {
	return &ContentService{db: db}
}

// CreatePost stores a post and credits its author in one transaction. The
// author's first post also earns the Storyteller badge.
func (s *ContentService) CreatePost(ctx context.Context, v viewer.Viewer, req *dto.CreatePostRequest) (*models.Post, error) {
	if err := requireParticipant(v); err != nil {
		return nil, err
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	post := models.Post{
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.CategoryID,
		AuthorID:   v.UserID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var categories int64
		if err := tx.Model(&models.Category{}).Where("id = ?", req.CategoryID).Count(&categories).Error; err != nil {
			return storeError("load category", err)
		}
		if categories == 0 {
			return invalid("category_id", "unknown category")
		}

		if err := tx.Create(&post).Error; err != nil {
			return storeError("create post", err)
		}
		if err := credit(tx, v.UserID, reputation.PostReward); err != nil {
			return err
		}

		var authored int64
		if err := tx.Model(&models.Post{}).Where("author_id = ?", v.UserID).Count(&authored).Error; err != nil {
			return storeError("count posts", err)
		}
		if authored == 1 {
			if _, err := awardBadge(tx, v.UserID, BadgeStoryteller); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("post created",
		"action", "content.create_post",
		"user_id", v.UserID.String(),
		"post_id", post.ID.String(),
	)
	return s.GetPost(ctx, post.ID)
}

// CreateComment stores a comment on postID and credits its author.
func (s *ContentService) CreateComment(ctx context.Context, v viewer.Viewer, postID uuid.UUID, req *dto.CreateCommentRequest) (*models.Comment, error) {
	if err := requireParticipant(v); err != nil {
		return nil, err
	}
	req.Content = strings.TrimSpace(req.Content)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	comment := models.Comment{
		PostID:   postID,
		Content:  req.Content,
		AuthorID: v.UserID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
			return storeError("load post", err)
		}
		if count == 0 {
			return wrapNotFound("post")
		}

		if err := tx.Create(&comment).Error; err != nil {
			return storeError("create comment", err)
		}
		return credit(tx, v.UserID, reputation.CommentReward)
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Preload("Author").Where("id = ?", comment.ID).Take(&comment).Error; err != nil {
		return nil, lookupError("comment", err)
	}
	return &comment, nil
}

func (s *ContentService) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Category").
		Where("id = ?", id).
		Take(&post).Error
	if err != nil {
		return nil, lookupError("post", err)
	}

	posts := []models.Post{post}
	if err := attachCommentCounts(ctx, s.db, post.CategoryID, posts); err != nil {
		return nil, err
	}
	return &posts[0], nil
}

// ListComments returns the comments of postID, oldest first.
func (s *ContentService) ListComments(ctx context.Context, postID uuid.UUID) ([]models.Comment, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
		return nil, storeError("load post", err)
	}
	if count == 0 {
		return nil, wrapNotFound("post")
	}

	comments := []models.Comment{}
	err := s.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, storeError("list comments", err)
	}
	return comments, nil
}

// DeletePost removes a post. Only its author or an admin may do so.
func (s *ContentService) DeletePost(ctx context.Context, v viewer.Viewer, id uuid.UUID) error {
	var post models.Post
	if err := s.db.WithContext(ctx).Select("id", "author_id").Where("id = ?", id).Take(&post).Error; err != nil {
		return lookupError("post", err)
	}
	if !v.CanModify(post.AuthorID) {
		return ErrUnauthorized
	}

	if err := s.db.WithContext(ctx).Delete(&models.Post{}, "id = ?", id).Error; err != nil {
		return storeError("delete post", err)
	}
	slog.Info("post deleted", "action", "content.delete_post", "user_id", v.UserID.String(), "post_id", id.String())
	return nil
}

// DeleteComment removes a comment. Only its author or an admin may do so.
func (s *ContentService) DeleteComment(ctx context.Context, v viewer.Viewer, id uuid.UUID) error {
	var comment models.Comment
	if err := s.db.WithContext(ctx).Select("id", "author_id").Where("id = ?", id).Take(&comment).Error; err != nil {
		return lookupError("comment", err)
	}
	if !v.CanModify(comment.AuthorID) {
		return ErrUnauthorized
	}

	if err := s.db.WithContext(ctx).Delete(&models.Comment{}, "id = ?", id).Error; err != nil {
		return storeError("delete comment", err)
	}
	slog.Info("comment deleted", "action", "content.delete_comment", "user_id", v.UserID.String(), "comment_id", id.String())
	return nil
}

func credit(tx *gorm.DB, userID uuid.UUID, points int) error {
	result := tx.Model(&models.Profile{}).
		Where("id = ?", userID).
		UpdateColumn("reputation", gorm.Expr("reputation + ?", points))
	if result.Error != nil {
		return storeError("update reputation", result.Error)
	}
	if result.RowsAffected == 0 {
		return wrapNotFound("profile")
	}
	return nil
}
