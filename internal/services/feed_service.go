package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/snowpadi/community-backend/internal/feed"
	"github.com/snowpadi/community-backend/internal/models"
	"github.com/snowpadi/community-backend/internal/viewer"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type FeedService struct {
	db    *gorm.DB
	prefs *PreferenceService
}

func NewFeedService(db *gorm.DB, prefs *PreferenceService) *FeedService {
	return &FeedService{db: db, prefs: prefs}
}

type FeedResult struct {
	Algorithm  feed.Algorithm
	Categories []models.Category
	Posts      []models.Post
}

// Home builds the main feed for v. A preference lookup failure degrades to
// the default feed instead of failing the request.
func (s *FeedService) Home(ctx context.Context, v viewer.Viewer) (*FeedResult, error) {
	prefs, err := s.prefs.Resolve(ctx, v)
	if err != nil {
		slog.Warn("preferences unavailable, serving default feed",
			"user_id", v.UserID.String(),
			"error", err,
		)
		prefs = feed.DefaultPreferences()
	}

	var (
		categories []models.Category
		posts      []models.Post
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = s.Categories(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		posts, err = s.posts(gctx, uuid.Nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	visible, ordered := feed.Compose(posts, categories, prefs)
	return &FeedResult{
		Algorithm:  prefs.Algorithm,
		Categories: visible,
		Posts:      ordered,
	}, nil
}

// Categories lists every category ordered by name.
func (s *FeedService) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, storeError("list categories", err)
	}
	return categories, nil
}

// CategoryFeed lists the posts of one category, newest first.
func (s *FeedService) CategoryFeed(ctx context.Context, slug string) (*models.Category, []models.Post, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).Take(&category).Error; err != nil {
		return nil, nil, lookupError("category", err)
	}

	posts, err := s.posts(ctx, category.ID)
	if err != nil {
		return nil, nil, err
	}
	return &category, posts, nil
}

// posts loads posts newest first with author, category and comment count.
// uuid.Nil loads every category.
func (s *FeedService) posts(ctx context.Context, categoryID uuid.UUID) ([]models.Post, error) {
	query := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Category").
		Order("created_at DESC")
	if categoryID != uuid.Nil {
		query = query.Where("category_id = ?", categoryID)
	}

	var posts []models.Post
	if err := query.Find(&posts).Error; err != nil {
		return nil, storeError("list posts", err)
	}
	if err := attachCommentCounts(ctx, s.db, categoryID, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// attachCommentCounts fills CommentCount for every post with one grouped
// query. Post ids are selected by a subquery rather than bound, so the query
// size does not grow with the feed.
func attachCommentCounts(ctx context.Context, db *gorm.DB, categoryID uuid.UUID, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	query := db.WithContext(ctx).
		Model(&models.Comment{}).
		Select("post_id, COUNT(*) AS total")
	if categoryID != uuid.Nil {
		query = query.Where("post_id IN (?)",
			db.Model(&models.Post{}).Select("id").Where("category_id = ?", categoryID))
	}

	var rows []struct {
		PostID uuid.UUID
		Total  int
	}
	if err := query.Group("post_id").Scan(&rows).Error; err != nil {
		return storeError("count comments", err)
	}

	counts := make(map[uuid.UUID]int, len(rows))
	for _, r := range rows {
		counts[r.PostID] = r.Total
	}
	for i := range posts {
		posts[i].CommentCount = counts[posts[i].ID]
	}
	return nil
}
