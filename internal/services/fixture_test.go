package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/snowpadi/community-backend/internal/database"
	"github.com/snowpadi/community-backend/internal/models"
	"github.com/snowpadi/community-backend/internal/viewer"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixture struct {
	db         *gorm.DB
	categories map[string]models.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	f := &fixture{db: db, categories: map[string]models.Category{}}
	for _, name := range []string{"General", "Career", "Relationships"} {
		c := models.Category{Name: name, Slug: name}
		require.NoError(t, db.Create(&c).Error)
		f.categories[name] = c
	}
	for _, b := range []models.Badge{
		{Name: BadgeFreshPadi, Icon: "🌱"},
		{Name: BadgeStoryteller, Icon: "📖"},
	} {
		require.NoError(t, db.Create(&b).Error)
	}
	return f
}

func (f *fixture) profile(t *testing.T, username string, rep int) models.Profile {
	t.Helper()
	p := models.Profile{ID: uuid.New(), Username: username, AvatarSeed: "seed", Reputation: rep}
	require.NoError(t, f.db.Create(&p).Error)
	return p
}

func (f *fixture) post(t *testing.T, author models.Profile, category, title string, createdAt time.Time) models.Post {
	t.Helper()
	p := models.Post{
		Title:      title,
		Content:    title + " body",
		CategoryID: f.categories[category].ID,
		AuthorID:   author.ID,
		CreatedAt:  createdAt,
	}
	require.NoError(t, f.db.Create(&p).Error)
	return p
}

func (f *fixture) comments(t *testing.T, post models.Post, author models.Profile, n int) []models.Comment {
	t.Helper()
	out := make([]models.Comment, 0, n)
	for i := 0; i < n; i++ {
		c := models.Comment{PostID: post.ID, AuthorID: author.ID, Content: "reply"}
		require.NoError(t, f.db.Create(&c).Error)
		out = append(out, c)
	}
	return out
}

func member(p models.Profile) viewer.Viewer {
	return viewer.Viewer{UserID: p.ID}
}

func admin(p models.Profile) viewer.Viewer {
	return viewer.Viewer{UserID: p.ID, IsAdmin: true}
}

// openMockDB returns a postgres-dialect GORM handle backed by sqlmock, for
// exercising store failures.
func openMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}
