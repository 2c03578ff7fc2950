package database

import (
	"testing"

	"github.com/snowpadi/community-backend/internal/catalog"
	"github.com/snowpadi/community-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, Migrate(db))
	return db
}

func TestSeedCatalog_Idempotent(t *testing.T) {
	db := openTestDB(t)

	reg := catalog.NewRegistry()
	require.NoError(t, reg.AddCategory(&catalog.CategoryEntry{Name: "General", Slug: "general", Color: "#64748b"}))
	require.NoError(t, reg.AddCategory(&catalog.CategoryEntry{Name: "Career", Slug: "career"}))
	require.NoError(t, reg.AddBadge(&catalog.BadgeEntry{Name: "Fresh Padi", Icon: "🌱"}))

	n, err := SeedCatalog(db, reg)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	var general models.Category
	require.NoError(t, db.Where("slug = ?", "general").First(&general).Error)

	n, err = SeedCatalog(db, reg)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	var again models.Category
	require.NoError(t, db.Where("slug = ?", "general").First(&again).Error)
	assert.Equal(t, general.ID, again.ID)

	var count int64
	db.Model(&models.Badge{}).Count(&count)
	assert.EqualValues(t, 1, count)
}
