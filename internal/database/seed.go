package database

import (
	"fmt"

	"github.com/snowpadi/community-backend/internal/catalog"
	"github.com/snowpadi/community-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedCatalog inserts categories and badges that are not yet present.
// Existing rows keep their ids so that stored preferences stay valid.
func SeedCatalog(db *gorm.DB, reg *catalog.Registry) (int64, error) {
	var inserted int64

	for _, c := range reg.Categories() {
		row := models.Category{
			Name:        c.Name,
			Slug:        c.Slug,
			Color:       c.Color,
			Description: c.Description,
		}
		result := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoNothing: true,
		}).Create(&row)
		if result.Error != nil {
			return inserted, fmt.Errorf("seed category %s: %w", c.Slug, result.Error)
		}
		inserted += result.RowsAffected
	}

	for _, b := range reg.Badges() {
		row := models.Badge{
			Name:        b.Name,
			Description: b.Description,
			Icon:        b.Icon,
		}
		result := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&row)
		if result.Error != nil {
			return inserted, fmt.Errorf("seed badge %s: %w", b.Name, result.Error)
		}
		inserted += result.RowsAffected
	}

	return inserted, nil
}
