package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is seeded reference data; posts belong to exactly one.
type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Slug        string    `gorm:"size:100;not null;uniqueIndex" json:"slug"`
	Color       string    `gorm:"size:20" json:"color"`
	Description string    `gorm:"size:500" json:"description"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
