package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/snowpadi/community-backend/internal/catalog"
	"github.com/snowpadi/community-backend/internal/database"
	"github.com/snowpadi/community-backend/internal/dto"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db       *gorm.DB
	registry *catalog.Registry
}

func NewHealthHandler(db *gorm.DB, registry *catalog.Registry) *HealthHandler {
	return &HealthHandler{db: db, registry: registry}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status := "ok"
	dbStatus := "ok"
	if err := database.Ping(h.db); err != nil {
		status = "degraded"
		dbStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:        status,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		DB:            dbStatus,
		CategoryCount: len(h.registry.Categories()),
	})
}
