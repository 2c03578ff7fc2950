package middleware

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/snowpadi/community-backend/internal/config"
	"github.com/snowpadi/community-backend/internal/dto"
	"github.com/snowpadi/community-backend/internal/services"
	"github.com/snowpadi/community-backend/internal/viewer"
)

// LoadViewer turns the verified token into a viewer.Viewer, creating the
// profile the first time a subject is seen. Requests without a token pass
// through as anonymous.
//
// Admin status comes from ADMIN_USER_IDS or a user_roles row.
func LoadViewer(profiles *services.ProfileService, cfg *config.Config) fiber.Handler {
	adminUserIDs := parseCSV(cfg.AdminUserIDs)

	return func(c *fiber.Ctx) error {
		if _, ok := c.Locals("user").(*jwt.Token); !ok {
			return c.Next()
		}

		userID, err := viewer.SubjectFromToken(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized: invalid token subject",
			})
		}

		ctx := c.UserContext()
		profile, err := profiles.Ensure(ctx, userID)
		if err != nil {
			return unavailable(c, err)
		}

		isAdmin := contains(adminUserIDs, userID.String())
		if !isAdmin {
			if isAdmin, err = profiles.IsAdmin(ctx, userID); err != nil {
				return unavailable(c, err)
			}
		}

		viewer.Store(c, viewer.Viewer{
			UserID:   userID,
			IsAdmin:  isAdmin,
			IsBanned: profile.IsBanned,
		})
		return c.Next()
	}
}

func unavailable(c *fiber.Ctx, err error) error {
	slog.Error("viewer lookup failed",
		"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
		"path", c.Path(),
		"error", err,
	)
	return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
		Error: true, Message: "Service temporarily unavailable",
	})
}
