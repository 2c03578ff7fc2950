package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/snowpadi/community-backend/internal/dto"
	"github.com/snowpadi/community-backend/internal/services"
	"github.com/snowpadi/community-backend/internal/viewer"
)

type ProfileHandler struct {
	profileService    *services.ProfileService
	badgeService      *services.BadgeService
	preferenceService *services.PreferenceService
}

func NewProfileHandler(
	profileService *services.ProfileService,
	badgeService *services.BadgeService,
	preferenceService *services.PreferenceService,
) *ProfileHandler {
	return &ProfileHandler{
		profileService:    profileService,
		badgeService:      badgeService,
		preferenceService: preferenceService,
	}
}

func (h *ProfileHandler) Me(c *fiber.Ctx) error {
	v := viewer.From(c)
	if v.IsAnonymous() {
		return writeError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	profile, err := h.profileService.Get(c.UserContext(), v.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"profile":  profile.Profile,
		"tier":     profile.Tier,
		"badges":   profile.Badges,
		"is_admin": v.IsAdmin,
	})
}

func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "Invalid user ID")
	}

	profile, err := h.profileService.Get(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

func (h *ProfileHandler) Badges(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "Invalid user ID")
	}
	limit, _ := strconv.Atoi(c.Query("limit", strconv.Itoa(services.DefaultBadgeLimit)))

	badges, err := h.badgeService.ListBadges(c.UserContext(), userID, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"badges": badges})
}

func (h *ProfileHandler) GetPreferences(c *fiber.Ctx) error {
	prefs, err := h.preferenceService.Get(c.UserContext(), viewer.From(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(prefs)
}

func (h *ProfileHandler) UpdatePreferences(c *fiber.Ctx) error {
	var req dto.UpdatePreferencesRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	prefs, err := h.preferenceService.Save(c.UserContext(), viewer.From(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(prefs)
}
