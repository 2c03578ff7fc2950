package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/snowpadi/community-backend/internal/dto"
	"github.com/snowpadi/community-backend/internal/services"
	"github.com/snowpadi/community-backend/internal/viewer"
)

type ModerationHandler struct {
	moderationService *services.ModerationService
}

func NewModerationHandler(moderationService *services.ModerationService) *ModerationHandler {
	return &ModerationHandler{moderationService: moderationService}
}

func (h *ModerationHandler) CreateReport(c *fiber.Ctx) error {
	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	report, err := h.moderationService.CreateReport(c.UserContext(), viewer.From(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

func (h *ModerationHandler) ListReports(c *fiber.Ctx) error {
	status := c.Query("status", "")
	limit, offset := services.ReportPage(c.QueryInt("limit"), c.QueryInt("offset"))

	reports, total, err := h.moderationService.ListReports(c.UserContext(), status, limit, offset)
	if err != nil {
		return respondError(c, err)
	}

	views := make([]dto.ReportView, len(reports))
	for i, r := range reports {
		views[i] = dto.NewReportView(r)
	}
	return c.JSON(dto.ReportListResponse{
		Reports: views,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	})
}

func (h *ModerationHandler) ResolveReport(c *fiber.Ctx) error {
	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "Invalid report ID")
	}

	if err := h.moderationService.ResolveOnly(c.UserContext(), viewer.From(c), reportID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Report resolved"})
}

func (h *ModerationHandler) DeleteContent(c *fiber.Ctx) error {
	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "Invalid report ID")
	}

	var req dto.DeleteContentRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	err = h.moderationService.DeleteAndResolve(c.UserContext(), viewer.From(c), req.ItemType, req.ItemID, reportID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Content deleted and report resolved"})
}

func (h *ModerationHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.moderationService.ListUsers(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"users": users})
}

func (h *ModerationHandler) SetBanned(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "Invalid user ID")
	}

	var req dto.SetBanRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	profile, err := h.moderationService.SetBanned(c.UserContext(), viewer.From(c), userID, req.Banned)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}
