package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/snowpadi/community-backend/internal/dto"
	"github.com/snowpadi/community-backend/internal/services"
	"github.com/snowpadi/community-backend/internal/viewer"
)

type FeedHandler struct {
	feedService *services.FeedService
}

func NewFeedHandler(feedService *services.FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

func (h *FeedHandler) Home(c *fiber.Ctx) error {
	res, err := h.feedService.Home(c.UserContext(), viewer.From(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.FeedResponse{
		Algorithm:  string(res.Algorithm),
		Categories: res.Categories,
		Posts:      res.Posts,
	})
}

func (h *FeedHandler) Categories(c *fiber.Ctx) error {
	categories, err := h.feedService.Categories(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"categories": categories})
}

func (h *FeedHandler) CategoryPosts(c *fiber.Ctx) error {
	category, posts, err := h.feedService.CategoryFeed(c.UserContext(), c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CategoryFeedResponse{Category: *category, Posts: posts})
}
