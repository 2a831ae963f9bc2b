package handlers

import (
	"strconv"

	"unafeed/pkg/middleware"
	"unafeed/pkg/models"
	"unafeed/pkg/services"

	"github.com/gofiber/fiber/v2"
)

type PostsHandler struct {
	service services.PostsService
}

func NewPosts(service services.PostsService) *PostsHandler {
	return &PostsHandler{service: service}
}

// GET /posts?kind=&page=&limit=
func (h *PostsHandler) Feed(c *fiber.Ctx) error {
	feed, err := h.service.Feed(
		c.Query("kind"),
		c.QueryInt("page", 1),
		c.QueryInt("limit", 20),
	)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(feed)
}

// GET /posts/:id
func (h *PostsHandler) Get(c *fiber.Ctx) error {
	id, err := postID(c)
	if err != nil {
		return renderError(c, err)
	}

	post, err := h.service.Get(id)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(post)
}

// POST /posts
func (h *PostsHandler) Create(c *fiber.Ctx) error {
	var req models.CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}

	post, warning, err := h.service.Create(c.Context(), middleware.ActorID(c), req)
	if err != nil {
		return renderError(c, err)
	}
	if warning != nil {
		// Warnings go back as 200; the client resubmits with confirmOverride.
		return c.JSON(warning)
	}
	return c.Status(201).JSON(post)
}

// PATCH /posts/:id
func (h *PostsHandler) Update(c *fiber.Ctx) error {
	id, err := postID(c)
	if err != nil {
		return renderError(c, err)
	}

	var req models.UpdatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}

	post, err := h.service.Update(id, middleware.ActorID(c), req)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(post)
}

// DELETE /posts/:id
func (h *PostsHandler) Delete(c *fiber.Ctx) error {
	id, err := postID(c)
	if err != nil {
		return renderError(c, err)
	}

	if err := h.service.Delete(id, middleware.ActorID(c)); err != nil {
		return renderError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// POST /posts/:id/reactions
func (h *PostsHandler) ToggleReaction(c *fiber.Ctx) error {
	id, err := postID(c)
	if err != nil {
		return renderError(c, err)
	}

	var req struct {
		Type string `json:"type"`
	}
	if err := c.BodyParser(&req); err != nil || req.Type == "" {
		return c.Status(400).JSON(fiber.Map{"error": "type is required"})
	}

	reactions, err := h.service.ToggleReaction(id, middleware.ActorID(c), req.Type)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(fiber.Map{"reactions": reactions})
}

// POST /posts/:id/rsvp
func (h *PostsHandler) SetRSVP(c *fiber.Ctx) error {
	id, err := postID(c)
	if err != nil {
		return renderError(c, err)
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil || req.Status == "" {
		return c.Status(400).JSON(fiber.Map{"error": "status is required"})
	}

	rsvps, counts, err := h.service.SetRSVP(id, middleware.ActorID(c), req.Status)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(fiber.Map{"rsvps": rsvps, "counts": counts})
}

func postID(c *fiber.Ctx) (int, error) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return 0, invalidID
	}
	return id, nil
}
