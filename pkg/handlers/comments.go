package handlers

import (
	"strconv"

	"unafeed/pkg/middleware"
	"unafeed/pkg/models"
	"unafeed/pkg/services"

	"github.com/gofiber/fiber/v2"
)

type CommentsHandler struct {
	service services.CommentsService
}

func NewComments(service services.CommentsService) *CommentsHandler {
	return &CommentsHandler{service: service}
}

// GET /posts/:id/comments
func (h *CommentsHandler) List(c *fiber.Ctx) error {
	id, err := postID(c)
	if err != nil {
		return renderError(c, err)
	}

	tree, err := h.service.Thread(id)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(fiber.Map{"items": tree})
}

// POST /posts/:id/comments
func (h *CommentsHandler) Create(c *fiber.Ctx) error {
	id, err := postID(c)
	if err != nil {
		return renderError(c, err)
	}

	var req models.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}

	comment, warning, err := h.service.Create(c.Context(), id, middleware.ActorID(c), req)
	if err != nil {
		return renderError(c, err)
	}
	if warning != nil {
		return c.JSON(warning)
	}
	return c.Status(201).JSON(comment)
}

// POST /posts/:id/comments/:commentId/reactions
func (h *CommentsHandler) ToggleReaction(c *fiber.Ctx) error {
	id, err := postID(c)
	if err != nil {
		return renderError(c, err)
	}
	commentID, err := commentIDParam(c)
	if err != nil {
		return renderError(c, err)
	}

	var req struct {
		Type string `json:"type"`
	}
	if err := c.BodyParser(&req); err != nil || req.Type == "" {
		return c.Status(400).JSON(fiber.Map{"error": "type is required"})
	}

	reactions, err := h.service.ToggleReaction(id, commentID, middleware.ActorID(c), req.Type)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(fiber.Map{"reactions": reactions})
}

// DELETE /posts/:id/comments/:commentId
func (h *CommentsHandler) Delete(c *fiber.Ctx) error {
	id, err := postID(c)
	if err != nil {
		return renderError(c, err)
	}
	commentID, err := commentIDParam(c)
	if err != nil {
		return renderError(c, err)
	}

	if err := h.service.Delete(id, commentID, middleware.ActorID(c)); err != nil {
		return renderError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func commentIDParam(c *fiber.Ctx) (int, error) {
	id, err := strconv.Atoi(c.Params("commentId"))
	if err != nil || id <= 0 {
		return 0, invalidID
	}
	return id, nil
}
