package handlers

import (
	"strings"

	"unafeed/pkg/ai"
	"unafeed/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

type AIHandler struct {
	client *ai.Client
}

func NewAI(client *ai.Client) *AIHandler {
	return &AIHandler{client: client}
}

// POST /classify
func (h *AIHandler) Classify(c *fiber.Ctx) error {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		return c.Status(400).JSON(fiber.Map{"error": "text is required"})
	}

	result, err := h.client.Classify(c.Context(), req.Text)
	if err != nil {
		return renderError(c, apperr.Upstream("classification unavailable", err))
	}
	return c.JSON(result)
}

// POST /ai/meme — preview a meme without creating a comment
func (h *AIHandler) MemePreview(c *fiber.Ctx) error {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		return c.Status(400).JSON(fiber.Map{"error": "text is required"})
	}

	idea, err := h.client.GenerateMemeIdea(c.Context(), req.Text)
	if err != nil {
		return renderError(c, apperr.Upstream("meme generation unavailable", err))
	}

	imageURL, err := h.client.GenerateMemeImage(c.Context(), idea.Caption+" in style "+idea.Style)
	if err != nil {
		return renderError(c, apperr.Upstream("meme generation unavailable", err))
	}

	return c.JSON(fiber.Map{
		"caption":  idea.Caption,
		"style":    idea.Style,
		"imageUrl": imageURL,
	})
}
