package handlers

import (
	"unafeed/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

var invalidID = apperr.Validation("invalid id")

// renderError converts a service error into the JSON error body. Server-side
// failures are logged in full but reported generically.
func renderError(c *fiber.Ctx, err error) error {
	code, msg := apperr.Status(err)
	if code >= 500 {
		log.Errorf("[HTTP] %s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(fiber.Map{"error": msg})
}
