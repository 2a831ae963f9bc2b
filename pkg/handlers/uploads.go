package handlers

import (
	"strings"
	"time"

	"unafeed/pkg/apperr"
	"unafeed/pkg/media"

	"github.com/gofiber/fiber/v2"
)

type UploadsHandler struct {
	store      *media.Store
	cloudinary *media.Cloudinary
}

func NewUploads(store *media.Store, cloudinary *media.Cloudinary) *UploadsHandler {
	return &UploadsHandler{store: store, cloudinary: cloudinary}
}

// POST /uploads/image
func (h *UploadsHandler) Image(c *fiber.Ctx) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "image file is required"})
	}
	if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
		return c.Status(400).JSON(fiber.Map{"error": "file is not an image"})
	}

	f, err := fh.Open()
	if err != nil {
		return renderError(c, err)
	}
	defer f.Close()

	name, width, height, err := h.store.SaveImage(f)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "unsupported image format"})
	}

	return c.JSON(fiber.Map{
		"url":    "/public/uploads/" + name,
		"width":  width,
		"height": height,
	})
}

// POST /uploads/pdf
func (h *UploadsHandler) PDF(c *fiber.Ctx) error {
	fh, err := c.FormFile("pdf")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "pdf file is required"})
	}

	f, err := fh.Open()
	if err != nil {
		return renderError(c, err)
	}
	defer f.Close()

	name, err := h.store.SavePDF(f)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(fiber.Map{"url": "/public/uploads/" + name})
}

// POST /cloudinary/signature
func (h *UploadsHandler) CloudinarySignature(c *fiber.Ctx) error {
	var req struct {
		Folder string `json:"folder"`
	}
	c.BodyParser(&req)

	return c.JSON(h.cloudinary.Signature(req.Folder, time.Now()))
}

// POST /cloudinary/upload — server-side proxy upload
func (h *UploadsHandler) CloudinaryUpload(c *fiber.Ctx) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "no file provided"})
	}

	f, err := fh.Open()
	if err != nil {
		return renderError(c, err)
	}
	defer f.Close()

	result, err := h.cloudinary.Upload(c.Context(), f, fh.Filename)
	if err != nil {
		return renderError(c, apperr.Upstream("upload failed", err))
	}
	return c.JSON(result)
}
