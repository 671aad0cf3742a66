package image

import (
	"backend-tripnick/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	// Upload is a stub: blob storage is external, so this only records
	// metadata and derives the URL the client should PUT the bytes to.
	r.Post("/upload", func(c *fiber.Ctx) error {
		var body struct {
			FileName    string `json:"file_name"`
			ContentType string `json:"content_type"`
			SizeBytes   int64  `json:"size_bytes"`
		}
		if err := c.BodyParser(&body); err != nil {
			return apperr.New(apperr.KindInvalidArgument, err.Error())
		}
		if body.FileName == "" {
			body.FileName = "upload"
		}

		url := "https://storage.example/" + body.FileName
		input := Image{Name: &body.FileName, URL: &url}
		if body.ContentType != "" {
			input.ContentType = &body.ContentType
		}
		if body.SizeBytes > 0 {
			input.SizeBytes = &body.SizeBytes
		}

		img, err := svc.SaveImage(c.Context(), input)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(img)
	})

	r.Get("/", func(c *fiber.Ctx) error {
		images, err := svc.ListImages(c.Context(), c.QueryInt("limit"), c.QueryInt("offset"))
		if err != nil {
			return err
		}
		return c.JSON(images)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		img, err := svc.GetImage(c.Context(), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(img)
	})
}
