package list

import (
	"strconv"

	"backend-tripnick/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Post("/", func(c *fiber.Ctx) error {
		var req List
		if err := c.BodyParser(&req); err != nil {
			return apperr.New(apperr.KindInvalidArgument, err.Error())
		}
		l, err := svc.CreateList(c.Context(), req)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(l)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		id, err := parseID(c.Params("id"), "list")
		if err != nil {
			return err
		}
		l, err := svc.GetList(c.Context(), id)
		if err != nil {
			return err
		}
		return c.JSON(l)
	})

	r.Delete("/:id", func(c *fiber.Ctx) error {
		id, err := parseID(c.Params("id"), "list")
		if err != nil {
			return err
		}
		if err := svc.DeleteList(c.Context(), id); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Post("/:listId/spots", func(c *fiber.Ctx) error {
		listID, err := parseID(c.Params("listId"), "list")
		if err != nil {
			return err
		}
		var body struct {
			SpotID      int64   `json:"spot_id"`
			ThumbnailID *string `json:"list_thumbnail_id"`
		}
		if err := c.BodyParser(&body); err != nil {
			return apperr.New(apperr.KindInvalidArgument, err.Error())
		}
		result, err := svc.AddSpot(c.Context(), listID, body.SpotID, body.ThumbnailID)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(result)
	})

	r.Delete("/:listId/spots/:spotId", func(c *fiber.Ctx) error {
		listID, err := parseID(c.Params("listId"), "list")
		if err != nil {
			return err
		}
		spotID, err := parseID(c.Params("spotId"), "spot")
		if err != nil {
			return err
		}
		result, err := svc.RemoveSpot(c.Context(), listID, spotID)
		if err != nil {
			return err
		}
		return c.JSON(result)
	})
}

func parseID(raw, entity string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Newf(apperr.KindInvalidArgument, "invalid %s id %q", entity, raw)
	}
	return id, nil
}
