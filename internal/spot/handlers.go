package spot

import (
	"strconv"

	"backend-tripnick/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Post("/", func(c *fiber.Ctx) error {
		var req Spot
		if err := c.BodyParser(&req); err != nil {
			return apperr.New(apperr.KindInvalidArgument, err.Error())
		}
		sp, err := svc.CreateSpot(c.Context(), req)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(sp)
	})

	r.Get("/", func(c *fiber.Ctx) error {
		filter := Filter{
			Country:  c.Query("country"),
			City:     c.Query("city"),
			Category: c.Query("category"),
			Limit:    c.QueryInt("limit"),
			Offset:   c.QueryInt("offset"),
		}
		spots, err := svc.ListSpots(c.Context(), filter)
		if err != nil {
			return err
		}
		return c.JSON(spots)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		id, err := parseID(c.Params("id"))
		if err != nil {
			return err
		}
		sp, err := svc.GetSpot(c.Context(), id)
		if err != nil {
			return err
		}
		return c.JSON(sp)
	})

	r.Put("/:id", func(c *fiber.Ctx) error {
		id, err := parseID(c.Params("id"))
		if err != nil {
			return err
		}
		var req Spot
		if err := c.BodyParser(&req); err != nil {
			return apperr.New(apperr.KindInvalidArgument, err.Error())
		}
		sp, err := svc.UpdateSpot(c.Context(), id, req)
		if err != nil {
			return err
		}
		return c.JSON(sp)
	})

	r.Delete("/:id", func(c *fiber.Ctx) error {
		id, err := parseID(c.Params("id"))
		if err != nil {
			return err
		}
		if err := svc.DeleteSpot(c.Context(), id); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Newf(apperr.KindInvalidArgument, "invalid spot id %q", raw)
	}
	return id, nil
}
