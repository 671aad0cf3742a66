package post

import (
	"strconv"

	"backend-tripnick/internal/apperr"
	"backend-tripnick/internal/auth"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Post("/", func(c *fiber.Ctx) error {
		var req CreateRequest
		if err := c.BodyParser(&req); err != nil {
			return apperr.New(apperr.KindInvalidArgument, err.Error())
		}
		if req.UserID == 0 {
			req.UserID = auth.UserID(c)
		}
		p, err := svc.Create(c.Context(), req)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	})

	r.Get("/", func(c *fiber.Ctx) error {
		filter := Filter{
			UserID: int64(c.QueryInt("user_id")),
			Type:   c.Query("type"),
			Limit:  c.QueryInt("limit"),
			Offset: c.QueryInt("offset"),
		}
		posts, err := svc.ListPosts(c.Context(), filter)
		if err != nil {
			return err
		}
		return c.JSON(posts)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		id, err := parsePostID(c.Params("id"))
		if err != nil {
			return err
		}
		p, err := svc.Get(c.Context(), id)
		if err != nil {
			return err
		}
		return c.JSON(p)
	})

	r.Delete("/:postId", func(c *fiber.Ctx) error {
		id, err := parsePostID(c.Params("postId"))
		if err != nil {
			return err
		}
		report, err := svc.Delete(c.Context(), DeleteRequest{
			PostID:     id,
			DryRun:     c.QueryBool("dryRun"),
			SoftDelete: c.QueryBool("softDelete"),
		})
		if err != nil {
			return err
		}
		return c.JSON(report)
	})
}

func parsePostID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Newf(apperr.KindInvalidArgument, "invalid post id %q", raw)
	}
	return id, nil
}
