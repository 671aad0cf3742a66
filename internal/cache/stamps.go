package cache

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// ScopePosts is the stamp scope invalidated by post mutations. Clients
// compare the stamp against their local fetch time to decide whether a
// cached listing is stale.
const ScopePosts = "posts"

// Stamps tracks last-invalidated timestamps per scope in redis. A nil
// receiver or a missing redis client turns every method into a no-op,
// so services can run without the cache sidecar.
type Stamps struct {
	client *redis.Client
	now    func() time.Time
}

func NewStamps(client *redis.Client, now func() time.Time) *Stamps {
	if now == nil {
		now = time.Now
	}
	return &Stamps{client: client, now: now}
}

func (s *Stamps) Invalidate(ctx context.Context, scope string) {
	if s == nil || s.client == nil {
		return
	}
	stamp := s.now().UTC().Format(time.RFC3339Nano)
	_ = s.client.Set(ctx, stampKey(scope), stamp, 0).Err()
}

func (s *Stamps) LastInvalidated(ctx context.Context, scope string) (time.Time, error) {
	if s == nil || s.client == nil {
		return time.Time{}, nil
	}
	val, err := s.client.Get(ctx, stampKey(scope)).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339Nano, val)
}

func stampKey(scope string) string {
	return "tripnick:last_updated:" + scope
}

func RegisterRoutes(r fiber.Router, stamps *Stamps) {
	r.Get("/stamps/:scope", func(c *fiber.Ctx) error {
		stamp, err := stamps.LastInvalidated(c.Context(), c.Params("scope"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if stamp.IsZero() {
			return c.JSON(fiber.Map{"scope": c.Params("scope"), "last_invalidated": nil})
		}
		return c.JSON(fiber.Map{"scope": c.Params("scope"), "last_invalidated": stamp})
	})
}
