package router

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cache"
)

// HttpCacheInMemory caches GET responses for ttl seconds, except for the
// path prefixes in skip, which always hit the handler.
func HttpCacheInMemory(ttl int, skip ...string) fiber.Handler {
	if ttl <= 0 {
		ttl = 5
	}
	return cache.New(cache.Config{
		Next: func(c *fiber.Ctx) bool {
			if c.Method() != fiber.MethodGet {
				return true
			}
			for _, prefix := range skip {
				if strings.HasPrefix(c.Path(), prefix) {
					return true
				}
			}
			return false
		},
		Expiration: time.Duration(ttl) * time.Second,
	})
}
