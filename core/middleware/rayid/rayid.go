// Package rayid tags every request with a ray ID.
package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Header carries the ray ID on requests and responses.
const Header = "X-Ray-ID"

// LocalsKey is where the ray ID is stored in the Fiber context.
const LocalsKey = "ray_id"

// New returns a middleware that reuses an incoming ray ID or generates one,
// stores it in the context locals and echoes it in the response.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(Header)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals(LocalsKey, rid)
		c.Set(Header, rid)
		return c.Next()
	}
}
