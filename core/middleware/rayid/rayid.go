package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Header is the response header carrying the request's RayID.
const Header = "X-Ray-ID"

// New returns a middleware that assigns every request a RayID.
// An incoming X-Ray-ID header is reused so callers can correlate manual runs.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(Header)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals("ray_id", rid)
		c.Set(Header, rid)
		return c.Next()
	}
}
