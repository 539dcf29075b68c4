package auth

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// Header is the request header carrying the API key.
const Header = "X-API-Key"

// Config holds the auth middleware configuration.
type Config struct {
	// ApiKey is the expected key. Empty disables the check.
	ApiKey string
	// Skip lists paths served without a key (health probes, metrics scraping).
	Skip []string
}

// New returns a middleware rejecting requests without the configured API key.
func New(cfg Config) fiber.Handler {
	skip := make(map[string]struct{}, len(cfg.Skip))
	for _, p := range cfg.Skip {
		skip[p] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		if cfg.ApiKey == "" {
			return c.Next()
		}
		if _, ok := skip[c.Path()]; ok {
			return c.Next()
		}
		key := c.Get(Header)
		if subtle.ConstantTimeCompare([]byte(key), []byte(cfg.ApiKey)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		}
		return c.Next()
	}
}
