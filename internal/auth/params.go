package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// PathParam returns the named route parameter with surrounding whitespace
// trimmed. Route params are immutable in fiber, so the body sanitizer cannot
// rewrite them; every reader trims through this helper so the resolver and
// the handlers agree on the id they act on.
func PathParam(c *fiber.Ctx, name string) string {
	return strings.TrimSpace(c.Params(name))
}
