package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/norte-express/fleet-api/internal/utils"
)

// NotImplemented returns a handler for resources that are routed but not yet
// backed by a service: seats, stations and trips.
func NotImplemented(resource string) fiber.Handler {
	message := fmt.Sprintf("%s endpoints are not available yet", resource)
	return func(c *fiber.Ctx) error {
		return utils.SendError(c, fiber.StatusNotImplemented, message)
	}
}

// RegisterTransitStubs mounts the placeholder resources under the given
// router so clients receive a stable 501 instead of a 404.
func RegisterTransitStubs(router fiber.Router) {
	for _, resource := range []string{"seats", "stations", "trips"} {
		group := router.Group("/" + resource)
		group.All("", NotImplemented(resource))
		group.All("/*", NotImplemented(resource))
	}
}
