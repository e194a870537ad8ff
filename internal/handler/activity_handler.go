package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/norte-express/fleet-api/internal/service"
	"github.com/norte-express/fleet-api/internal/utils"
)

// ActivityHandler exposes the audit log read endpoints. The log has no write
// endpoint: records are appended internally by the actor services.
type ActivityHandler struct {
	service service.ActivityService
	logger  zerolog.Logger
}

// NewActivityHandler constructs an activity handler.
func NewActivityHandler(service service.ActivityService, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		service: service,
		logger:  logger.With().Str("component", "activity_handler").Logger(),
	}
}

// Register wires activity routes.
func (h *ActivityHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
}

func (h *ActivityHandler) list(c *fiber.Ctx) error {
	activities, err := h.service.ListAll(c.Context())
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list activities")
	}
	return utils.SendSuccess(c, "activities retrieved", activities)
}

func (h *ActivityHandler) get(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid activity id")
	}

	activity, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to retrieve activity")
	}
	return utils.SendSuccess(c, "activity retrieved", activity)
}
