package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/norte-express/fleet-api/internal/dto"
	"github.com/norte-express/fleet-api/internal/service"
	"github.com/norte-express/fleet-api/internal/utils"
)

// BusHandler exposes fleet management endpoints. Reads are open to any
// authenticated user; mutations require the admin role.
type BusHandler struct {
	service  service.BusService
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewBusHandler constructs a bus handler.
func NewBusHandler(service service.BusService, logger zerolog.Logger) *BusHandler {
	return &BusHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With().Str("component", "bus_handler").Logger(),
	}
}

// Register wires bus routes. adminOnly guards the mutating endpoints.
func (h *BusHandler) Register(router fiber.Router, adminOnly fiber.Handler) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", adminOnly, h.register)
	router.Patch("/:id", adminOnly, h.update)
	router.Delete("/:id", adminOnly, h.delete)
}

func (h *BusHandler) register(c *fiber.Ctx) error {
	var payload dto.CreateBusRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	bus, err := h.service.Register(c.Context(), payload, actorIDFromContext(c), clientIP(c))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to register bus")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "bus registered", bus)
}

func (h *BusHandler) list(c *fiber.Ctx) error {
	buses, err := h.service.List(c.Context())
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list buses")
	}
	return utils.SendSuccess(c, "buses retrieved", buses)
}

func (h *BusHandler) get(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid bus id")
	}

	bus, err := h.service.Get(c.Context(), id)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to retrieve bus")
	}
	return utils.SendSuccess(c, "bus retrieved", bus)
}

func (h *BusHandler) update(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid bus id")
	}

	var payload dto.UpdateBusRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	bus, err := h.service.Update(c.Context(), id, payload, actorIDFromContext(c), clientIP(c))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to update bus")
	}
	return utils.SendSuccess(c, "bus updated", bus)
}

func (h *BusHandler) delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid bus id")
	}

	if err := h.service.Delete(c.Context(), id, actorIDFromContext(c), clientIP(c)); err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to delete bus")
	}
	return utils.SendSuccess(c, "bus deleted", nil)
}
