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

// UserHandler exposes account management and authentication endpoints.
type UserHandler struct {
	service  service.UserService
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewUserHandler constructs a user handler.
func NewUserHandler(service service.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With().Str("component", "user_handler").Logger(),
	}
}

// RegisterPublic wires the routes that do not require a session: account
// creation and login.
func (h *UserHandler) RegisterPublic(router fiber.Router) {
	router.Post("", h.create)
	router.Post("/login", h.login)
}

// RegisterProtected wires the routes behind the JWT guard.
func (h *UserHandler) RegisterProtected(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Patch("/password/:id", h.updatePassword)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *UserHandler) create(c *fiber.Ctx) error {
	var payload dto.CreateUserRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(payload); err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to create user")
	}

	user, err := h.service.Create(c.Context(), payload, clientIP(c))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to create user")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "user created", user)
}

func (h *UserHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	session, err := h.service.Login(c.Context(), payload, clientIP(c))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to authenticate")
	}
	return utils.SendSuccess(c, "login successful", session)
}

func (h *UserHandler) list(c *fiber.Ctx) error {
	users, err := h.service.List(c.Context())
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list users")
	}
	return utils.SendSuccess(c, "users retrieved", users)
}

func (h *UserHandler) get(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid user id")
	}

	user, err := h.service.Get(c.Context(), id)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to retrieve user")
	}
	return utils.SendSuccess(c, "user retrieved", user)
}

func (h *UserHandler) update(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid user id")
	}

	var payload dto.UpdateUserRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	user, err := h.service.Update(c.Context(), id, payload, clientIP(c))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to update user")
	}
	return utils.SendSuccess(c, "user updated", user)
}

func (h *UserHandler) updatePassword(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid user id")
	}

	var payload dto.UpdatePasswordRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := h.service.UpdatePassword(c.Context(), id, payload, clientIP(c)); err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to update password")
	}
	return utils.SendSuccess(c, "password updated", nil)
}

func (h *UserHandler) delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid user id")
	}

	if err := h.service.Delete(c.Context(), id, actorIDFromContext(c), clientIP(c)); err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to delete user")
	}
	return utils.SendSuccess(c, "user deleted", nil)
}
