package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/norte-express/fleet-api/internal/middleware"
	"github.com/norte-express/fleet-api/internal/repository"
	"github.com/norte-express/fleet-api/internal/service"
	"github.com/norte-express/fleet-api/internal/utils"
)

// clientIP derives the originating network address of the request: the first
// entry of X-Forwarded-For when the request traversed a proxy, the direct
// connection address otherwise. The IPv6 loopback is rewritten to its IPv4
// form so local traffic always audits as 127.0.0.1.
func clientIP(c *fiber.Ctx) string {
	if forwarded := strings.TrimSpace(c.Get(fiber.HeaderXForwardedFor)); forwarded != "" {
		if first := strings.TrimSpace(strings.Split(forwarded, ",")[0]); first != "" {
			return normalizeLoopback(first)
		}
	}
	return normalizeLoopback(c.IP())
}

func normalizeLoopback(ip string) string {
	if ip == "::1" {
		return "127.0.0.1"
	}
	return ip
}

func actorIDFromContext(c *fiber.Ctx) string {
	if id, ok := c.Locals("user_id").(string); ok {
		return strings.TrimSpace(id)
	}
	return ""
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

// sendServiceError maps service failures onto the response envelope.
func sendServiceError(c *fiber.Ctx, logger *zerolog.Logger, err error, fallback string) error {
	switch {
	case isValidationError(err), errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrNoUpdateFields):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	case errors.Is(err, repository.ErrNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "resource not found")
	case errors.Is(err, service.ErrEmailTaken), errors.Is(err, service.ErrPlateTaken):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return utils.SendError(c, fiber.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, service.ErrForbidden):
		return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
	case errors.Is(err, repository.ErrStorageUnavailable):
		logger.Error().Err(err).Msg("storage unavailable")
		return utils.SendError(c, fiber.StatusServiceUnavailable, "service temporarily unavailable")
	default:
		logger.Error().Err(err).Msg(fallback)
		return utils.SendError(c, fiber.StatusInternalServerError, fallback)
	}
}
