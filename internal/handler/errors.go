package handler

import (
	"errors"

	"go-inventory-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler renders errors returned by handlers as {"error": message}.
// Domain errors keep their message and add their code; anything else is logged and hidden.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if e, ok := service.AsError(err); ok {
			return c.Status(statusForKind(e.Kind)).JSON(fiber.Map{"error": e.Message, "code": e.Code})
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}

		log.Error("unhandled request error",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Any("request_id", c.Locals("requestid")),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
	}
}

func statusForKind(kind service.Kind) int {
	switch kind {
	case service.KindNotFound:
		return fiber.StatusNotFound
	case service.KindInvalidInput, service.KindBusinessRule:
		return fiber.StatusBadRequest
	case service.KindUnauthorized:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// parseID reads a positive numeric :id route parameter
func parseID(c *fiber.Ctx, entity string) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid "+entity+" ID")
	}
	return uint(id), nil
}

func invalidJSON() error {
	return fiber.NewError(fiber.StatusBadRequest, "Invalid JSON")
}
