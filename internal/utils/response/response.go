package response

import (
	goerrors "errors"

	"digipehchan/internal/errors"

	"github.com/gofiber/fiber/v2"
)

func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

// DomainError maps a business-rule error onto its HTTP status and
// surfaces the machine code alongside the message. Unknown errors
// become opaque 500s.
func DomainError(c *fiber.Ctx, err error) error {
	var derr *errors.DomainError
	if goerrors.As(err, &derr) {
		return c.Status(derr.Status).JSON(fiber.Map{
			"success": false,
			"error":   derr.Message,
			"code":    derr.Code,
		})
	}
	return ServerError(c, "internal server error")
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, message)
}

func ServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}

func Unauthorized(c *fiber.Ctx) error {
	return Error(c, fiber.StatusUnauthorized, "Unauthorized")
}
