package handlers

import (
	"digipehchan/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

// HealthCheck reports database and cache connectivity.
func HealthCheck(c *fiber.Ctx) error {
	status := fiber.Map{"status": "ok"}

	sqlDB, err := repositories.DB.DB()
	if err != nil || sqlDB.Ping() != nil {
		status["status"] = "degraded"
		status["database"] = "unreachable"
	} else {
		status["database"] = "ok"
	}

	if repositories.CacheService != nil {
		if err := repositories.CacheService.HealthCheck(c.Context()); err != nil {
			status["status"] = "degraded"
			status["cache"] = "unreachable"
		} else {
			status["cache"] = "ok"
		}
	}

	if status["status"] != "ok" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(status)
	}
	return c.JSON(status)
}
