package handlers

import (
	"digipehchan/internal/models"
	"digipehchan/internal/services/stats"
	"digipehchan/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type StatsHandler struct {
	statsService stats.Service
}

func NewStatsHandler(statsService stats.Service) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Mine returns the requesting salesperson's reconciled counters.
func (h *StatsHandler) Mine(c *fiber.Ctx) error {
	salespersonID := c.Locals("userID").(uint)

	result, err := h.statsService.ComputeSalespersonStats(c.Context(), salespersonID)
	if err != nil {
		return response.ServerError(c, "failed to compute stats")
	}
	return response.Success(c, "stats computed", result)
}

// ForSalesperson returns counters for any salesperson (admin only).
func (h *StatsHandler) ForSalesperson(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)
	if claims.Role != models.RoleAdmin {
		return response.Error(c, fiber.StatusForbidden, "Insufficient permissions")
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "invalid salesperson id")
	}

	result, err := h.statsService.ComputeSalespersonStats(c.Context(), uint(id))
	if err != nil {
		return response.ServerError(c, "failed to compute stats")
	}
	return response.Success(c, "stats computed", result)
}
