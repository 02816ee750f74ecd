package handlers

import (
	"digipehchan/internal/models"
	"digipehchan/internal/services/user"
	"digipehchan/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService user.Service
}

func NewUserHandler(userService user.Service) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateSalesperson provisions a salesperson account (admin only).
func (h *UserHandler) CreateSalesperson(c *fiber.Ctx) error {
	var input models.CreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	input.Role = models.RoleSalesperson

	usr, err := h.userService.Create(&input)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "salesperson created", fiber.Map{
		"id":    usr.ID,
		"name":  usr.Name,
		"email": usr.Email,
	})
}
