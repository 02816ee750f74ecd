package handlers

import (
	"digipehchan/internal/models"
	"digipehchan/internal/services/auth"
	"digipehchan/internal/services/user"
	"digipehchan/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService auth.Service
	userService user.Service
}

func NewAuthHandler(authService auth.Service, userService user.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if req.Email == "" && req.Phone == "" {
		return response.BadRequest(c, "email or phone is required")
	}

	usr, accessToken, refreshToken, err := h.authService.Login(req.Email, req.Phone, req.Password)
	if err != nil {
		return response.Error(c, fiber.StatusUnauthorized, err.Error())
	}

	return response.Success(c, "login successful", fiber.Map{
		"user": fiber.Map{
			"id":    usr.ID,
			"name":  usr.Name,
			"email": usr.Email,
			"role":  usr.Role,
		},
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input models.CreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	// Public registration never grants elevated roles.
	input.Role = models.RoleCustomer

	usr, err := h.userService.Create(&input)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "registration successful", fiber.Map{
		"id":    usr.ID,
		"email": usr.Email,
	})
}

func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return response.BadRequest(c, "refresh token is required")
	}

	accessToken, refreshToken, err := h.authService.RefreshTokens(req.RefreshToken)
	if err != nil {
		return response.Error(c, fiber.StatusUnauthorized, err.Error())
	}

	return response.Success(c, "tokens refreshed", fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	if err := h.authService.Logout(userID); err != nil {
		return response.ServerError(c, "failed to log out")
	}
	return response.Success(c, "logged out", nil)
}
