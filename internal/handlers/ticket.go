package handlers

import (
	"digipehchan/internal/services/ticket"
	"digipehchan/internal/utils/pagination"
	"digipehchan/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type TicketHandler struct {
	ticketService ticket.Service
}

func NewTicketHandler(ticketService ticket.Service) *TicketHandler {
	return &TicketHandler{ticketService: ticketService}
}

// Create submits an offline payment claim (salesperson only).
func (h *TicketHandler) Create(c *fiber.Ctx) error {
	salespersonID := c.Locals("userID").(uint)

	var req ticket.CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	t, err := h.ticketService.Create(c.Context(), salespersonID, req)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "payment ticket created", t)
}

type resolveRequest struct {
	Decision   string `json:"decision"`
	AdminNotes string `json:"admin_notes"`
}

// Resolve approves or rejects a ticket (admin only).
func (h *TicketHandler) Resolve(c *fiber.Ctx) error {
	adminID := c.Locals("userID").(uint)
	ref := c.Params("ref")

	var req resolveRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	t, err := h.ticketService.Resolve(c.Context(), ref, adminID, ticket.Decision(req.Decision), req.AdminNotes)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "payment ticket resolved", t)
}

func (h *TicketHandler) Get(c *fiber.Ctx) error {
	t, err := h.ticketService.Get(c.Context(), c.Params("ref"))
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "payment ticket retrieved", t)
}

// List lists tickets, optionally filtered by status (admin only).
func (h *TicketHandler) List(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)

	tickets, total, err := h.ticketService.List(c.Context(), c.Query("status"), p.Offset, p.Limit)
	if err != nil {
		return response.ServerError(c, "failed to list tickets")
	}
	p.Total = total

	return c.JSON(pagination.Response(p, tickets))
}

// ListMine lists the requesting salesperson's tickets.
func (h *TicketHandler) ListMine(c *fiber.Ctx) error {
	salespersonID := c.Locals("userID").(uint)
	p := pagination.ParseFromRequest(c)

	tickets, total, err := h.ticketService.ListBySalesperson(c.Context(), salespersonID, p.Offset, p.Limit)
	if err != nil {
		return response.ServerError(c, "failed to list tickets")
	}
	p.Total = total

	return c.JSON(pagination.Response(p, tickets))
}
