package handlers

import (
	"digipehchan/internal/models"
	"digipehchan/internal/services/qr"
	"digipehchan/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type QRHandler struct {
	qrService qr.Service
}

func NewQRHandler(qrService qr.Service) *QRHandler {
	return &QRHandler{qrService: qrService}
}

// Sell records a direct online sale of one QR (salesperson or admin).
func (h *QRHandler) Sell(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	var req qr.SellRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	var sellerID *uint
	if claims.Role == models.RoleSalesperson {
		sellerID = &claims.UserID
	}

	sold, err := h.qrService.SellDirect(c.Context(), sellerID, req)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "QR sold", sold)
}

// Activate binds a QR to the requesting customer by serial number.
func (h *QRHandler) Activate(c *fiber.Ctx) error {
	customerID := c.Locals("userID").(uint)

	var req qr.ActivateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	req.SerialNumber = c.Params("serial")
	req.CustomerID = customerID

	activated, err := h.qrService.ActivateBySerial(c.Context(), req)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "QR activated", activated)
}

// Scan returns the public view of a QR: the contact-proxy channels the
// owner allows, never the raw contact fields.
func (h *QRHandler) Scan(c *fiber.Ctx) error {
	found, err := h.qrService.GetBySerial(c.Context(), c.Params("serial"))
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "QR retrieved", fiber.Map{
		"serial_number":         found.SerialNumber,
		"qr_status":             found.QRStatus,
		"text_messages_allowed": found.TextMessagesAllowed,
		"voice_calls_allowed":   found.VoiceCallsAllowed,
		"video_calls_allowed":   found.VideoCallsAllowed,
		"vehicle_number":        found.VehicleNumber,
	})
}

// UpdatePermissions toggles the owner's contact channels.
func (h *QRHandler) UpdatePermissions(c *fiber.Ctx) error {
	ownerID := c.Locals("userID").(uint)
	qrID, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "invalid QR id")
	}

	var req qr.PermissionsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	updated, err := h.qrService.UpdatePermissions(c.Context(), uint(qrID), ownerID, req)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "permissions updated", updated)
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *QRHandler) AddReview(c *fiber.Ctx) error {
	authorID := c.Locals("userID").(uint)
	qrID, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "invalid QR id")
	}

	var req reviewRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	if err := h.qrService.AddReview(c.Context(), uint(qrID), authorID, req.Rating, req.Comment); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "review added", nil)
}

func (h *QRHandler) AddQuestion(c *fiber.Ctx) error {
	qrID, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "invalid QR id")
	}

	var req struct {
		Question string `json:"question"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	var askerID *uint
	if id, ok := c.Locals("userID").(uint); ok {
		askerID = &id
	}

	if err := h.qrService.AddQuestion(c.Context(), uint(qrID), askerID, req.Question); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "question added", nil)
}

// RecordCall logs a masked-contact attempt against an active QR.
func (h *QRHandler) RecordCall(c *fiber.Ctx) error {
	qrID, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "invalid QR id")
	}

	var req struct {
		Channel   string `json:"channel"`
		CallerRef string `json:"caller_ref"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	if err := h.qrService.RecordCall(c.Context(), uint(qrID), req.Channel, req.CallerRef); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "call recorded", nil)
}
