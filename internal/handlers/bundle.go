package handlers

import (
	"digipehchan/internal/services/bundle"
	"digipehchan/internal/utils/pagination"
	"digipehchan/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type BundleHandler struct {
	bundleService bundle.Service
}

func NewBundleHandler(bundleService bundle.Service) *BundleHandler {
	return &BundleHandler{bundleService: bundleService}
}

// Generate bulk-creates a bundle of QRs (admin only).
func (h *BundleHandler) Generate(c *fiber.Ctx) error {
	adminID := c.Locals("userID").(uint)

	var req bundle.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	b, err := h.bundleService.Generate(c.Context(), adminID, req)
	if err != nil {
		return response.DomainError(c, err)
	}

	qrIDs := make([]uint, 0, len(b.QRs))
	for _, qr := range b.QRs {
		qrIDs = append(qrIDs, qr.ID)
	}

	return response.Success(c, "bundle generated", fiber.Map{
		"bundle_id": b.ID,
		"bundle_no": b.DisplayID(),
		"qr_count":  b.QRCount,
		"qr_ids":    qrIDs,
	})
}

type assignRequest struct {
	SalespersonID uint   `json:"salesperson_id"`
	DeliveryType  string `json:"delivery_type"`
}

// Assign binds a bundle to a salesperson (admin only).
func (h *BundleHandler) Assign(c *fiber.Ctx) error {
	bundleID, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "invalid bundle id")
	}

	var req assignRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if req.SalespersonID == 0 || req.DeliveryType == "" {
		return response.BadRequest(c, "salesperson_id and delivery_type are required")
	}

	b, err := h.bundleService.Assign(c.Context(), uint(bundleID), req.SalespersonID, req.DeliveryType)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "bundle assigned", b)
}

type transferRequest struct {
	TargetSalespersonID uint `json:"target_salesperson_id"`
}

// Transfer moves a bundle to another salesperson (admin only).
func (h *BundleHandler) Transfer(c *fiber.Ctx) error {
	bundleID, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "invalid bundle id")
	}

	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if req.TargetSalespersonID == 0 {
		return response.BadRequest(c, "target_salesperson_id is required")
	}

	b, err := h.bundleService.Transfer(c.Context(), uint(bundleID), req.TargetSalespersonID)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "bundle transferred", b)
}

func (h *BundleHandler) Get(c *fiber.Ctx) error {
	bundleID, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "invalid bundle id")
	}

	b, err := h.bundleService.Get(c.Context(), uint(bundleID))
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "bundle retrieved", b)
}

func (h *BundleHandler) List(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)

	bundles, total, err := h.bundleService.List(c.Context(), p.Offset, p.Limit)
	if err != nil {
		return response.ServerError(c, "failed to list bundles")
	}
	p.Total = total

	return c.JSON(pagination.Response(p, bundles))
}

// ListMine lists the requesting salesperson's bundles.
func (h *BundleHandler) ListMine(c *fiber.Ctx) error {
	salespersonID := c.Locals("userID").(uint)
	p := pagination.ParseFromRequest(c)

	bundles, total, err := h.bundleService.ListBySalesperson(c.Context(), salespersonID, p.Offset, p.Limit)
	if err != nil {
		return response.ServerError(c, "failed to list bundles")
	}
	p.Total = total

	return c.JSON(pagination.Response(p, bundles))
}
