package handlers

import (
	"digipehchan/internal/services/export"
	"digipehchan/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type ExportHandler struct {
	exportService export.Service
}

func NewExportHandler(exportService export.Service) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// BundleManifest streams an xlsx listing of every QR in a bundle.
func (h *ExportHandler) BundleManifest(c *fiber.Ctx) error {
	bundleID, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "invalid bundle id")
	}

	buf, filename, err := h.exportService.BundleManifest(c.Context(), uint(bundleID))
	if err != nil {
		return response.DomainError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}
