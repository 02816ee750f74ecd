package bundle

import (
	"context"

	"digipehchan/internal/models"
)

// SerialGenerator produces serial numbers for newly issued QRs.
type SerialGenerator interface {
	Next(qrTypeID uint) string
}

// GenerateRequest is a bulk-generation order from an admin.
type GenerateRequest struct {
	QRTypeID   uint    `json:"qr_type_id" validate:"required"`
	Quantity   int     `json:"quantity" validate:"required,min=1,max=1000"`
	PricePerQR float64 `json:"price_per_qr" validate:"required,gt=0"`
}

// Service drives the bundle lifecycle: bulk generation, assignment to a
// salesperson, and transfer between salespeople.
type Service interface {
	Generate(ctx context.Context, adminID uint, req GenerateRequest) (*models.Bundle, error)
	Assign(ctx context.Context, bundleID, salespersonID uint, deliveryType string) (*models.Bundle, error)
	Transfer(ctx context.Context, bundleID, targetSalespersonID uint) (*models.Bundle, error)
	Get(ctx context.Context, bundleID uint) (*models.Bundle, error)
	List(ctx context.Context, offset, limit int) ([]models.Bundle, int64, error)
	ListBySalesperson(ctx context.Context, salespersonID uint, offset, limit int) ([]models.Bundle, int64, error)
}
