package ticket

import (
	"context"

	"digipehchan/internal/models"
)

// CreateRequest is a salesperson's offline payment claim for a set of
// QRs in one of their bundles.
type CreateRequest struct {
	BundleID      uint                   `json:"bundle_id" validate:"required"`
	QRIDs         []uint                 `json:"qr_ids" validate:"required,min=1,dive,required"`
	Amount        float64                `json:"amount" validate:"required,gt=0"`
	PaymentMethod string                 `json:"payment_method" validate:"required,oneof=cash upi bank_transfer cheque"`
	PaymentProof  string                 `json:"payment_proof" validate:"omitempty,url"`
	Customer      models.CustomerDetails `json:"customer" validate:"required"`
}

// Decision is an admin's verdict on a pending (or rejected) ticket.
type Decision string

const (
	DecisionApproved Decision = "APPROVED"
	DecisionRejected Decision = "REJECTED"
)

// Service mediates between salesperson payment claims and the QR
// activation path, with admins as arbiter.
type Service interface {
	Create(ctx context.Context, salespersonID uint, req CreateRequest) (*models.PaymentTicket, error)
	Resolve(ctx context.Context, ticketRef string, adminID uint, decision Decision, adminNotes string) (*models.PaymentTicket, error)
	Get(ctx context.Context, ticketRef string) (*models.PaymentTicket, error)
	List(ctx context.Context, status string, offset, limit int) ([]models.PaymentTicket, int64, error)
	ListBySalesperson(ctx context.Context, salespersonID uint, offset, limit int) ([]models.PaymentTicket, int64, error)
}
