package qr

import (
	"context"

	"digipehchan/internal/models"
)

// SellRequest is a direct (online) sale of one QR to a customer.
type SellRequest struct {
	QRID          uint                   `json:"qr_id" validate:"required"`
	CustomerID    uint                   `json:"customer_id" validate:"required"`
	TransactionID string                 `json:"transaction_id" validate:"required"`
	Customer      models.CustomerDetails `json:"customer" validate:"required"`
}

// ActivateRequest binds a QR to the scanning customer by serial number.
type ActivateRequest struct {
	SerialNumber string                 `json:"serial_number" validate:"required"`
	CustomerID   uint                   `json:"customer_id" validate:"required"`
	Customer     models.CustomerDetails `json:"customer" validate:"required"`
}

// PermissionsRequest toggles the owner's contact-proxy channels.
type PermissionsRequest struct {
	TextMessagesAllowed bool `json:"text_messages_allowed"`
	VoiceCallsAllowed   bool `json:"voice_calls_allowed"`
	VideoCallsAllowed   bool `json:"video_calls_allowed"`
}

// Service covers single-QR operations: direct sale, customer
// activation, owner permission toggles, and engagement records.
type Service interface {
	SellDirect(ctx context.Context, sellerID *uint, req SellRequest) (*models.QR, error)
	ActivateBySerial(ctx context.Context, req ActivateRequest) (*models.QR, error)
	GetBySerial(ctx context.Context, serial string) (*models.QR, error)
	UpdatePermissions(ctx context.Context, qrID, ownerID uint, req PermissionsRequest) (*models.QR, error)
	AddReview(ctx context.Context, qrID, authorID uint, rating int, comment string) error
	AddQuestion(ctx context.Context, qrID uint, askerID *uint, question string) error
	RecordCall(ctx context.Context, qrID uint, channel, callerRef string) error
}
