package models

import (
	"time"

	"gorm.io/gorm"
)

// PaymentTicket is a salesperson's claim of an offline payment for a
// set of QRs in one bundle. Creating a ticket reserves the QRs
// (INACTIVE -> PENDING_PAYMENT); an admin resolves it.
type PaymentTicket struct {
	gorm.Model
	TicketRef     string `gorm:"uniqueIndex;not null"`
	Status        string `gorm:"not null;default:'PENDING';index"`
	SalespersonID uint   `gorm:"not null;index"`
	BundleID      uint   `gorm:"not null;index"`

	Amount        float64
	PaymentMethod string `gorm:"not null"`
	PaymentProof  string

	// Customer identity copied onto the QRs on approval.
	CustomerName    string `gorm:"not null"`
	CustomerPhone   string `gorm:"not null"`
	CustomerEmail   string
	CustomerAddress string

	AdminNotes string
	ResolvedBy *uint
	ResolvedAt *time.Time

	QRs []PaymentTicketQR `gorm:"foreignKey:TicketID"`
}

// PaymentTicketQR links a ticket to one reserved QR.
type PaymentTicketQR struct {
	gorm.Model
	TicketID uint `gorm:"not null;index"`
	QRID     uint `gorm:"not null;index"`
}

// QRIDs returns the ids of the QRs referenced by the ticket.
func (t *PaymentTicket) QRIDs() []uint {
	ids := make([]uint, 0, len(t.QRs))
	for _, link := range t.QRs {
		ids = append(ids, link.QRID)
	}
	return ids
}
