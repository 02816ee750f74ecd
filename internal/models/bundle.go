package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Bundle statuses
const (
	BundleStatusUnassigned = "UNASSIGNED"
	BundleStatusAssigned   = "ASSIGNED"
)

// Bundle is a batch of QRs generated together and assigned to at most
// one salesperson at a time. BundleNo is a sequential human-readable
// number derived from the prior maximum at creation time.
type Bundle struct {
	gorm.Model
	BundleNo   int    `gorm:"uniqueIndex;not null"`
	Status     string `gorm:"not null;default:'UNASSIGNED';index"`
	QRTypeID   uint   `gorm:"not null"`
	PricePerQR float64
	QRCount    int

	AssignedTo   *uint `gorm:"index"`
	DeliveryType string

	QRs               []QR               `gorm:"foreignKey:BundleID"`
	AssignmentHistory []BundleAssignment `gorm:"foreignKey:BundleID"`
}

// DisplayID is the human-readable bundle identifier.
func (b *Bundle) DisplayID() string {
	return fmt.Sprintf("BDL-%06d", b.BundleNo)
}

// BundleAssignment is one audit-trail row recording a prior assignee.
// A row is appended on every transfer; the bundle's current owner lives
// on Bundle.AssignedTo.
type BundleAssignment struct {
	gorm.Model
	BundleID         uint `gorm:"not null;index"`
	PreviousAssignee uint `gorm:"not null"`
	TransferredAt    time.Time
}
