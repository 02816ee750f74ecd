package models

import (
	"time"

	"gorm.io/gorm"
)

// Delivery types for assigned bundles. ETAG bundles are handed over
// physically at assignment time, everything else ships.
const (
	DeliveryTypeETag     = "ETAG"
	DeliveryTypeStandard = "STANDARD"
)

// Order statuses derived from the delivery type at assignment.
const (
	OrderStatusDelivered = "DELIVERED"
	OrderStatusShipped   = "SHIPPED"
)

// QR is a single issued code. QRStatus carries the lifecycle state
// (see internal/domain/lifecycle); IsSold is tracked separately because
// an approved-but-not-yet-activated QR is sold while still INACTIVE.
type QR struct {
	gorm.Model
	SerialNumber string `gorm:"uniqueIndex;not null"`
	QRStatus     string `gorm:"not null;default:'INACTIVE';index"`
	QRTypeID     uint   `gorm:"not null;index"`

	CreatedBy         uint  `gorm:"not null"`
	CreatedFor        *uint `gorm:"index"`
	SoldBySalesperson *uint `gorm:"index"`
	BundleID          *uint `gorm:"index"`

	Price         float64
	IsSold        bool `gorm:"not null;default:false;index"`
	TransactionID string

	DeliveryType string
	OrderStatus  string
	ImageURL     string

	// Owner-controlled contact permissions.
	TextMessagesAllowed bool `gorm:"not null;default:true"`
	VoiceCallsAllowed   bool `gorm:"not null;default:true"`
	VideoCallsAllowed   bool `gorm:"not null;default:false"`

	// Customer contact and asset fields, populated on sale/activation.
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   string
	CustomerAddress string
	VehicleNumber   string
	GSTNumber       string

	Reviews   []QRReview   `gorm:"foreignKey:QRID"`
	Questions []QRQuestion `gorm:"foreignKey:QRID"`
	CallLogs  []QRCallLog  `gorm:"foreignKey:QRID"`
}

// TableName pins the table name used by raw joins in the repositories.
func (QR) TableName() string {
	return "qrs"
}

// CustomerDetails carries the contact and asset fields written onto a
// QR when it is sold or activated.
type CustomerDetails struct {
	Name          string `json:"name" validate:"required"`
	Phone         string `json:"phone" validate:"required"`
	Email         string `json:"email" validate:"omitempty,email"`
	Address       string `json:"address"`
	VehicleNumber string `json:"vehicle_number"`
	GSTNumber     string `json:"gst_number"`
}

// QRReview is customer feedback left on an active QR.
type QRReview struct {
	gorm.Model
	QRID     uint `gorm:"not null;index"`
	AuthorID uint
	Rating   int `gorm:"not null"`
	Comment  string
}

// QRQuestion is a question left by a scanner for the QR owner.
type QRQuestion struct {
	gorm.Model
	QRID     uint `gorm:"not null;index"`
	AskerID  *uint
	Question string `gorm:"not null"`
	Answer   string
}

// QRCallLog records a masked-contact attempt against an active QR.
type QRCallLog struct {
	gorm.Model
	QRID      uint   `gorm:"not null;index"`
	Channel   string `gorm:"not null"` // text, voice, video
	CallerRef string
	StartedAt time.Time
	Metadata  JSON `gorm:"type:jsonb"`
}
