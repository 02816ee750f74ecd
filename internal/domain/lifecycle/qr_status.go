// Package lifecycle holds the status enums for QR codes and payment
// tickets together with the single source of truth for which status
// transitions are legal. Every mutator in the service layer consults
// these tables instead of re-deriving legality at each call site.
package lifecycle

// QRStatus is the lifecycle state of a single QR code.
type QRStatus string

const (
	// QRInactive: generated and available, or sold-but-not-yet-activated
	// (distinguished by the IsSold flag on the QR record).
	QRInactive QRStatus = "INACTIVE"
	// QRActive: bound to an end customer.
	QRActive QRStatus = "ACTIVE"
	// QRPendingPayment: reserved by a payment ticket under review.
	QRPendingPayment QRStatus = "PENDING_PAYMENT"
	// QRRejected: released by a rejected payment ticket.
	QRRejected QRStatus = "REJECTED"
)

func (s QRStatus) Valid() bool {
	switch s {
	case QRInactive, QRActive, QRPendingPayment, QRRejected:
		return true
	}
	return false
}

// qrTransitions maps each status to the set of statuses it may move to.
// INACTIVE -> ACTIVE          customer activation or direct sale
// INACTIVE -> PENDING_PAYMENT ticket creation (reservation)
// PENDING_PAYMENT -> INACTIVE ticket approved (sold, awaiting activation)
// PENDING_PAYMENT -> REJECTED ticket rejected
// REJECTED -> INACTIVE        ticket re-approved
var qrTransitions = map[QRStatus]map[QRStatus]bool{
	QRInactive: {
		QRActive:         true,
		QRPendingPayment: true,
	},
	QRPendingPayment: {
		QRInactive: true,
		QRRejected: true,
	},
	QRRejected: {
		QRInactive: true,
	},
	QRActive: {},
}

// CanTransitionQR reports whether a QR may move from one status to another.
func CanTransitionQR(from, to QRStatus) bool {
	allowed, ok := qrTransitions[from]
	return ok && allowed[to]
}

// CanActivateQR reports whether a QR in the given status may be bound to
// a customer. PENDING_PAYMENT and REJECTED are never directly activatable;
// they must pass through ticket approval first.
func CanActivateQR(from QRStatus) bool {
	return CanTransitionQR(from, QRActive)
}
