package errors

var (
	ErrQRNotFound = &DomainError{
		Code:    "QR_NOT_FOUND",
		Message: "QR code not found",
		Status:  404,
	}
	ErrQRAlreadySold = &DomainError{
		Code:    "QR_ALREADY_SOLD",
		Message: "QR code has already been sold",
		Status:  409,
	}
	// ErrQRPaymentPending blocks activation while a payment ticket for the
	// QR is still under admin review.
	ErrQRPaymentPending = &DomainError{
		Code:    "QR_PAYMENT_PENDING",
		Message: "QR code has a payment pending approval and cannot be activated yet",
		Status:  409,
	}
	// ErrQRPaymentRequired blocks activation of a QR whose payment ticket
	// was rejected; a new or re-approved payment is required first.
	ErrQRPaymentRequired = &DomainError{
		Code:    "QR_PAYMENT_REQUIRED",
		Message: "payment for this QR code was rejected, payment is required before activation",
		Status:  409,
	}
	ErrQRNotActive = &DomainError{
		Code:    "QR_NOT_ACTIVE",
		Message: "QR code is not active",
		Status:  409,
	}
	ErrQRNotInBundle = &DomainError{
		Code:    "QR_NOT_IN_BUNDLE",
		Message: "QR codes do not belong to the stated bundle or are not available",
		Status:  409,
	}
)
