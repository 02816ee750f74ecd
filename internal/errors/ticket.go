package errors

var (
	ErrTicketNotFound = &DomainError{
		Code:    "TICKET_NOT_FOUND",
		Message: "payment ticket not found",
		Status:  404,
	}
	ErrInvalidTicketTransition = &DomainError{
		Code:    "INVALID_TICKET_TRANSITION",
		Message: "invalid payment ticket state transition",
		Status:  409,
	}
	// ErrQRsAlreadyReserved means at least one requested QR is claimed by
	// another ticket that is still pending review.
	ErrQRsAlreadyReserved = &DomainError{
		Code:    "QRS_ALREADY_RESERVED",
		Message: "one or more QR codes are already reserved by a pending payment ticket",
		Status:  409,
	}
)
