package errors

var (
	ErrBundleNotFound = &DomainError{
		Code:    "BUNDLE_NOT_FOUND",
		Message: "bundle not found",
		Status:  404,
	}
	ErrBundleNotAssigned = &DomainError{
		Code:    "BUNDLE_NOT_ASSIGNED",
		Message: "bundle is not assigned to a salesperson",
		Status:  409,
	}
	// ErrBundleAlreadyAssigned blocks re-assignment of an assigned
	// bundle; ownership changes go through transfer, which keeps the
	// delivery type fixed and the assignment history intact.
	ErrBundleAlreadyAssigned = &DomainError{
		Code:    "BUNDLE_ALREADY_ASSIGNED",
		Message: "bundle is already assigned; use transfer to change ownership",
		Status:  409,
	}
	ErrBundleNotOwned = &DomainError{
		Code:    "BUNDLE_NOT_OWNED",
		Message: "bundle is not assigned to the requesting salesperson",
		Status:  403,
	}
	// ErrBundlePendingPayments blocks a transfer while any QR in the
	// bundle is reserved by an unresolved payment ticket.
	ErrBundlePendingPayments = &DomainError{
		Code:    "BUNDLE_PENDING_PAYMENTS",
		Message: "bundle has QRs pending payment and cannot be transferred",
		Status:  409,
	}
	ErrSalespersonNotFound = &DomainError{
		Code:    "SALESPERSON_NOT_FOUND",
		Message: "salesperson not found",
		Status:  404,
	}
	ErrSalespersonInactive = &DomainError{
		Code:    "SALESPERSON_INACTIVE",
		Message: "salesperson account is not active",
		Status:  409,
	}
)
