package service

import "errors"

// Error taxonomy shared by the services. Handlers map these onto the
// uniform {status:false, message} bodies: validation/conflict -> 400,
// not-found -> 404, everything else -> 500.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailInUse         = errors.New("email already exists")
	ErrInvalidToken       = errors.New("invalid token")

	ErrNotFound = errors.New("not found")

	ErrInvalidAmount = errors.New("amount must be greater than zero")
	ErrInvalidDate   = errors.New("invalid date")

	ErrPastDueDate       = errors.New("due date must be in the future")
	ErrDuplicateReminder = errors.New("an identical reminder already exists for the new due date")

	ErrAllocationExists   = errors.New("allocation already exists")
	ErrAllocationMismatch = errors.New("allocation not found or not matched with this transaction")
	ErrDuplicateTx        = errors.New("transaction already exists")
	ErrBudgetExceeded     = errors.New("insufficient budget for this transaction")
)
