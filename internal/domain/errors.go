package domain

import "errors"

// Domain errors raised by account and ledger operations. Validation errors are
// raised before any state mutation, so a failed operation always leaves every
// account unchanged. Callers should match with errors.Is.
var (
	// ErrInvalidArgument is returned when an account is created with an
	// empty or blank identifier.
	ErrInvalidArgument = errors.New("account id required")

	// ErrDuplicateAccount is returned when creating an id that already exists.
	ErrDuplicateAccount = errors.New("account already exists")

	// ErrAccountNotFound is returned when an operation references a
	// nonexistent account.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAuthenticationFailed is returned for both an unknown account and a
	// wrong credential; the two cases are deliberately indistinguishable.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrInvalidAmount is returned when a deposit or withdrawal amount is
	// zero or negative.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInsufficientFunds is returned when a withdrawal or transfer exceeds
	// the source balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrSameAccountTransfer is returned when a transfer names the same
	// account on both sides.
	ErrSameAccountTransfer = errors.New("cannot transfer to same account")
)
