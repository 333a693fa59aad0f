package service

import "errors"

var (
	// ErrInvalidInput rejects a malformed request before the store is touched.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound means the operation targeted a line that is not in the cart.
	ErrNotFound = errors.New("line item not found")

	// ErrStorageUnavailable wraps a store fault. The core never retries;
	// retry policy belongs to the caller.
	ErrStorageUnavailable = errors.New("line item store unavailable")

	// ErrPartialCheckout means the clear-all step failed after starting.
	// The cart may be left partially cleared; there is no compensating
	// rollback, callers must be told rather than have it masked.
	ErrPartialCheckout = errors.New("checkout failed while clearing cart")
)
