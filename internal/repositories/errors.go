package repositories

import "errors"

// Sentinel errors surfaced by the data layer. Handlers match them with
// errors.Is to pick a response status; anything else is a storage failure.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrCartMissing        = errors.New("cart not found")
	ErrCartEmpty          = errors.New("cart is empty")
	ErrProductUnavailable = errors.New("product no longer available")
)
