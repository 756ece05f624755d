package service

import "errors"

var (
	// ErrInvalidCredentials covers every reason a token or password is
	// rejected. Callers must not be able to tell the reasons apart.
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrAlreadyExists      = errors.New("already_exists")
	ErrInvalidInput       = errors.New("invalid_input")

	ErrProductNotFound   = errors.New("product_not_found")
	ErrInsufficientStock = errors.New("insufficient_stock")
	ErrCartItemNotFound  = errors.New("cart_item_not_found")
	ErrProductMismatch   = errors.New("product_mismatch")
)
