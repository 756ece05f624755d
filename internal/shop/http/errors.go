package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/shopcart/internal/shop/service"
	"github.com/aussiebroadwan/shopcart/internal/shop/store"
	"github.com/aussiebroadwan/shopcart/pkg/httpx"
	"github.com/aussiebroadwan/shopcart/pkg/slogx"
)

// Response details. Clients match on these strings, keep them stable.
const (
	detailIncorrectLogin     = "Incorrect username or password"
	detailUsernameTaken      = "Username already exists"
	detailProductNotFound    = "Product not found"
	detailInsufficientStock  = "Insufficient stock"
	detailCartItemNotFound   = "Cart item not found"
	detailInvalidUpdate      = "Invalid product or insufficient stock"
	detailInvalidRequestBody = "Invalid request body"
	detailInvalidItemID      = "Invalid item id"

	messageUserCreated  = "User created successfully"
	messageItemRemoved  = "Item removed from cart"
	messageTokenRevoked = "Token revoked"
)

// maxBodyBytes bounds JSON and form request bodies.
const maxBodyBytes = 1 << 20

// writeError answers the errors every handler shares: validation, token
// rejection, unavailability and anything unexpected. Handler specific sentinels are
// matched by the caller first.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := slogx.FromContext(r.Context())

	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		httpx.WriteDetail(w, http.StatusUnprocessableEntity, verr.Error())
	case errors.Is(err, service.ErrInvalidInput):
		httpx.WriteDetail(w, http.StatusUnprocessableEntity, detailInvalidRequestBody)
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteUnauthorized(w, httpx.DetailInvalidCredentials)
	case errors.Is(err, store.ErrUnavailable):
		log.Error("store unavailable", "err", err)
		httpx.WriteDetail(w, http.StatusServiceUnavailable, httpx.DetailUnavailable)
	case errors.Is(err, context.Canceled):
		// Client went away; nobody is listening for a response.
	default:
		log.Error("unhandled error", "err", err)
		httpx.WriteDetail(w, http.StatusInternalServerError, httpx.DetailInternal)
	}
}
