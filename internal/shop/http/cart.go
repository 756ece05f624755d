package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/shopcart/internal/shop/domain"
	"github.com/aussiebroadwan/shopcart/internal/shop/service"
	"github.com/aussiebroadwan/shopcart/pkg/httpx"
	"github.com/aussiebroadwan/shopcart/pkg/shopsdk"
)

// CartHandler serves the /cart routes. Every route runs behind
// AuthnMiddleware, so a principal is always present.
type CartHandler struct {
	CartService *service.CartService
}

// HandleAdd godoc
//
//	@Summary		Add to cart
//	@Description	Adds a product to the caller's cart. The product must exist and have at least the requested stock.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		shopsdk.CartItemRequest	true	"Product and quantity"
//	@Success		200		{object}	shopsdk.CartItem
//	@Failure		400		{object}	shopsdk.ErrorResponse	"Insufficient stock"
//	@Failure		401		{object}	shopsdk.ErrorResponse	"Not authenticated / Invalid credentials"
//	@Failure		404		{object}	shopsdk.ErrorResponse	"Product not found"
//	@Failure		422		{object}	shopsdk.ErrorResponse	"validation failed"
//	@Failure		429		{object}	shopsdk.ErrorResponse	"rate limit exceeded"
//	@Router			/cart [post].
func (h *CartHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	p, _ := httpx.PrincipalFromContext(r.Context())

	var req shopsdk.CartItemRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	item, err := h.CartService.Add(r.Context(), p.UserID, service.CartItemInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	switch {
	case err == nil:
		httpx.WriteJSON(w, http.StatusOK, toCartItem(item))
	case errors.Is(err, service.ErrProductNotFound):
		httpx.WriteDetail(w, http.StatusNotFound, detailProductNotFound)
	case errors.Is(err, service.ErrInsufficientStock):
		httpx.WriteDetail(w, http.StatusBadRequest, detailInsufficientStock)
	default:
		writeError(w, r, err)
	}
}

// HandleList godoc
//
//	@Summary		View cart
//	@Tags			Cart
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		shopsdk.CartItem
//	@Failure		401	{object}	shopsdk.ErrorResponse	"Not authenticated / Invalid credentials"
//	@Router			/cart [get].
func (h *CartHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	p, _ := httpx.PrincipalFromContext(r.Context())

	items, err := h.CartService.List(r.Context(), p.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]shopsdk.CartItem, 0, len(items))
	for _, it := range items {
		out = append(out, toCartItem(it))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleRemove godoc
//
//	@Summary		Remove from cart
//	@Tags			Cart
//	@Produce		json
//	@Security		BearerAuth
//	@Param			item_id	path		int						true	"Cart item ID"
//	@Success		200		{object}	shopsdk.MessageResponse	"Item removed from cart"
//	@Failure		401		{object}	shopsdk.ErrorResponse	"Not authenticated / Invalid credentials"
//	@Failure		404		{object}	shopsdk.ErrorResponse	"Cart item not found"
//	@Router			/cart/{item_id} [delete].
func (h *CartHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	p, _ := httpx.PrincipalFromContext(r.Context())

	id, ok := itemID(w, r)
	if !ok {
		return
	}

	err := h.CartService.Remove(r.Context(), p.UserID, id)
	switch {
	case err == nil:
		httpx.WriteMessage(w, messageItemRemoved)
	case errors.Is(err, service.ErrCartItemNotFound):
		httpx.WriteDetail(w, http.StatusNotFound, detailCartItemNotFound)
	default:
		writeError(w, r, err)
	}
}

// HandleUpdate godoc
//
//	@Summary		Update cart item
//	@Description	Sets the quantity of one of the caller's cart items. product_id must be the item's product.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			item_id	path		int						true	"Cart item ID"
//	@Param			request	body		shopsdk.CartItemRequest	true	"Product and quantity"
//	@Success		200		{object}	shopsdk.CartItem
//	@Failure		400		{object}	shopsdk.ErrorResponse	"Invalid product or insufficient stock"
//	@Failure		401		{object}	shopsdk.ErrorResponse	"Not authenticated / Invalid credentials"
//	@Failure		404		{object}	shopsdk.ErrorResponse	"Cart item not found"
//	@Failure		422		{object}	shopsdk.ErrorResponse	"validation failed"
//	@Router			/cart/{item_id} [patch].
func (h *CartHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	p, _ := httpx.PrincipalFromContext(r.Context())

	id, ok := itemID(w, r)
	if !ok {
		return
	}

	var req shopsdk.CartItemRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	item, err := h.CartService.Update(r.Context(), p.UserID, id, service.CartItemInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	switch {
	case err == nil:
		httpx.WriteJSON(w, http.StatusOK, toCartItem(item))
	case errors.Is(err, service.ErrCartItemNotFound):
		httpx.WriteDetail(w, http.StatusNotFound, detailCartItemNotFound)
	case errors.Is(err, service.ErrProductNotFound), errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrProductMismatch):
		httpx.WriteDetail(w, http.StatusBadRequest, detailInvalidUpdate)
	default:
		writeError(w, r, err)
	}
}

func itemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("item_id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.WriteDetail(w, http.StatusUnprocessableEntity, detailInvalidItemID)
		return 0, false
	}
	return id, true
}

func toCartItem(it domain.CartItem) shopsdk.CartItem {
	return shopsdk.CartItem{
		ID:        it.ID,
		UserID:    it.UserID,
		ProductID: it.ProductID,
		Quantity:  it.Quantity,
	}
}
