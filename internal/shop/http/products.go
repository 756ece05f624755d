package http

import (
	"net/http"

	"github.com/aussiebroadwan/shopcart/internal/shop/service"
	"github.com/aussiebroadwan/shopcart/pkg/httpx"
	"github.com/aussiebroadwan/shopcart/pkg/shopsdk"
)

type ProductsHandler struct {
	ProductService *service.ProductService
}

// ServeHTTP godoc
//
//	@Summary		List products
//	@Description	Returns every product with its price and remaining stock.
//	@Tags			Products
//	@Produce		json
//	@Success		200	{array}		shopsdk.Product
//	@Failure		503	{object}	shopsdk.ErrorResponse	"store unavailable"
//	@Router			/products [get].
func (h *ProductsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	products, err := h.ProductService.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]shopsdk.Product, 0, len(products))
	for _, p := range products {
		out = append(out, shopsdk.Product{ID: p.ID, Name: p.Name, Price: p.Price, Stock: p.Stock})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
