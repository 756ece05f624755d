package http

import (
	"net/http"

	"github.com/aussiebroadwan/shopcart/internal/shop/service"
	"github.com/aussiebroadwan/shopcart/pkg/httpx"
)

// LogoutHandler serves POST /logout. The token that authenticated the
// request is denylisted until it would have expired.
type LogoutHandler struct {
	TokenAuthority *service.TokenAuthority
}

// ServeHTTP godoc
//
//	@Summary		Log out
//	@Description	Revokes the bearer token used for this request. Other tokens of the same user stay valid.
//	@Tags			Auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	shopsdk.MessageResponse	"Token revoked"
//	@Failure		401	{object}	shopsdk.ErrorResponse	"Not authenticated / Invalid credentials"
//	@Failure		503	{object}	shopsdk.ErrorResponse	"denylist unavailable"
//	@Router			/logout [post].
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, ok := httpx.BearerToken(r)
	if !ok {
		httpx.WriteUnauthorized(w, httpx.DetailNotAuthenticated)
		return
	}

	if err := h.TokenAuthority.Revoke(r.Context(), raw); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteMessage(w, messageTokenRevoked)
}
