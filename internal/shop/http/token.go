package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/shopcart/internal/shop/domain"
	"github.com/aussiebroadwan/shopcart/internal/shop/service"
	"github.com/aussiebroadwan/shopcart/pkg/httpx"
	"github.com/aussiebroadwan/shopcart/pkg/shopsdk"
	"github.com/aussiebroadwan/shopcart/pkg/slogx"
)

// TokenHandler serves POST /token. Unknown usernames and wrong passwords
// produce byte-identical responses.
type TokenHandler struct {
	CredentialService *service.CredentialService
	TokenAuthority    *service.TokenAuthority
}

// ServeHTTP godoc
//
//	@Summary		Log in
//	@Description	Exchanges a username and password for a bearer access token valid for 30 minutes.
//	@Description	An unknown username and a wrong password return the same 401 response.
//	@Tags			Auth
//	@Accept			application/x-www-form-urlencoded
//	@Produce		json
//	@Param			username	formData	string					true	"Username"
//	@Param			password	formData	string					true	"Password"
//	@Success		200			{object}	shopsdk.TokenResponse	"access_token, token_type"
//	@Failure		401			{object}	shopsdk.ErrorResponse	"Incorrect username or password"
//	@Failure		422			{object}	shopsdk.ErrorResponse	"missing form fields"
//	@Failure		429			{object}	shopsdk.ErrorResponse	"rate limit exceeded"
//	@Failure		503			{object}	shopsdk.ErrorResponse	"store unavailable"
//	@Header			200			{string}	Cache-Control			"no-store"
//	@Header			401			{string}	WWW-Authenticate		"Bearer"
//	@Router			/token [post].
func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/x-www-form-urlencoded") &&
		!strings.HasPrefix(ct, "multipart/form-data") {
		httpx.WriteDetail(w, http.StatusUnprocessableEntity, detailInvalidRequestBody)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseMultipartForm(maxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		httpx.WriteDetail(w, http.StatusUnprocessableEntity, detailInvalidRequestBody)
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		httpx.WriteDetail(w, http.StatusUnprocessableEntity, "username and password are required")
		return
	}

	ok, err := h.CredentialService.Verify(ctx, username, password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !ok {
		httpx.WriteUnauthorized(w, detailIncorrectLogin)
		return
	}

	tok, err := h.TokenAuthority.Issue(username)
	if err != nil {
		log.Error("issue token failed", "err", err)
		httpx.WriteDetail(w, http.StatusInternalServerError, httpx.DetailInternal)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, shopsdk.TokenResponse{
		AccessToken: tok.Token,
		TokenType:   domain.TokenTypeBearer,
	})
}
