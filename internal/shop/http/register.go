package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/shopcart/internal/shop/service"
	"github.com/aussiebroadwan/shopcart/pkg/httpx"
	"github.com/aussiebroadwan/shopcart/pkg/shopsdk"
)

type RegisterHandler struct {
	CredentialService *service.CredentialService
}

// ServeHTTP godoc
//
//	@Summary		Register an account
//	@Description	Creates a username/password account. Usernames are case sensitive and unique.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		shopsdk.RegisterRequest	true	"Credentials"
//	@Success		200		{object}	shopsdk.MessageResponse	"User created successfully"
//	@Failure		400		{object}	shopsdk.ErrorResponse	"Username already exists"
//	@Failure		422		{object}	shopsdk.ErrorResponse	"validation failed"
//	@Failure		429		{object}	shopsdk.ErrorResponse	"rate limit exceeded"
//	@Failure		503		{object}	shopsdk.ErrorResponse	"store unavailable"
//	@Router			/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req shopsdk.RegisterRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	_, err := h.CredentialService.Create(r.Context(), service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
	})
	switch {
	case err == nil:
		httpx.WriteMessage(w, messageUserCreated)
	case errors.Is(err, service.ErrAlreadyExists):
		httpx.WriteDetail(w, http.StatusBadRequest, detailUsernameTaken)
	default:
		writeError(w, r, err)
	}
}

// decodeJSONBody decodes a bounded JSON body into v, answering 422 itself
// when the body is malformed.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		httpx.WriteDetail(w, http.StatusUnprocessableEntity, detailInvalidRequestBody)
		return false
	}
	return true
}
