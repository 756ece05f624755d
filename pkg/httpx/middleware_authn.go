package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/shopcart/pkg/slogx"
)

const (
	DetailNotAuthenticated   = "Not authenticated"
	DetailInvalidCredentials = "Invalid credentials"
	DetailUnavailable        = "Service unavailable"
	DetailInternal           = "Internal server error"
)

// ErrUnavailable is returned by an Authenticator when it could not reach a
// backing dependency. The request is answered with 503 rather than 401 so a
// client does not discard a token that may still be valid.
var ErrUnavailable = errors.New("httpx: authenticator unavailable")

// Authenticator resolves a raw bearer token to the caller it belongs to.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (Principal, error)
}

// AuthenticatorFunc adapts a function to Authenticator.
type AuthenticatorFunc func(ctx context.Context, token string) (Principal, error)

func (f AuthenticatorFunc) Authenticate(ctx context.Context, token string) (Principal, error) {
	return f(ctx, token)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func BearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(authz, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

// AuthnMiddleware rejects requests without a valid bearer token and puts the
// resolved Principal into the request context for downstream handlers.
func AuthnMiddleware(a Authenticator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw, ok := BearerToken(r)
			if !ok {
				WriteUnauthorized(w, DetailNotAuthenticated)
				return
			}

			p, err := a.Authenticate(ctx, raw)
			switch {
			case err == nil:
			case errors.Is(err, ErrUnavailable):
				log.Error("authenticate: dependency unavailable", "err", err)
				WriteDetail(w, http.StatusServiceUnavailable, DetailUnavailable)
				return
			case errors.Is(err, context.Canceled):
				return
			default:
				log.Debug("authenticate: rejected", "err", err)
				WriteUnauthorized(w, DetailInvalidCredentials)
				return
			}

			ctx = WithPrincipal(ctx, p)
			ctx = slogx.With(ctx, "user_id", p.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
