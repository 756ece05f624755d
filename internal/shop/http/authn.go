package http

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/shopcart/internal/shop/service"
	"github.com/aussiebroadwan/shopcart/internal/shop/store"
	"github.com/aussiebroadwan/shopcart/pkg/httpx"
)

// tokenAuthenticator lets httpx.AuthnMiddleware resolve bearer tokens
// through the TokenAuthority.
type tokenAuthenticator struct {
	tokens *service.TokenAuthority
}

func (a tokenAuthenticator) Authenticate(ctx context.Context, token string) (httpx.Principal, error) {
	ident, err := a.tokens.Verify(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrUnavailable) {
			return httpx.Principal{}, fmt.Errorf("%w: %w", httpx.ErrUnavailable, err)
		}
		return httpx.Principal{}, err
	}
	return httpx.Principal{UserID: ident.UserID, Username: ident.Username}, nil
}
