package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/shopcart/internal/shop/denylist"
	"github.com/aussiebroadwan/shopcart/internal/shop/domain"
	"github.com/aussiebroadwan/shopcart/internal/shop/store"
	"github.com/aussiebroadwan/shopcart/pkg/cryptox"
	"github.com/aussiebroadwan/shopcart/pkg/jwtx"
	"github.com/aussiebroadwan/shopcart/pkg/slogx"
)

// IdentityResolver confirms a token subject still has an account.
type IdentityResolver interface {
	Lookup(ctx context.Context, username string) (domain.Identity, error)
}

// TokenConfig is built once at startup from the process configuration.
type TokenConfig struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
	Leeway time.Duration
	Now    func() time.Time
}

// TokenAuthority issues and verifies HS256 access tokens.
type TokenAuthority struct {
	signer   jwtx.Signer
	verifier jwtx.Verifier
	users    IdentityResolver
	denylist denylist.Denylist
	metrics  *Metrics

	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenAuthority validates cfg and wires the signer and verifier. A nil
// denylist falls back to a process-local one.
func NewTokenAuthority(cfg TokenConfig, users IdentityResolver, dl denylist.Denylist, m *Metrics) (*TokenAuthority, error) {
	if cfg.TTL <= 0 {
		cfg.TTL = jwtx.DefaultAccessTokenTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if dl == nil {
		dl = denylist.NewMemory()
	}

	signer, err := jwtx.NewSignerHS256(cfg.Secret)
	if err != nil {
		return nil, err
	}
	verifier, err := jwtx.NewVerifierHS256(cfg.Secret, jwtx.VerifyOptions{
		Issuer: cfg.Issuer,
		Leeway: cfg.Leeway,
		Now:    cfg.Now,
	})
	if err != nil {
		return nil, err
	}

	return &TokenAuthority{
		signer:   signer,
		verifier: verifier,
		users:    users,
		denylist: dl,
		metrics:  m,
		issuer:   cfg.Issuer,
		ttl:      cfg.TTL,
		now:      cfg.Now,
	}, nil
}

// TTL reports the fixed access-token lifetime.
func (a *TokenAuthority) TTL() time.Duration { return a.ttl }

// Issue mints a token for an already verified subject. It performs no
// credential checks of its own.
func (a *TokenAuthority) Issue(subject string) (domain.AccessToken, error) {
	now := a.now()
	claims := jwtx.NewAccessClaims(subject, a.issuer, a.ttl, now)

	raw, err := a.signer.Sign(claims)
	if err != nil {
		return domain.AccessToken{}, fmt.Errorf("sign access token: %w", err)
	}

	return domain.AccessToken{
		Token:     raw,
		TokenID:   claims.ID,
		Subject:   subject,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Verify checks signature, algorithm, issuer and expiry, then the denylist,
// then that the subject still exists. Every rejection is
// ErrInvalidCredentials; only an unreachable backend returns something else.
func (a *TokenAuthority) Verify(ctx context.Context, token string) (domain.Identity, error) {
	claims, err := a.parse(ctx, token)
	if err != nil {
		a.metrics.verification(OutcomeFailure)
		return domain.Identity{}, err
	}

	revoked, err := a.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		a.metrics.verification(OutcomeUnavailable)
		return domain.Identity{}, err
	}
	if revoked {
		a.metrics.verification(OutcomeRevoked)
		return domain.Identity{}, ErrInvalidCredentials
	}

	ident, err := a.users.Lookup(ctx, claims.Subject)
	switch {
	case errors.Is(err, store.ErrNotFound):
		a.metrics.verification(OutcomeFailure)
		return domain.Identity{}, ErrInvalidCredentials
	case err != nil:
		a.metrics.verification(OutcomeUnavailable)
		return domain.Identity{}, err
	}

	a.metrics.verification(OutcomeSuccess)
	return ident, nil
}

// Revoke denylists a still-valid token for the rest of its lifetime.
func (a *TokenAuthority) Revoke(ctx context.Context, token string) error {
	claims, err := a.parse(ctx, token)
	if err != nil {
		return err
	}
	if err := a.denylist.Revoke(ctx, claims.ID, claims.Remaining(a.now())); err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("token revoked", "subject", claims.Subject, "jti", claims.ID)
	return nil
}

func (a *TokenAuthority) parse(ctx context.Context, token string) (jwtx.Claims, error) {
	claims, err := a.verifier.Verify(token)
	if err != nil {
		// Log a fingerprint, never the token.
		slogx.FromContext(ctx).Debug("token rejected", "reason", err, "token_fp", cryptox.Fingerprint(token))
		return jwtx.Claims{}, ErrInvalidCredentials
	}
	if claims.ID == "" {
		return jwtx.Claims{}, ErrInvalidCredentials
	}
	return claims, nil
}
