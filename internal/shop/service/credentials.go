package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/shopcart/internal/shop/domain"
	"github.com/aussiebroadwan/shopcart/internal/shop/store"
	"github.com/aussiebroadwan/shopcart/pkg/cryptox"
	"github.com/aussiebroadwan/shopcart/pkg/idx"
	"github.com/aussiebroadwan/shopcart/pkg/slogx"
)

// RegisterInput is the body of a registration request.
type RegisterInput struct {
	Username string `json:"username" validate:"required,max=50,printascii"`
	Password string `json:"password" validate:"required,max=72"`
}

// PasswordInput is a replacement password set by an operator.
type PasswordInput struct {
	Password string `json:"password" validate:"required,max=72"`
}

// CredentialService owns username/password records. It never reveals
// whether a username exists.
type CredentialService struct {
	Store   store.Store
	Hasher  *cryptox.Hasher
	Metrics *Metrics
	Now     func() time.Time
}

func (s *CredentialService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Verify reports whether plaintext is the password of username. An unknown
// username and a wrong password are both (false, nil) and cost the same
// bcrypt work. Only storage failures return an error.
func (s *CredentialService) Verify(ctx context.Context, username, plaintext string) (bool, error) {
	log := slogx.FromContext(ctx).With("username", username)
	log.Info("login attempt")

	if username == "" || plaintext == "" {
		s.Metrics.login(OutcomeFailure)
		log.Info("login failed")
		return false, nil
	}

	user, err := s.findUser(ctx, username)
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.Hasher.Burn(ctx, plaintext)
		s.Metrics.login(OutcomeFailure)
		log.Info("login failed")
		return false, nil
	case err != nil:
		s.Metrics.login(OutcomeUnavailable)
		return false, fmt.Errorf("lookup user: %w", asUnavailable(err))
	}

	if err := s.Hasher.Verify(ctx, plaintext, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrMismatch) {
			s.Metrics.login(OutcomeFailure)
			log.Info("login failed")
			return false, nil
		}
		// Context ended while queued for a hashing slot.
		return false, err
	}

	s.Metrics.login(OutcomeSuccess)
	log.Info("login succeeded")
	return true, nil
}

// Create registers username with plaintext. The pre-check gives the common
// duplicate case a cheap answer; the unique index settles concurrent races.
func (s *CredentialService) Create(ctx context.Context, in RegisterInput) (domain.Identity, error) {
	log := slogx.FromContext(ctx).With("username", in.Username)
	log.Info("register attempt")

	if err := Validate(in); err != nil {
		s.Metrics.registration(OutcomeFailure)
		return domain.Identity{}, err
	}

	_, err := s.Store.Users().GetUserByUsername(ctx, in.Username)
	switch {
	case err == nil:
		s.Metrics.registration(OutcomeFailure)
		return domain.Identity{}, ErrAlreadyExists
	case !errors.Is(err, store.ErrNotFound):
		s.Metrics.registration(OutcomeUnavailable)
		return domain.Identity{}, fmt.Errorf("lookup user: %w", asUnavailable(err))
	}

	hash, err := s.Hasher.Hash(ctx, in.Password)
	if err != nil {
		if errors.Is(err, cryptox.ErrPasswordTooLong) {
			// The tag counts runes; bcrypt counts bytes.
			s.Metrics.registration(OutcomeFailure)
			return domain.Identity{}, &ValidationError{Fields: map[string]string{
				"password": fmt.Sprintf("must be at most %d bytes", cryptox.MaxPasswordLength),
			}}
		}
		return domain.Identity{}, fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		ID:           idx.New().String(),
		Username:     in.Username,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			s.Metrics.registration(OutcomeFailure)
			return domain.Identity{}, ErrAlreadyExists
		}
		s.Metrics.registration(OutcomeUnavailable)
		return domain.Identity{}, fmt.Errorf("create user: %w", asUnavailable(err))
	}

	s.Metrics.registration(OutcomeSuccess)
	log.Info("user registered", "user_id", user.ID)
	return user.Identity(), nil
}

// Lookup resolves a username to its identity. A miss is store.ErrNotFound.
func (s *CredentialService) Lookup(ctx context.Context, username string) (domain.Identity, error) {
	user, err := s.findUser(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Identity{}, err
		}
		return domain.Identity{}, asUnavailable(err)
	}
	return user.Identity(), nil
}

// Resolve finds an account by username or by the user id printed when it
// was created. A miss is store.ErrNotFound.
func (s *CredentialService) Resolve(ctx context.Context, ref string) (domain.User, error) {
	if _, err := idx.Parse(ref); err == nil {
		user, err := s.Store.Users().GetUserByID(ctx, ref)
		switch {
		case err == nil:
			return user, nil
		case !errors.Is(err, store.ErrNotFound):
			return domain.User{}, asUnavailable(err)
		}
		// Usernames may look like ids too.
	}

	user, err := s.findUser(ctx, ref)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, asUnavailable(err)
	}
	return user, err
}

// SetPassword replaces the password of the account ref names. Tokens
// already issued stay valid until they expire.
func (s *CredentialService) SetPassword(ctx context.Context, ref, plaintext string) (domain.Identity, error) {
	if err := Validate(PasswordInput{Password: plaintext}); err != nil {
		return domain.Identity{}, err
	}

	user, err := s.Resolve(ctx, ref)
	if err != nil {
		return domain.Identity{}, err
	}

	hash, err := s.Hasher.Hash(ctx, plaintext)
	if err != nil {
		if errors.Is(err, cryptox.ErrPasswordTooLong) {
			return domain.Identity{}, &ValidationError{Fields: map[string]string{
				"password": fmt.Sprintf("must be at most %d bytes", cryptox.MaxPasswordLength),
			}}
		}
		return domain.Identity{}, fmt.Errorf("hash password: %w", err)
	}

	if err := s.Store.Users().UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Identity{}, err
		}
		return domain.Identity{}, fmt.Errorf("update password: %w", asUnavailable(err))
	}

	slogx.FromContext(ctx).Info("password changed", "username", user.Username, "user_id", user.ID)
	return user.Identity(), nil
}

// Delete removes the account ref names along with its cart. Outstanding
// tokens for it fail verification from then on.
func (s *CredentialService) Delete(ctx context.Context, ref string) (domain.Identity, error) {
	user, err := s.Resolve(ctx, ref)
	if err != nil {
		return domain.Identity{}, err
	}

	if err := s.Store.Users().DeleteUser(ctx, user.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Identity{}, err
		}
		return domain.Identity{}, fmt.Errorf("delete user: %w", asUnavailable(err))
	}

	slogx.FromContext(ctx).Info("user deleted", "username", user.Username, "user_id", user.ID)
	return user.Identity(), nil
}

// findUser is GetUserByUsername with names that can never have been
// registered answered as a miss. Some drivers reject invalid UTF-8
// parameters outright, which would otherwise read as an outage.
func (s *CredentialService) findUser(ctx context.Context, username string) (domain.User, error) {
	if !utf8.ValidString(username) {
		return domain.User{}, store.ErrNotFound
	}
	return s.Store.Users().GetUserByUsername(ctx, username)
}

// asUnavailable tags an unexpected storage error as transient. The core does
// not retry; the caller answers 503.
func asUnavailable(err error) error {
	if errors.Is(err, store.ErrUnavailable) || errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %w", store.ErrUnavailable, err)
}
