package cryptox

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// DefaultCost puts a single bcrypt verification in the low hundreds of
// milliseconds on current server hardware.
const DefaultCost = 12

// Accepted cost range, re-exported so callers need not import bcrypt.
const (
	MinCost = bcrypt.MinCost
	MaxCost = bcrypt.MaxCost
)

// MaxPasswordLength is the longest secret bcrypt will consume.
const MaxPasswordLength = 72

var (
	ErrMismatch        = errors.New("cryptox: password does not match")
	ErrPasswordTooLong = fmt.Errorf("cryptox: password exceeds %d bytes", MaxPasswordLength)
	ErrInvalidCost     = fmt.Errorf("cryptox: cost must be between %d and %d", MinCost, MaxCost)
)

// Hasher hashes and verifies passwords with bcrypt. The number of hashes in
// flight is capped so a burst of logins queues for a worker slot instead of
// pinning every core and starving request intake.
type Hasher struct {
	cost  int
	sem   *semaphore.Weighted
	dummy []byte
}

// NewHasher returns a Hasher using the given bcrypt cost and at most workers
// concurrent computations. workers <= 0 means one per CPU.
func NewHasher(cost, workers int) (*Hasher, error) {
	if cost < MinCost || cost > MaxCost {
		return nil, ErrInvalidCost
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	// Compared against when the user does not exist, so a miss costs the
	// same as a wrong password.
	dummy, err := bcrypt.GenerateFromPassword([]byte("shopcart-timing-equaliser"), cost)
	if err != nil {
		return nil, fmt.Errorf("cryptox: prepare dummy hash: %w", err)
	}

	return &Hasher{
		cost:  cost,
		sem:   semaphore.NewWeighted(int64(workers)),
		dummy: dummy,
	}, nil
}

// Cost reports the configured bcrypt cost.
func (h *Hasher) Cost() int { return h.cost }

// Hash returns the bcrypt encoding (salt and cost included) of password.
func (h *Hasher) Hash(ctx context.Context, password string) (string, error) {
	if len(password) > MaxPasswordLength {
		return "", ErrPasswordTooLong
	}
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.sem.Release(1)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("cryptox: hash password: %w", err)
	}
	return string(hash), nil
}

// Verify compares password against an encoded bcrypt hash. It returns nil on
// a match, ErrMismatch otherwise, or the context error if the caller gave up
// while waiting for a worker.
func (h *Hasher) Verify(ctx context.Context, password, encoded string) error {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer h.sem.Release(1)

	if err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password)); err != nil {
		return ErrMismatch
	}
	return nil
}

// Burn performs a verification that always fails, spending the same work as
// Verify on a real hash.
func (h *Hasher) Burn(ctx context.Context, password string) {
	_ = h.Verify(ctx, password, string(h.dummy))
}
