package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/shopcart/internal/shop/denylist"
	"github.com/aussiebroadwan/shopcart/internal/shop/domain"
	"github.com/aussiebroadwan/shopcart/internal/shop/store/drivers/sqlite"
	"github.com/aussiebroadwan/shopcart/pkg/cryptox"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

// clock is a settable time source shared by the token authority and denylist.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	store  *sqlite.Store
	clock  *clock
	creds  *CredentialService
	tokens *TokenAuthority
	cart   *CartService
	deny   *denylist.Memory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	hasher, err := cryptox.NewHasher(bcrypt.MinCost, 2)
	require.NoError(t, err)

	clk := newClock()
	deny := denylist.NewMemory().WithClock(clk.Now)
	creds := &CredentialService{Store: st, Hasher: hasher, Now: clk.Now}

	tokens, err := NewTokenAuthority(TokenConfig{
		Secret: testSecret,
		Issuer: "shop-test",
		Now:    clk.Now,
	}, creds, deny, nil)
	require.NoError(t, err)

	return &fixture{
		store:  st,
		clock:  clk,
		creds:  creds,
		tokens: tokens,
		cart:   &CartService{Store: st, Now: clk.Now},
		deny:   deny,
	}
}

func (f *fixture) register(t *testing.T, username, password string) domain.Identity {
	t.Helper()
	ident, err := f.creds.Create(context.Background(), RegisterInput{Username: username, Password: password})
	require.NoError(t, err)
	return ident
}

func (f *fixture) product(t *testing.T, name string, stock int) domain.Product {
	t.Helper()
	p, err := f.store.Products().CreateProduct(context.Background(), domain.Product{Name: name, Price: 9.5, Stock: stock})
	require.NoError(t, err)
	return p
}
