package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/aussiebroadwan/shopcart/internal/shop/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialVerify(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice", "s3cret!")

	tests := []struct {
		name     string
		username string
		password string
		want     bool
	}{
		{"correct password", "alice", "s3cret!", true},
		{"wrong password", "alice", "wrongpass", false},
		{"unknown user", "bob", "x", false},
		{"username is case sensitive", "Alice", "s3cret!", false},
		{"empty password", "alice", "", false},
		{"empty username", "", "s3cret!", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := f.creds.Verify(ctx, tt.username, tt.password)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestCredentialCreate(t *testing.T) {
	t.Parallel()

	t.Run("duplicate username", func(t *testing.T) {
		f := newFixture(t)
		f.register(t, "alice", "s3cret!")

		_, err := f.creds.Create(context.Background(), RegisterInput{Username: "alice", Password: "other"})
		require.ErrorIs(t, err, ErrAlreadyExists)
	})

	t.Run("stores a hash, not the password", func(t *testing.T) {
		f := newFixture(t)
		ident := f.register(t, "alice", "s3cret!")
		require.NotEmpty(t, ident.UserID)

		u, err := f.store.Users().GetUserByUsername(context.Background(), "alice")
		require.NoError(t, err)
		assert.NotEqual(t, "s3cret!", u.PasswordHash)
		assert.True(t, strings.HasPrefix(u.PasswordHash, "$2"))
	})

	t.Run("invalid input", func(t *testing.T) {
		f := newFixture(t)
		for _, in := range []RegisterInput{
			{Username: "", Password: "x"},
			{Username: "alice", Password: ""},
			{Username: strings.Repeat("a", 51), Password: "x"},
			{Username: "alice", Password: strings.Repeat("p", 73)},
		} {
			_, err := f.creds.Create(context.Background(), in)
			require.ErrorIs(t, err, ErrInvalidInput)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.NotEmpty(t, verr.Fields)
		}
	})

	t.Run("concurrent registrations settle on one winner", func(t *testing.T) {
		f := newFixture(t)

		const n = 8
		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			created  int
			rejected int
		)
		for range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := f.creds.Create(context.Background(), RegisterInput{Username: "racer", Password: "pw"})
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					created++
				case assert.ErrorIs(t, err, ErrAlreadyExists):
					rejected++
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, created)
		assert.Equal(t, n-1, rejected)
	})
}

func TestCredentialLookup(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	want := f.register(t, "alice", "s3cret!")

	got, err := f.creds.Lookup(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = f.creds.Lookup(context.Background(), "bob")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCredentialResolve(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice", "s3cret!")
	// A username that is also a well-formed id.
	odd := f.register(t, "01ARZ3NDEKTSV4RRFFQ69G5FAV", "s3cret!")

	tests := []struct {
		ref  string
		want string
	}{
		{ref: "alice", want: alice.UserID},
		{ref: alice.UserID, want: alice.UserID},
		{ref: "01ARZ3NDEKTSV4RRFFQ69G5FAV", want: odd.UserID},
	}
	for _, tc := range tests {
		user, err := f.creds.Resolve(ctx, tc.ref)
		require.NoError(t, err, tc.ref)
		assert.Equal(t, tc.want, user.ID, tc.ref)
	}

	_, err := f.creds.Resolve(ctx, "bob")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCredentialSetPassword(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice", "s3cret!")

	ident, err := f.creds.SetPassword(ctx, alice.UserID, "rotated!")
	require.NoError(t, err)
	assert.Equal(t, alice, ident)

	ok, err := f.creds.Verify(ctx, "alice", "s3cret!")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.creds.Verify(ctx, "alice", "rotated!")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = f.creds.SetPassword(ctx, "alice", "")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.creds.SetPassword(ctx, "bob", "whatever")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCredentialDelete(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice", "s3cret!")
	p := f.product(t, "widget", 5)
	_, err := f.cart.Add(ctx, alice.UserID, CartItemInput{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = f.creds.Delete(ctx, "alice")
	require.NoError(t, err)

	ok, err := f.creds.Verify(ctx, "alice", "s3cret!")
	require.NoError(t, err)
	assert.False(t, ok)

	items, err := f.cart.List(ctx, alice.UserID)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = f.creds.Delete(ctx, "alice")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCredentialStoreUnavailable(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	require.NoError(t, f.store.Close())

	_, err := f.creds.Verify(context.Background(), "alice", "s3cret!")
	require.ErrorIs(t, err, store.ErrUnavailable)

	_, err = f.creds.Create(context.Background(), RegisterInput{Username: "alice", Password: "s3cret!"})
	require.ErrorIs(t, err, store.ErrUnavailable)
}

func TestCredentialInvalidUTF8Username(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	// A closed store fails every query, so a miss here means no query ran.
	require.NoError(t, f.store.Close())

	ok, err := f.creds.Verify(context.Background(), "\xff", "s3cret!")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.creds.Lookup(context.Background(), "al\xffice")
	require.ErrorIs(t, err, store.ErrNotFound)
	assert.NotErrorIs(t, err, store.ErrUnavailable)
}

func TestCredentialCreateMultibytePassword(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	// 40 runes, 80 bytes.
	_, err := f.creds.Create(context.Background(), RegisterInput{Username: "alice", Password: strings.Repeat("é", 40)})
	require.ErrorIs(t, err, ErrInvalidInput)
}
