package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aussiebroadwan/shopcart/internal/shop/domain"
	"github.com/aussiebroadwan/shopcart/internal/shop/store"
	"github.com/aussiebroadwan/shopcart/internal/shop/store/drivers/sqlite"
	"github.com/aussiebroadwan/shopcart/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())
	return st
}

func newUser(t *testing.T, st store.Store, username string) domain.User {
	t.Helper()
	u := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		PasswordHash: "$2a$04$placeholder",
		CreatedAt:    time.Now(),
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	st := newStore(t)
	require.NoError(t, st.ApplyMigrations())
	require.NoError(t, st.Ping(context.Background()))
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	alice := newUser(t, st, "alice")

	t.Run("lookup by username is exact", func(t *testing.T) {
		got, err := st.Users().GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, alice.ID, got.ID)
		require.Equal(t, alice.PasswordHash, got.PasswordHash)

		_, err = st.Users().GetUserByUsername(ctx, "Alice")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("lookup by id", func(t *testing.T) {
		got, err := st.Users().GetUserByID(ctx, alice.ID)
		require.NoError(t, err)
		require.Equal(t, "alice", got.Username)

		_, err = st.Users().GetUserByID(ctx, idx.New().String())
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("duplicate username", func(t *testing.T) {
		err := st.Users().CreateUser(ctx, domain.User{
			ID:           idx.New().String(),
			Username:     "alice",
			PasswordHash: "x",
			CreatedAt:    time.Now(),
		})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("update password hash", func(t *testing.T) {
		require.NoError(t, st.Users().UpdatePasswordHash(ctx, alice.ID, "$2a$04$rotated"))
		got, err := st.Users().GetUserByID(ctx, alice.ID)
		require.NoError(t, err)
		require.Equal(t, "$2a$04$rotated", got.PasswordHash)

		err = st.Users().UpdatePasswordHash(ctx, "missing", "x")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestProducts(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	list, err := st.Products().ListProducts(ctx)
	require.NoError(t, err)
	require.Empty(t, list)

	kb, err := st.Products().CreateProduct(ctx, domain.Product{Name: "Keyboard", Price: 49.5, Stock: 10})
	require.NoError(t, err)
	require.NotZero(t, kb.ID)

	_, err = st.Products().CreateProduct(ctx, domain.Product{Name: "Mouse", Price: 19.99, Stock: 3})
	require.NoError(t, err)

	got, err := st.Products().GetProduct(ctx, kb.ID)
	require.NoError(t, err)
	require.Equal(t, kb, got)

	list, err = st.Products().ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "Keyboard", list[0].Name)

	_, err = st.Products().GetProduct(ctx, 9999)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCartItems(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	alice := newUser(t, st, "alice")
	bob := newUser(t, st, "bob")
	p, err := st.Products().CreateProduct(ctx, domain.Product{Name: "Keyboard", Price: 49.5, Stock: 10})
	require.NoError(t, err)

	item, err := st.CartItems().CreateCartItem(ctx, domain.CartItem{
		UserID: alice.ID, ProductID: p.ID, Quantity: 2, CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	require.NotZero(t, item.ID)

	t.Run("owner can read", func(t *testing.T) {
		got, err := st.CartItems().GetCartItem(ctx, alice.ID, item.ID)
		require.NoError(t, err)
		require.Equal(t, 2, got.Quantity)
	})

	t.Run("other users cannot see it", func(t *testing.T) {
		_, err := st.CartItems().GetCartItem(ctx, bob.ID, item.ID)
		require.ErrorIs(t, err, store.ErrNotFound)

		list, err := st.CartItems().ListCartItems(ctx, bob.ID)
		require.NoError(t, err)
		require.Empty(t, list)

		require.ErrorIs(t, st.CartItems().UpdateCartItemQuantity(ctx, bob.ID, item.ID, 1), store.ErrNotFound)
		require.ErrorIs(t, st.CartItems().DeleteCartItem(ctx, bob.ID, item.ID), store.ErrNotFound)
	})

	t.Run("update then delete", func(t *testing.T) {
		require.NoError(t, st.CartItems().UpdateCartItemQuantity(ctx, alice.ID, item.ID, 5))

		list, err := st.CartItems().ListCartItems(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, 5, list[0].Quantity)

		require.NoError(t, st.CartItems().DeleteCartItem(ctx, alice.ID, item.ID))
		require.ErrorIs(t, st.CartItems().DeleteCartItem(ctx, alice.ID, item.ID), store.ErrNotFound)
	})

	t.Run("deleting a user drops their cart", func(t *testing.T) {
		_, err := st.CartItems().CreateCartItem(ctx, domain.CartItem{
			UserID: bob.ID, ProductID: p.ID, Quantity: 1, CreatedAt: time.Now(),
		})
		require.NoError(t, err)

		require.NoError(t, st.Users().DeleteUser(ctx, bob.ID))
		list, err := st.CartItems().ListCartItems(ctx, bob.ID)
		require.NoError(t, err)
		require.Empty(t, list)
	})
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	errBoom := errors.New("boom")
	err := st.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Products().CreateProduct(ctx, domain.Product{Name: "Ghost", Price: 1, Stock: 1})
		require.NoError(t, err)
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	list, err := st.Products().ListProducts(ctx)
	require.NoError(t, err)
	require.Empty(t, list, "rolled back insert must not be visible")

	require.NoError(t, st.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Products().CreateProduct(ctx, domain.Product{Name: "Real", Price: 1, Stock: 1})
		return err
	}))

	list, err = st.Products().ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestClosedStoreIsUnavailable(t *testing.T) {
	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	require.NoError(t, st.Close())

	_, err = st.Users().GetUserByUsername(context.Background(), "alice")
	require.ErrorIs(t, err, store.ErrUnavailable)
}
