package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aussiebroadwan/shopcart/internal/shop/domain"
	"github.com/aussiebroadwan/shopcart/internal/shop/store"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return &Store{pool: mock}, mock
}

func TestUsers_GetByUsername(t *testing.T) {
	st, mock := newMockStore(t)
	created := time.Now().UTC().Truncate(time.Microsecond)

	mock.ExpectQuery("SELECT .+ FROM users WHERE username =").
		WithArgs("alice").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "password_hash", "created_at"}).
			AddRow("u1", "alice", "$2a$12$hash", created))

	u, err := st.Users().GetUserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.User{ID: "u1", Username: "alice", PasswordHash: "$2a$12$hash", CreatedAt: created}, u)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsers_GetByUsername_NotFound(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery("SELECT .+ FROM users WHERE username =").
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	_, err := st.Users().GetUserByUsername(context.Background(), "ghost")
	require.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsers_Create(t *testing.T) {
	created := time.Now().UTC()
	u := domain.User{ID: "u1", Username: "alice", PasswordHash: "h", CreatedAt: created}

	t.Run("success", func(t *testing.T) {
		st, mock := newMockStore(t)
		mock.ExpectExec("INSERT INTO users").
			WithArgs(u.ID, u.Username, u.PasswordHash, u.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, st.Users().CreateUser(context.Background(), u))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation", func(t *testing.T) {
		st, mock := newMockStore(t)
		mock.ExpectExec("INSERT INTO users").
			WithArgs(u.ID, u.Username, u.PasswordHash, u.CreatedAt).
			WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

		err := st.Users().CreateUser(context.Background(), u)
		require.ErrorIs(t, err, store.ErrAlreadyExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("connection lost", func(t *testing.T) {
		st, mock := newMockStore(t)
		mock.ExpectExec("INSERT INTO users").
			WithArgs(u.ID, u.Username, u.PasswordHash, u.CreatedAt).
			WillReturnError(&pgconn.PgError{Code: "08006", Message: "connection failure"})

		err := st.Users().CreateUser(context.Background(), u)
		require.ErrorIs(t, err, store.ErrUnavailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMapErr(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"no rows", pgx.ErrNoRows, store.ErrNotFound},
		{"unique by code", &pgconn.PgError{Code: "23505"}, store.ErrAlreadyExists},
		{"unique by text", fmt.Errorf("ERROR: duplicate key (SQLSTATE 23505)"), store.ErrAlreadyExists},
		{"deadline", context.DeadlineExceeded, store.ErrUnavailable},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, store.ErrUnavailable},
		{"too many connections", &pgconn.PgError{Code: "53300"}, store.ErrUnavailable},
		{"closed pool", errors.New("closed pool"), store.ErrUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, mapErr(tt.in), tt.want)
		})
	}

	other := errors.New("syntax error")
	require.Equal(t, other, mapErr(other))
	require.NoError(t, mapErr(nil))
}

func TestProducts(t *testing.T) {
	ctx := context.Background()

	t.Run("list", func(t *testing.T) {
		st, mock := newMockStore(t)
		mock.ExpectQuery("SELECT id, name, price, stock FROM products ORDER BY id").
			WillReturnRows(pgxmock.NewRows([]string{"id", "name", "price", "stock"}).
				AddRow(int64(1), "Keyboard", 49.5, 10).
				AddRow(int64(2), "Mouse", 19.99, 3))

		list, err := st.Products().ListProducts(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, domain.Product{ID: 2, Name: "Mouse", Price: 19.99, Stock: 3}, list[1])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("list empty is not nil", func(t *testing.T) {
		st, mock := newMockStore(t)
		mock.ExpectQuery("SELECT id, name, price, stock FROM products").
			WillReturnRows(pgxmock.NewRows([]string{"id", "name", "price", "stock"}))

		list, err := st.Products().ListProducts(ctx)
		require.NoError(t, err)
		require.NotNil(t, list)
		require.Empty(t, list)
	})

	t.Run("create returns id", func(t *testing.T) {
		st, mock := newMockStore(t)
		mock.ExpectQuery("INSERT INTO products").
			WithArgs("Keyboard", 49.5, 10).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))

		p, err := st.Products().CreateProduct(ctx, domain.Product{Name: "Keyboard", Price: 49.5, Stock: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(7), p.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCartItems_OwnershipScopedWrites(t *testing.T) {
	ctx := context.Background()

	t.Run("delete someone else's item", func(t *testing.T) {
		st, mock := newMockStore(t)
		mock.ExpectExec("DELETE FROM cart_items WHERE id = .+ AND user_id =").
			WithArgs(int64(5), "bob").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err := st.CartItems().DeleteCartItem(ctx, "bob", 5)
		require.ErrorIs(t, err, store.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update own item", func(t *testing.T) {
		st, mock := newMockStore(t)
		mock.ExpectExec("UPDATE cart_items SET quantity = .+ WHERE id = .+ AND user_id =").
			WithArgs(4, int64(5), "alice").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, st.CartItems().UpdateCartItemQuantity(ctx, "alice", 5, 4))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()

	t.Run("commit", func(t *testing.T) {
		st, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO products").
			WithArgs("Keyboard", 1.0, 1).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))
		mock.ExpectCommit()

		err := st.WithTx(ctx, func(tx store.Tx) error {
			_, err := tx.Products().CreateProduct(ctx, domain.Product{Name: "Keyboard", Price: 1, Stock: 1})
			return err
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback on error", func(t *testing.T) {
		st, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		errBoom := errors.New("boom")
		err := st.WithTx(ctx, func(tx store.Tx) error { return errBoom })
		require.ErrorIs(t, err, errBoom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCollectorRequiresRealPool(t *testing.T) {
	st, _ := newMockStore(t)
	require.Nil(t, st.Collector())
}
