package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/shopcart/internal/shop/store"
)

type txStore struct {
	tx *sql.Tx
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

// Close is a no-op; the caller commits or rolls back and the outer DB stays open.
func (t *txStore) Close() error { return nil }

// Ping is a no-op; the connection is held for the life of the transaction.
func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) Users() store.Users         { return &usersRepo{db: t.tx} }
func (t *txStore) Products() store.Products   { return &productsRepo{db: t.tx} }
func (t *txStore) CartItems() store.CartItems { return &cartItemsRepo{db: t.tx} }

// ApplyMigrations is a no-op; migrations run before any transaction is opened.
func (t *txStore) ApplyMigrations() error { return nil }
