package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/shopcart/internal/shop/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrUnavailable marks failures where the database could not be reached
	// or did not answer in time. Callers treat it as transient.
	ErrUnavailable = errors.New("store: unavailable")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable, and so a Tx cannot open a nested transaction by accident.
type Store interface {
	Users() Users
	Products() Products
	CartItems() CartItems

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases the underlying connection pool.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is an exact, case-sensitive match.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID). A
	// username collision returns ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash replaces the stored hash.
	UpdatePasswordHash(ctx context.Context, userID, newHash string) error

	// DeleteUser removes the user and their cart.
	DeleteUser(ctx context.Context, userID string) error
}

type Products interface {
	GetProduct(ctx context.Context, id int64) (domain.Product, error)

	// ListProducts returns every product ordered by id.
	ListProducts(ctx context.Context) ([]domain.Product, error)

	// CreateProduct inserts p and returns it with its assigned id.
	CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error)
}

type CartItems interface {
	// CreateCartItem inserts item and returns it with its assigned id.
	CreateCartItem(ctx context.Context, item domain.CartItem) (domain.CartItem, error)

	// GetCartItem only returns items owned by userID; anything else is ErrNotFound.
	GetCartItem(ctx context.Context, userID string, id int64) (domain.CartItem, error)

	// ListCartItems returns the user's items ordered by id.
	ListCartItems(ctx context.Context, userID string) ([]domain.CartItem, error)

	// UpdateCartItemQuantity sets the quantity of an item owned by userID.
	UpdateCartItemQuantity(ctx context.Context, userID string, id int64, quantity int) error

	// DeleteCartItem removes an item owned by userID.
	DeleteCartItem(ctx context.Context, userID string, id int64) error
}
