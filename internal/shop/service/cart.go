package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/shopcart/internal/shop/domain"
	"github.com/aussiebroadwan/shopcart/internal/shop/store"
	"github.com/aussiebroadwan/shopcart/pkg/slogx"
)

// CartItemInput is the body of add and update requests.
type CartItemInput struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gte=1"`
}

// CartService manages the caller's cart. Every operation is scoped to the
// user id of the verified identity; items of other users read as missing.
type CartService struct {
	Store store.Store
	Now   func() time.Time
}

func (s *CartService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Add puts a product into the cart after checking it exists and has enough stock.
func (s *CartService) Add(ctx context.Context, userID string, in CartItemInput) (domain.CartItem, error) {
	slogx.FromContext(ctx).Info("add to cart attempt", "product_id", in.ProductID)

	if err := Validate(in); err != nil {
		return domain.CartItem{}, err
	}

	var item domain.CartItem
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := checkStock(ctx, tx, in); err != nil {
			return err
		}
		created, err := tx.CartItems().CreateCartItem(ctx, domain.CartItem{
			UserID:    userID,
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			CreatedAt: s.now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("create cart item: %w", asUnavailable(err))
		}
		item = created
		return nil
	})
	if err != nil {
		return domain.CartItem{}, mapTxErr(err)
	}
	return item, nil
}

func (s *CartService) List(ctx context.Context, userID string) ([]domain.CartItem, error) {
	items, err := s.Store.CartItems().ListCartItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", asUnavailable(err))
	}
	return items, nil
}

func (s *CartService) Remove(ctx context.Context, userID string, itemID int64) error {
	slogx.FromContext(ctx).Info("remove from cart attempt", "item_id", itemID)

	err := s.Store.CartItems().DeleteCartItem(ctx, userID, itemID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrCartItemNotFound
	case err != nil:
		return fmt.Errorf("delete cart item: %w", asUnavailable(err))
	}
	return nil
}

// Update sets the quantity of one of the caller's items. An item keeps its
// product; in.ProductID must name it (ErrProductMismatch otherwise). The
// item is checked first, so a foreign item id is ErrCartItemNotFound even
// when the product is also bad.
func (s *CartService) Update(ctx context.Context, userID string, itemID int64, in CartItemInput) (domain.CartItem, error) {
	slogx.FromContext(ctx).Info("update cart item attempt", "item_id", itemID)

	if err := Validate(in); err != nil {
		return domain.CartItem{}, err
	}

	var item domain.CartItem
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		current, err := tx.CartItems().GetCartItem(ctx, userID, itemID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrCartItemNotFound
			}
			return fmt.Errorf("get cart item: %w", asUnavailable(err))
		}
		if err := checkStock(ctx, tx, in); err != nil {
			return err
		}
		if current.ProductID != in.ProductID {
			return ErrProductMismatch
		}
		if err := tx.CartItems().UpdateCartItemQuantity(ctx, userID, itemID, in.Quantity); err != nil {
			return fmt.Errorf("update cart item: %w", asUnavailable(err))
		}
		current.Quantity = in.Quantity
		item = current
		return nil
	})
	if err != nil {
		return domain.CartItem{}, mapTxErr(err)
	}
	return item, nil
}

func checkStock(ctx context.Context, tx store.Tx, in CartItemInput) error {
	product, err := tx.Products().GetProduct(ctx, in.ProductID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrProductNotFound
	case err != nil:
		return fmt.Errorf("get product: %w", asUnavailable(err))
	}
	if product.Stock < in.Quantity {
		return ErrInsufficientStock
	}
	return nil
}

// mapTxErr tags failures to open or commit the transaction as transient;
// errors returned from inside the callback are already classified.
func mapTxErr(err error) error {
	switch {
	case errors.Is(err, ErrProductNotFound),
		errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrCartItemNotFound),
		errors.Is(err, ErrProductMismatch):
		return err
	}
	return asUnavailable(err)
}
