package sqlite

import (
	"context"

	"github.com/aussiebroadwan/shopcart/internal/shop/domain"
)

const cartItemColumns = `id, user_id, product_id, quantity, created_at`

type cartItemsRepo struct {
	db dbtx
}

func (r *cartItemsRepo) CreateCartItem(ctx context.Context, item domain.CartItem) (domain.CartItem, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO cart_items (user_id, product_id, quantity, created_at) VALUES (?, ?, ?, ?)`,
		item.UserID, item.ProductID, item.Quantity, item.CreatedAt.UTC(),
	)
	if err != nil {
		return domain.CartItem{}, mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.CartItem{}, mapErr(err)
	}
	item.ID = id
	return item, nil
}

func (r *cartItemsRepo) GetCartItem(ctx context.Context, userID string, id int64) (domain.CartItem, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+cartItemColumns+` FROM cart_items WHERE id = ? AND user_id = ?`, id, userID)

	var it domain.CartItem
	if err := row.Scan(&it.ID, &it.UserID, &it.ProductID, &it.Quantity, &it.CreatedAt); err != nil {
		return domain.CartItem{}, mapErr(err)
	}
	return it, nil
}

func (r *cartItemsRepo) ListCartItems(ctx context.Context, userID string) ([]domain.CartItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+cartItemColumns+` FROM cart_items WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []domain.CartItem{}
	for rows.Next() {
		var it domain.CartItem
		if err := rows.Scan(&it.ID, &it.UserID, &it.ProductID, &it.Quantity, &it.CreatedAt); err != nil {
			return nil, mapErr(err)
		}
		out = append(out, it)
	}
	return out, mapErr(rows.Err())
}

func (r *cartItemsRepo) UpdateCartItemQuantity(ctx context.Context, userID string, id int64, quantity int) error {
	return expectOne(r.db.ExecContext(ctx,
		`UPDATE cart_items SET quantity = ? WHERE id = ? AND user_id = ?`,
		quantity, id, userID,
	))
}

func (r *cartItemsRepo) DeleteCartItem(ctx context.Context, userID string, id int64) error {
	return expectOne(r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE id = ? AND user_id = ?`, id, userID))
}
