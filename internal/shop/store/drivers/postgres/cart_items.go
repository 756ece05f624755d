package postgres

import (
	"context"

	"github.com/aussiebroadwan/shopcart/internal/shop/domain"
	"github.com/jackc/pgx/v5"
)

const cartItemColumns = `id, user_id, product_id, quantity, created_at`

type cartItemsRepo struct {
	db querier
}

func (r *cartItemsRepo) CreateCartItem(ctx context.Context, item domain.CartItem) (domain.CartItem, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO cart_items (user_id, product_id, quantity, created_at) VALUES ($1, $2, $3, $4) RETURNING id`,
		item.UserID, item.ProductID, item.Quantity, item.CreatedAt,
	).Scan(&item.ID)
	if err != nil {
		return domain.CartItem{}, mapErr(err)
	}
	return item, nil
}

func (r *cartItemsRepo) GetCartItem(ctx context.Context, userID string, id int64) (domain.CartItem, error) {
	var it domain.CartItem
	err := r.db.QueryRow(ctx,
		`SELECT `+cartItemColumns+` FROM cart_items WHERE id = $1 AND user_id = $2`, id, userID,
	).Scan(&it.ID, &it.UserID, &it.ProductID, &it.Quantity, &it.CreatedAt)
	if err != nil {
		return domain.CartItem{}, mapErr(err)
	}
	return it, nil
}

func (r *cartItemsRepo) ListCartItems(ctx context.Context, userID string) ([]domain.CartItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+cartItemColumns+` FROM cart_items WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CartItem, error) {
		var it domain.CartItem
		err := row.Scan(&it.ID, &it.UserID, &it.ProductID, &it.Quantity, &it.CreatedAt)
		return it, err
	})
	if err != nil {
		return nil, mapErr(err)
	}
	if out == nil {
		out = []domain.CartItem{}
	}
	return out, nil
}

func (r *cartItemsRepo) UpdateCartItemQuantity(ctx context.Context, userID string, id int64, quantity int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE cart_items SET quantity = $1 WHERE id = $2 AND user_id = $3`,
		quantity, id, userID,
	)
	return expectOne(tag.RowsAffected(), err)
}

func (r *cartItemsRepo) DeleteCartItem(ctx context.Context, userID string, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE id = $1 AND user_id = $2`, id, userID)
	return expectOne(tag.RowsAffected(), err)
}
