package sqlite

import (
	"context"

	"github.com/aussiebroadwan/shopcart/internal/shop/domain"
)

type productsRepo struct {
	db dbtx
}

func (r *productsRepo) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, price, stock FROM products WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.Price, &p.Stock)
	if err != nil {
		return domain.Product{}, mapErr(err)
	}
	return p, nil
}

func (r *productsRepo) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, price, stock FROM products ORDER BY id`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Stock); err != nil {
			return nil, mapErr(err)
		}
		out = append(out, p)
	}
	return out, mapErr(rows.Err())
}

func (r *productsRepo) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO products (name, price, stock) VALUES (?, ?, ?)`, p.Name, p.Price, p.Stock)
	if err != nil {
		return domain.Product{}, mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Product{}, mapErr(err)
	}
	p.ID = id
	return p, nil
}
