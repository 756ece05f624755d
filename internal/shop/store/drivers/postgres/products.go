package postgres

import (
	"context"

	"github.com/aussiebroadwan/shopcart/internal/shop/domain"
	"github.com/aussiebroadwan/shopcart/internal/shop/store"
	"github.com/jackc/pgx/v5"
)

type productsRepo struct {
	db querier
}

func (r *productsRepo) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product
	err := r.db.QueryRow(ctx, `SELECT id, name, price, stock FROM products WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Price, &p.Stock)
	if err != nil {
		return domain.Product{}, mapErr(err)
	}
	return p, nil
}

func (r *productsRepo) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, price, stock FROM products ORDER BY id`)
	if err != nil {
		return nil, mapErr(err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Product, error) {
		var p domain.Product
		err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Stock)
		return p, err
	})
	if err != nil {
		return nil, mapErr(err)
	}
	if out == nil {
		out = []domain.Product{}
	}
	return out, nil
}

func (r *productsRepo) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO products (name, price, stock) VALUES ($1, $2, $3) RETURNING id`,
		p.Name, p.Price, p.Stock,
	).Scan(&p.ID)
	if err != nil {
		return domain.Product{}, mapErr(err)
	}
	return p, nil
}

// expectOne turns a zero-row write into ErrNotFound.
func expectOne(affected int64, err error) error {
	if err != nil {
		return mapErr(err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
