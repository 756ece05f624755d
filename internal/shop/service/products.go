package service

import (
	"context"
	"fmt"

	"github.com/aussiebroadwan/shopcart/internal/shop/domain"
	"github.com/aussiebroadwan/shopcart/internal/shop/store"
)

// ProductInput is used by the operator CLI to seed stock.
type ProductInput struct {
	Name  string  `json:"name" validate:"required,max=100"`
	Price float64 `json:"price" validate:"gte=0"`
	Stock int     `json:"stock" validate:"gte=0"`
}

type ProductService struct {
	Store store.Store
}

func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	products, err := s.Store.Products().ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", asUnavailable(err))
	}
	return products, nil
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (domain.Product, error) {
	if err := Validate(in); err != nil {
		return domain.Product{}, err
	}
	p, err := s.Store.Products().CreateProduct(ctx, domain.Product{
		Name:  in.Name,
		Price: in.Price,
		Stock: in.Stock,
	})
	if err != nil {
		return domain.Product{}, fmt.Errorf("create product: %w", asUnavailable(err))
	}
	return p, nil
}
