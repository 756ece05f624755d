package domain

import "time"

// Product is a stock entry the cart validates against. The API never
// mutates products; operators seed them through the CLI.
type Product struct {
	ID    int64
	Name  string
	Price float64
	Stock int
}

type CartItem struct {
	ID        int64
	UserID    string
	ProductID int64
	Quantity  int
	CreatedAt time.Time
}
