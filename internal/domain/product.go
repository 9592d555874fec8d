package domain

import "time"

// Product is a toy in the catalog.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductPage is one page of search results together with pagination totals.
type ProductPage struct {
	Items       []Product
	TotalItems  int64
	TotalPages  int64
	CurrentPage int64
}
