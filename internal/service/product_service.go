package service

import (
	"context"
	"fmt"
	"strings"

	"toystore/internal/domain"
	"toystore/internal/repository"
)

// PageSize is the fixed number of products returned per page.
const PageSize = 10

// ProductService exposes read access to the toy catalog.
type ProductService interface {
	// Search returns one page of products matching query. Pages are
	// 1-based; anything below 1 is treated as page 1.
	Search(ctx context.Context, query string, page int64) (*domain.ProductPage, error)
}

type productService struct {
	products repository.ProductRepository
}

func NewProductService(products repository.ProductRepository) ProductService {
	return &productService{products: products}
}

func (s *productService) Search(ctx context.Context, query string, page int64) (*domain.ProductPage, error) {
	query = strings.TrimSpace(query)
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * PageSize

	items, total, err := s.products.Search(ctx, query, PageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}

	totalPages := total / PageSize
	if total%PageSize != 0 {
		totalPages++
	}

	return &domain.ProductPage{
		Items:       items,
		TotalItems:  total,
		TotalPages:  totalPages,
		CurrentPage: page,
	}, nil
}
