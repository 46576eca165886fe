package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ecoshop/storefront/internal/core/domain"
	"github.com/ecoshop/storefront/internal/core/ports"
)

// CatalogService lists and searches products.
type CatalogService struct {
	api ports.CatalogAPI
	log zerolog.Logger
}

func NewCatalogService(api ports.CatalogAPI, log zerolog.Logger) *CatalogService {
	return &CatalogService{api: api, log: log}
}

func (s *CatalogService) List(ctx context.Context) ([]domain.Product, error) {
	products, err := s.api.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// Search asks the backend for products matching term. A blank term lists
// everything; when the search endpoint fails the full list is filtered
// locally by a case-insensitive name match.
func (s *CatalogService) Search(ctx context.Context, term string) ([]domain.Product, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.List(ctx)
	}

	products, err := s.api.SearchProducts(ctx, term)
	if err == nil {
		return products, nil
	}
	s.log.Warn().Err(err).Str("term", term).Msg("product search failed, filtering locally")

	all, lerr := s.List(ctx)
	if lerr != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return FilterByName(all, term), nil
}

// FilterByName keeps products whose name contains term, ignoring case.
func FilterByName(products []domain.Product, term string) []domain.Product {
	needle := strings.ToLower(term)
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			out = append(out, p)
		}
	}
	return out
}
