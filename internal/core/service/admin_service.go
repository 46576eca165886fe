package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ecoshop/storefront/internal/core/domain"
	"github.com/ecoshop/storefront/internal/core/ports"
)

// AdminService drives product and order management. Authorization is
// enforced by the backend; this layer only rejects input the backend would
// refuse anyway.
type AdminService struct {
	api ports.AdminAPI
	log zerolog.Logger
}

func NewAdminService(api ports.AdminAPI, log zerolog.Logger) *AdminService {
	return &AdminService{api: api, log: log}
}

func (s *AdminService) Products(ctx context.Context) ([]domain.Product, error) {
	products, err := s.api.ListAllProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("admin list products: %w", err)
	}
	return products, nil
}

func (s *AdminService) CreateProduct(ctx context.Context, in ports.ProductInput) (*domain.Product, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}
	p, err := s.api.CreateProduct(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.log.Info().Int64("product_id", p.ID).Str("name", p.Name).Msg("product created")
	return p, nil
}

func (s *AdminService) UpdateProduct(ctx context.Context, id int64, in ports.ProductInput) (*domain.Product, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}
	p, err := s.api.UpdateProduct(ctx, id, in)
	if err != nil {
		return nil, fmt.Errorf("update product %d: %w", id, err)
	}
	s.log.Info().Int64("product_id", id).Msg("product updated")
	return p, nil
}

// DeleteProduct returns the backend's message, which tells whether the
// product was deleted or only deactivated because orders reference it.
func (s *AdminService) DeleteProduct(ctx context.Context, id int64) (string, error) {
	ack, err := s.api.DeleteProduct(ctx, id)
	if err != nil {
		return "", fmt.Errorf("delete product %d: %w", id, err)
	}
	s.log.Info().Int64("product_id", id).Msg("product deleted")
	if ack != nil && ack.Message != "" {
		return ack.Message, nil
	}
	return "Product deleted successfully!", nil
}

func (s *AdminService) Orders(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.api.ListAllOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("admin list orders: %w", err)
	}
	return orders, nil
}

// SetOrderStatus validates status locally before sending it.
func (s *AdminService) SetOrderStatus(ctx context.Context, id int64, status string) (string, error) {
	st, err := domain.ParseOrderStatus(status)
	if err != nil {
		return "", fmt.Errorf("%w: %w: %q", domain.ErrValidation, err, status)
	}
	if _, err := s.api.UpdateOrderStatus(ctx, id, st); err != nil {
		return "", fmt.Errorf("update order %d status: %w", id, err)
	}
	s.log.Info().Int64("order_id", id).Str("status", string(st)).Msg("order status updated")
	return fmt.Sprintf("Order status updated to %s!", st), nil
}

func validateProduct(in ports.ProductInput) error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return fmt.Errorf("%w: product name is required", domain.ErrValidation)
	case !in.Price.IsPositive():
		return fmt.Errorf("%w: product price must be greater than 0", domain.ErrValidation)
	case in.Stock < 0:
		return fmt.Errorf("%w: product stock cannot be negative", domain.ErrValidation)
	}
	return nil
}
