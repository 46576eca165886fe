package service

import (
	"context"
	"fmt"

	"github.com/ecoshop/storefront/internal/core/domain"
	"github.com/ecoshop/storefront/internal/core/ports"
)

type OrderService struct {
	api ports.OrderAPI
}

func NewOrderService(api ports.OrderAPI) *OrderService {
	return &OrderService{api: api}
}

// History returns the customer's orders, newest first as the backend sends them.
func (s *OrderService) History(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.api.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}
