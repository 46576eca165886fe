package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle state of an order. Transitions are
// decided by the backend; the client only validates the value.
type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderShipped    OrderStatus = "SHIPPED"
	OrderDelivered  OrderStatus = "DELIVERED"
	OrderCancelled  OrderStatus = "CANCELLED"
)

// OrderStatuses lists every status in display order.
var OrderStatuses = []OrderStatus{
	OrderPending,
	OrderProcessing,
	OrderShipped,
	OrderDelivered,
	OrderCancelled,
}

// ParseOrderStatus accepts any casing of a known status.
func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range OrderStatuses {
		if st == known {
			return st, nil
		}
	}
	return "", ErrInvalidStatus
}

// IsFinal reports whether no further transitions are expected.
func (s OrderStatus) IsFinal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// OrderItem is a line frozen at checkout time with the unit price paid.
type OrderItem struct {
	ID       int64           `json:"id"`
	Product  Product         `json:"product"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// Subtotal is the unit price paid × quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderOwner is the buyer summary included in admin order listings.
type OrderOwner struct {
	Username string `json:"username"`
}

// Order is a placed order. OrderDate is kept as sent by the backend, which
// emits local date-times without a zone.
type Order struct {
	ID          int64           `json:"id"`
	OrderDate   string          `json:"orderDate"`
	Status      OrderStatus     `json:"status"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Items       []OrderItem     `json:"orderItems,omitempty"`
	User        *OrderOwner     `json:"user,omitempty"`
}

var orderDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// PlacedAt parses OrderDate. The second result is false when the value is
// empty or in an unknown layout.
func (o Order) PlacedAt() (time.Time, bool) {
	for _, layout := range orderDateLayouts {
		if t, err := time.Parse(layout, o.OrderDate); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
