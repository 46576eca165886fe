package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/ecoshop/storefront/internal/core/ports"
)

type OrderHandler struct {
	pages
	orders ports.OrderService
}

func NewOrderHandler(orders ports.OrderService, notices ports.NoticeBoard) *OrderHandler {
	return &OrderHandler{pages: pages{notices: notices}, orders: orders}
}

// History renders the customer's orders, newest first.
//
// @Summary      Order history
// @Tags         orders
// @Produce      json
// @Success      200  {object}  pageResponse
// @Failure      401  {object}  map[string]string
// @Router       /orders [get]
func (h *OrderHandler) History(c echo.Context) error {
	orders, err := h.orders.History(c.Request().Context())
	if err != nil {
		return fail(err, "Error fetching orders")
	}
	return h.render(c, "orders", toOrderViews(orders))
}
