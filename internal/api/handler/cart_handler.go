package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecoshop/storefront/internal/core/domain"
	"github.com/ecoshop/storefront/internal/core/ports"
)

type CartHandler struct {
	pages
	cart ports.CartService
}

func NewCartHandler(cart ports.CartService, notices ports.NoticeBoard) *CartHandler {
	return &CartHandler{pages: pages{notices: notices}, cart: cart}
}

// View renders the cart after re-fetching it.
//
// @Summary      Show the cart
// @Tags         cart
// @Produce      json
// @Success      200  {object}  pageResponse
// @Failure      401  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /cart [get]
func (h *CartHandler) View(c echo.Context) error {
	view, err := h.cart.Refresh(c.Request().Context())
	if err != nil {
		return fail(err, "Error fetching cart")
	}
	return h.render(c, "cart", toCartView(view))
}

// Add puts a product into the cart. Only customers may do this.
//
// @Summary      Add a product to the cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        body  body      addToCartRequest   true  "Product and quantity"
// @Success      200   {object}  actionResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /cart/add [post]
func (h *CartHandler) Add(c echo.Context) error {
	if !domain.Can(currentSession(c), domain.CapAddToCart) {
		return fail(domain.ErrForbidden, "Only customers can add items to cart")
	}

	var req addToCartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	view, err := h.cart.Add(c.Request().Context(), req.ProductID, req.Quantity)
	if err != nil {
		return fail(err, "Error adding product to cart")
	}
	return h.done(c, http.StatusOK, "Product added to cart successfully!", 0, "", toCartView(view))
}

// Update sets a line's quantity; zero removes the line.
//
// @Summary      Change a line quantity
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        id    path      int                true  "Cart line ID"
// @Param        body  body      quantityRequest    true  "New quantity"
// @Success      200   {object}  actionResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /cart/{id} [put]
func (h *CartHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req quantityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	view, err := h.cart.UpdateQuantity(c.Request().Context(), id, req.Quantity)
	if err != nil {
		return fail(err, "Error updating quantity")
	}
	return h.done(c, http.StatusOK, "", 0, "", toCartView(view))
}

// Remove deletes a line.
//
// @Summary      Remove a cart line
// @Tags         cart
// @Produce      json
// @Param        id   path      int                true  "Cart line ID"
// @Success      200  {object}  actionResponse
// @Failure      404  {object}  map[string]string
// @Router       /cart/{id} [delete]
func (h *CartHandler) Remove(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	view, err := h.cart.Remove(c.Request().Context(), id)
	if err != nil {
		return fail(err, "Error removing item")
	}
	return h.done(c, http.StatusOK, "", 0, "", toCartView(view))
}

// Checkout places the order.
//
// @Summary      Place an order from the cart
// @Tags         cart
// @Produce      json
// @Success      200  {object}  actionResponse
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /cart/checkout [post]
func (h *CartHandler) Checkout(c echo.Context) error {
	msg, view, err := h.cart.Checkout(c.Request().Context())
	if err != nil && msg == "" {
		return fail(err, "Error placing order")
	}
	// The order exists even when the follow-up refresh failed.
	return h.done(c, http.StatusOK, msg, 0, domain.PathOrders, toCartView(view))
}
