package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/ecoshop/storefront/internal/core/domain"
	"github.com/ecoshop/storefront/internal/core/ports"
)

// deleteBannerTTL keeps delete outcomes (deleted vs deactivated) on screen
// longer than other banners.
const deleteBannerTTL = 5 * time.Second

const adminFallback = "Make sure you have admin privileges."

type AdminHandler struct {
	pages
	admin ports.AdminService
}

func NewAdminHandler(admin ports.AdminService, notices ports.NoticeBoard) *AdminHandler {
	return &AdminHandler{pages: pages{notices: notices}, admin: admin}
}

// Dashboard renders products and orders together.
//
// @Summary      Admin dashboard
// @Tags         admin
// @Produce      json
// @Success      200  {object}  pageResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /admin [get]
func (h *AdminHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	products, err := h.admin.Products(ctx)
	if err != nil {
		return fail(err, "Error fetching products. "+adminFallback)
	}
	orders, err := h.admin.Orders(ctx)
	if err != nil {
		return fail(err, "Error fetching orders. "+adminFallback)
	}
	return h.render(c, "admin", adminView{
		Products:  toProductViews(products),
		Orders:    toOrderViews(orders),
		Statuses:  domain.OrderStatuses,
		CanManage: canManage(c),
	})
}

// Products lists the whole catalog, inactive products included.
//
// @Summary      List all products, inactive included
// @Tags         admin
// @Produce      json
// @Success      200  {object}  pageResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /admin/products [get]
func (h *AdminHandler) Products(c echo.Context) error {
	products, err := h.admin.Products(c.Request().Context())
	if err != nil {
		return fail(err, "Error fetching products. "+adminFallback)
	}
	return h.render(c, "admin.products", adminView{Products: toProductViews(products), Statuses: domain.OrderStatuses, CanManage: canManage(c)})
}

// Orders lists every customer order.
//
// @Summary      List every order
// @Tags         admin
// @Produce      json
// @Success      200  {object}  pageResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /admin/orders [get]
func (h *AdminHandler) Orders(c echo.Context) error {
	orders, err := h.admin.Orders(c.Request().Context())
	if err != nil {
		return fail(err, "Error fetching orders. "+adminFallback)
	}
	return h.render(c, "admin.orders", adminView{Orders: toOrderViews(orders), Statuses: domain.OrderStatuses, CanManage: canManage(c)})
}

// CreateProduct validates and creates a product.
//
// @Summary      Create a product
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      productRequest     true  "Product fields"
// @Success      201   {object}  actionResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /admin/products [post]
func (h *AdminHandler) CreateProduct(c echo.Context) error {
	in, err := bindProduct(c)
	if err != nil {
		return err
	}
	p, err := h.admin.CreateProduct(c.Request().Context(), in)
	if err != nil {
		return &ActionError{Err: err, Fallback: "Error saving product. " + adminFallback, TTL: deleteBannerTTL}
	}
	return h.done(c, http.StatusCreated, "Product created successfully!", 0, "", toProductView(*p))
}

// UpdateProduct replaces a product's fields.
//
// @Summary      Update a product
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      int                true  "Product ID"
// @Param        body  body      productRequest     true  "Product fields"
// @Success      200   {object}  actionResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /admin/products/{id} [put]
func (h *AdminHandler) UpdateProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	in, err := bindProduct(c)
	if err != nil {
		return err
	}
	p, err := h.admin.UpdateProduct(c.Request().Context(), id, in)
	if err != nil {
		return &ActionError{Err: err, Fallback: "Error saving product. " + adminFallback, TTL: deleteBannerTTL}
	}
	return h.done(c, http.StatusOK, "Product updated successfully!", 0, "", toProductView(*p))
}

// DeleteProduct shows the server's wording, which says whether the product
// was deleted or only deactivated.
//
// @Summary      Delete or deactivate a product
// @Tags         admin
// @Produce      json
// @Param        id   path      int                true  "Product ID"
// @Success      200  {object}  actionResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/products/{id} [delete]
func (h *AdminHandler) DeleteProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	msg, err := h.admin.DeleteProduct(c.Request().Context(), id)
	if err != nil {
		return &ActionError{Err: err, Fallback: "Error deleting product", TTL: deleteBannerTTL}
	}
	return h.done(c, http.StatusOK, msg, deleteBannerTTL, "", nil)
}

// SetOrderStatus takes the status from ?status= or the body.
//
// @Summary      Change an order status
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id      path      int                true   "Order ID"
// @Param        status  query     string             false  "PENDING, PROCESSING, SHIPPED, DELIVERED or CANCELLED"
// @Param        body    body      statusRequest      false  "Status, when not in the query"
// @Success      200     {object}  actionResponse
// @Failure      400     {object}  map[string]string
// @Failure      403     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /admin/orders/{id}/status [put]
func (h *AdminHandler) SetOrderStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if req.Status == "" {
		// echo binds query parameters for GET, HEAD and DELETE only.
		req.Status = c.QueryParam("status")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	msg, err := h.admin.SetOrderStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return fail(err, "Error updating order status.")
	}
	return h.done(c, http.StatusOK, msg, 0, "", nil)
}

func canManage(c echo.Context) bool {
	return domain.Can(currentSession(c), domain.CapAdmin)
}

func bindProduct(c echo.Context) (ports.ProductInput, error) {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return ports.ProductInput{}, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return ports.ProductInput{}, err
	}
	price, err := decimal.NewFromString(req.Price.String())
	if err != nil {
		return ports.ProductInput{}, echo.NewHTTPError(http.StatusBadRequest, "price must be a number")
	}
	return ports.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
	}, nil
}
