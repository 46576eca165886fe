package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/ecoshop/storefront/internal/core/domain"
	"github.com/ecoshop/storefront/internal/core/ports"
)

type CatalogHandler struct {
	pages
	catalog ports.CatalogService
}

func NewCatalogHandler(catalog ports.CatalogService, notices ports.NoticeBoard) *CatalogHandler {
	return &CatalogHandler{pages: pages{notices: notices}, catalog: catalog}
}

// Home renders the catalog, filtered by ?search= when given.
//
// @Summary      Product catalog
// @Tags         catalog
// @Produce      json
// @Param        search  query     string             false  "Product name filter"
// @Success      200     {object}  pageResponse
// @Failure      502     {object}  map[string]string
// @Router       / [get]
func (h *CatalogHandler) Home(c echo.Context) error {
	term := c.QueryParam("search")
	products, err := h.catalog.Search(c.Request().Context(), term)
	if err != nil {
		return fail(err, "Error fetching products")
	}
	return h.render(c, "catalog", catalogView{
		Search:       term,
		CanAddToCart: domain.Can(currentSession(c), domain.CapAddToCart),
		Products:     toProductViews(products),
	})
}
