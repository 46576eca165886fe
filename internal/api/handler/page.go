package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ecoshop/storefront/internal/core/domain"
	"github.com/ecoshop/storefront/internal/core/ports"
)

// pages renders page and action responses with the shared header and banner.
type pages struct {
	notices ports.NoticeBoard
}

func header(s domain.Session) headerView {
	h := headerView{Links: []linkView{{Label: "Products", Path: domain.PathHome}}}
	if domain.Can(s, domain.CapAddToCart) {
		h.Links = append(h.Links,
			linkView{Label: "Cart", Path: domain.PathCart},
			linkView{Label: "My Orders", Path: domain.PathOrders},
		)
	}
	if domain.Can(s, domain.CapAdmin) {
		h.Links = append(h.Links, linkView{Label: "Admin Panel", Path: domain.PathAdmin})
	}
	if s.Authenticated() {
		h.Username = s.Identity.Username
		h.Role = string(s.Identity.Role)
		h.Links = append(h.Links, linkView{Label: "Logout", Path: "/logout", Method: http.MethodPost})
		return h
	}
	h.Links = append(h.Links,
		linkView{Label: "Login", Path: domain.PathLogin},
		linkView{Label: "Register", Path: domain.PathRegister},
	)
	return h
}

func (p pages) render(c echo.Context, page string, data any) error {
	resp := pageResponse{
		Page:   page,
		Header: header(currentSession(c)),
		Data:   data,
	}
	if b, ok := p.notices.Current(); ok {
		resp.Banner = &b
	}
	return c.JSON(http.StatusOK, resp)
}

func (p pages) done(c echo.Context, code int, msg string, ttl time.Duration, redirect string, data any) error {
	resp := actionResponse{Redirect: redirect, Data: data}
	if msg != "" {
		b := p.notices.Show(domain.BannerSuccess, msg, ttl)
		resp.Banner = &b
	}
	return c.JSON(code, resp)
}

// DismissBanner clears the banner before it expires.
//
// @Summary      Dismiss the banner
// @Tags         ui
// @Success      204  {string}  string
// @Router       /banner [delete]
func (p pages) DismissBanner(c echo.Context) error {
	p.notices.Dismiss()
	return c.NoContent(http.StatusNoContent)
}
