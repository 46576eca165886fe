package handler

import (
	"encoding/json"

	"github.com/ecoshop/storefront/internal/core/domain"
	"github.com/ecoshop/storefront/internal/core/ports"
)

// --- Request types ---

type loginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type registerRequest struct {
	Username string `json:"username" form:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email"    form:"email"    validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
}

type addToCartRequest struct {
	ProductID int64 `json:"productId" form:"productId" validate:"required,gt=0"`
	Quantity  int   `json:"quantity"  form:"quantity"`
}

type quantityRequest struct {
	Quantity int `json:"quantity" form:"quantity"`
}

type productRequest struct {
	Name        string      `json:"name"        form:"name"        validate:"required"`
	Description string      `json:"description" form:"description"`
	Price       json.Number `json:"price"       form:"price"       validate:"required,numeric"`
	Stock       int         `json:"stock"       form:"stock"       validate:"min=0"`
	ImageURL    string      `json:"imageUrl"    form:"imageUrl"    validate:"omitempty,url"`
}

type statusRequest struct {
	Status string `json:"status" query:"status" form:"status" validate:"required"`
}

// --- Response types ---

type linkView struct {
	Label  string `json:"label"`
	Path   string `json:"path"`
	Method string `json:"method,omitempty"`
}

type headerView struct {
	Username string     `json:"username,omitempty"`
	Role     string     `json:"role,omitempty"`
	Links    []linkView `json:"links"`
}

type pageResponse struct {
	Page   string         `json:"page"`
	Header headerView     `json:"header"`
	Banner *domain.Banner `json:"banner,omitempty"`
	Data   any            `json:"data,omitempty"`
}

type actionResponse struct {
	Banner   *domain.Banner `json:"banner,omitempty"`
	Redirect string         `json:"redirect,omitempty"`
	Data     any            `json:"data,omitempty"`
}

type sessionView struct {
	State        string              `json:"state"`
	Username     string              `json:"username,omitempty"`
	Email        string              `json:"email,omitempty"`
	Role         string              `json:"role,omitempty"`
	Capabilities []domain.Capability `json:"capabilities"`
}

type formView struct {
	Action string   `json:"action"`
	Fields []string `json:"fields"`
}

type productView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price"`
	Stock       int    `json:"stock"`
	ImageURL    string `json:"imageUrl,omitempty"`
	InStock     bool   `json:"inStock"`
	Active      bool   `json:"active"`
}

type catalogView struct {
	Search       string        `json:"search,omitempty"`
	CanAddToCart bool          `json:"canAddToCart"`
	Products     []productView `json:"products"`
}

type cartLineView struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	Subtotal  string `json:"subtotal"`
}

type cartView struct {
	Lines []cartLineView `json:"lines"`
	Total string         `json:"total"`
	Empty bool           `json:"empty"`
}

type orderItemView struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
	Subtotal string `json:"subtotal"`
}

type orderView struct {
	ID       int64           `json:"id"`
	Date     string          `json:"orderDate"`
	Status   string          `json:"status"`
	Final    bool            `json:"final"`
	Total    string          `json:"totalAmount"`
	Customer string          `json:"customer,omitempty"`
	Items    []orderItemView `json:"items"`
}

type adminView struct {
	Products  []productView        `json:"products,omitempty"`
	Orders    []orderView          `json:"orders,omitempty"`
	Statuses  []domain.OrderStatus `json:"statuses"`
	CanManage bool                 `json:"canManage"`
}

// --- Mappers ---

func toSessionView(s domain.Session) sessionView {
	v := sessionView{State: s.State.String(), Capabilities: domain.Capabilities(s)}
	if s.Authenticated() {
		v.Username = s.Identity.Username
		v.Email = s.Identity.Email
		v.Role = string(s.Identity.Role)
	}
	return v
}

func toProductView(p domain.Product) productView {
	return productView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       domain.FormatMoney(p.Price),
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
		InStock:     p.InStock(),
		Active:      p.IsActive(),
	}
}

func toProductViews(ps []domain.Product) []productView {
	out := make([]productView, 0, len(ps))
	for _, p := range ps {
		out = append(out, toProductView(p))
	}
	return out
}

func toCartView(v ports.CartView) cartView {
	lines := make([]cartLineView, 0, len(v.Lines))
	for _, l := range v.Lines {
		lines = append(lines, cartLineView{
			ID:        l.ID,
			ProductID: l.Product.ID,
			Name:      l.Product.Name,
			Price:     domain.FormatMoney(l.Product.Price),
			Quantity:  l.Quantity,
			Subtotal:  domain.FormatMoney(l.Subtotal()),
		})
	}
	return cartView{Lines: lines, Total: v.Total, Empty: len(lines) == 0}
}

func toOrderViews(orders []domain.Order) []orderView {
	out := make([]orderView, 0, len(orders))
	for _, o := range orders {
		items := make([]orderItemView, 0, len(o.Items))
		for _, it := range o.Items {
			items = append(items, orderItemView{
				Name:     it.Product.Name,
				Quantity: it.Quantity,
				Price:    domain.FormatMoney(it.Price),
				Subtotal: domain.FormatMoney(it.Subtotal()),
			})
		}
		v := orderView{
			ID:     o.ID,
			Date:   o.OrderDate,
			Status: string(o.Status),
			Final:  o.Status.IsFinal(),
			Total:  domain.FormatMoney(o.TotalAmount),
			Items:  items,
		}
		if t, ok := o.PlacedAt(); ok {
			v.Date = t.Format("2006-01-02 15:04")
		}
		if o.User != nil {
			v.Customer = o.User.Username
		}
		out = append(out, v)
	}
	return out
}
