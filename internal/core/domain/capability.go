package domain

// Capability is an action a view or route may require.
type Capability string

const (
	CapBrowse     Capability = "browse"
	CapAddToCart  Capability = "add_to_cart"
	CapManageCart Capability = "manage_cart"
	CapViewOrders Capability = "view_orders"
	CapAdmin      Capability = "admin"
)

// Can is the single role check shared by the route guard and the views.
//
// Browsing is open to everyone. Cart and order pages need any authenticated
// identity; adding products to the cart is a customer-only action, so the
// admin sees the cart page but no add buttons.
func Can(s Session, c Capability) bool {
	switch c {
	case CapBrowse:
		return true
	case CapManageCart, CapViewOrders:
		return s.Authenticated()
	case CapAddToCart:
		return s.IsCustomer()
	case CapAdmin:
		return s.IsAdmin()
	default:
		return false
	}
}

// Capabilities returns every capability s holds, in a stable order.
func Capabilities(s Session) []Capability {
	all := []Capability{CapBrowse, CapAddToCart, CapManageCart, CapViewOrders, CapAdmin}
	out := make([]Capability, 0, len(all))
	for _, c := range all {
		if Can(s, c) {
			out = append(out, c)
		}
	}
	return out
}
