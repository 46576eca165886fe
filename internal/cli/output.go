package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ecoshop/storefront/internal/core/domain"
	"github.com/ecoshop/storefront/internal/core/ports"
)

// userError prints the banner text for err while keeping it for errors.Is.
type userError struct {
	msg string
	err error
}

func (e *userError) Error() string { return e.msg }

func (e *userError) Unwrap() error { return e.err }

func failed(err error, fallback string) error {
	return &userError{msg: domain.UserMessage(err, fallback), err: err}
}

// prompt reads one trimmed line from in after printing label to out.
func prompt(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.TrimSpace(label), ":"), err)
	}
	return strings.TrimSpace(line), nil
}

func printProducts(w io.Writer, products []domain.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, "No products found.")
		return
	}
	fmt.Fprintf(w, "%-6s  %-32s  %10s  %-12s\n", "ID", "NAME", "PRICE", "STOCK")
	fmt.Fprintf(w, "%-6s  %-32s  %10s  %-12s\n", "--", "----", "-----", "-----")
	for _, p := range products {
		stock := fmt.Sprintf("%d", p.Stock)
		if !p.InStock() {
			stock = "out of stock"
		}
		name := p.Name
		if !p.IsActive() {
			name += " (inactive)"
		}
		fmt.Fprintf(w, "%-6d  %-32s  %10s  %-12s\n", p.ID, name, "$"+domain.FormatMoney(p.Price), stock)
	}
}

func printCart(w io.Writer, view ports.CartView) {
	if len(view.Lines) == 0 {
		fmt.Fprintln(w, "Your cart is empty.")
		return
	}
	fmt.Fprintf(w, "%-6s  %-32s  %4s  %10s  %10s\n", "LINE", "PRODUCT", "QTY", "PRICE", "SUBTOTAL")
	for _, l := range view.Lines {
		fmt.Fprintf(w, "%-6d  %-32s  %4d  %10s  %10s\n",
			l.ID, l.Product.Name, l.Quantity,
			"$"+domain.FormatMoney(l.Product.Price),
			"$"+domain.FormatMoney(l.Subtotal()))
	}
	fmt.Fprintf(w, "\nTotal: $%s\n", view.Total)
}

func printOrders(w io.Writer, orders []domain.Order, withBuyer bool) {
	if len(orders) == 0 {
		fmt.Fprintln(w, "No orders found.")
		return
	}
	for _, o := range orders {
		placed := o.OrderDate
		if t, ok := o.PlacedAt(); ok {
			placed = t.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "Order #%d  %s  %-10s  $%s", o.ID, placed, o.Status, domain.FormatMoney(o.TotalAmount))
		if withBuyer && o.User != nil {
			fmt.Fprintf(w, "  %s", o.User.Username)
		}
		fmt.Fprintln(w)
		for _, it := range o.Items {
			fmt.Fprintf(w, "    %d x %s @ $%s\n", it.Quantity, it.Product.Name, domain.FormatMoney(it.Price))
		}
	}
}
