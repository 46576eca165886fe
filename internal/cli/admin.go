package cli

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ecoshop/storefront/internal/core/domain"
	"github.com/ecoshop/storefront/internal/core/ports"
)

const adminFallback = "Make sure you have admin privileges."

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage products and orders (admins only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := st.enter(ctx, domain.PathAdmin); err != nil {
				return err
			}
			products, err := st.admin.Products(ctx)
			if err != nil {
				return failed(err, "Error fetching products. "+adminFallback)
			}
			orders, err := st.admin.Orders(ctx)
			if err != nil {
				return failed(err, "Error fetching orders. "+adminFallback)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Products: %d\nOrders:   %d\n", len(products), len(orders))
			open := 0
			for _, o := range orders {
				if !o.Status.IsFinal() {
					open++
				}
			}
			fmt.Fprintf(out, "Open:     %d\n", open)
			return nil
		},
	}

	cmd.AddCommand(
		newAdminProductsCmd(),
		newAdminProductCreateCmd(),
		newAdminProductUpdateCmd(),
		newAdminProductDeleteCmd(),
		newAdminOrdersCmd(),
		newAdminSetStatusCmd(),
	)
	return cmd
}

func newAdminProductsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "List every product, including inactive ones",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := st.enter(ctx, domain.PathAdmin+"/products"); err != nil {
				return err
			}
			products, err := st.admin.Products(ctx)
			if err != nil {
				return failed(err, "Error fetching products. "+adminFallback)
			}
			printProducts(cmd.OutOrStdout(), products)
			return nil
		},
	}
}

type productFlags struct {
	name        string
	description string
	price       string
	stock       int
	imageURL    string
}

func (f *productFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Product name")
	cmd.Flags().StringVar(&f.description, "description", "", "Product description")
	cmd.Flags().StringVar(&f.price, "price", "", "Unit price, e.g. 12.50")
	cmd.Flags().IntVar(&f.stock, "stock", 0, "Units in stock")
	cmd.Flags().StringVar(&f.imageURL, "image-url", "", "Image URL")
}

// apply overlays the flags the user set onto base.
func (f *productFlags) apply(cmd *cobra.Command, base ports.ProductInput) (ports.ProductInput, error) {
	flags := cmd.Flags()
	if flags.Changed("name") {
		base.Name = f.name
	}
	if flags.Changed("description") {
		base.Description = f.description
	}
	if flags.Changed("price") {
		p, err := decimal.NewFromString(f.price)
		if err != nil {
			return base, fmt.Errorf("%w: price must be a number", domain.ErrValidation)
		}
		base.Price = p
	}
	if flags.Changed("stock") {
		base.Stock = f.stock
	}
	if flags.Changed("image-url") {
		base.ImageURL = f.imageURL
	}
	return base, nil
}

func newAdminProductCreateCmd() *cobra.Command {
	var f productFlags

	cmd := &cobra.Command{
		Use:   "product-create",
		Short: "Create a product",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := st.enter(ctx, domain.PathAdmin+"/products"); err != nil {
				return err
			}
			in, err := f.apply(cmd, ports.ProductInput{})
			if err != nil {
				return failed(err, "Error saving product")
			}
			p, err := st.admin.CreateProduct(ctx, in)
			if err != nil {
				return failed(err, "Error saving product")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Product created successfully! (id %d)\n", p.ID)
			return nil
		},
	}

	f.register(cmd)
	return cmd
}

func newAdminProductUpdateCmd() *cobra.Command {
	var f productFlags

	cmd := &cobra.Command{
		Use:   "product-update <id>",
		Short: "Update a product; unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := st.enter(ctx, domain.PathAdmin+"/products"); err != nil {
				return err
			}
			current, err := findProduct(ctx, id)
			if err != nil {
				return err
			}
			in, err := f.apply(cmd, current)
			if err != nil {
				return failed(err, "Error saving product")
			}
			if _, err := st.admin.UpdateProduct(ctx, id, in); err != nil {
				return failed(err, "Error saving product")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Product updated successfully!")
			return nil
		},
	}

	f.register(cmd)
	return cmd
}

func findProduct(ctx context.Context, id int64) (ports.ProductInput, error) {
	products, err := st.admin.Products(ctx)
	if err != nil {
		return ports.ProductInput{}, failed(err, "Error fetching products. "+adminFallback)
	}
	for _, p := range products {
		if p.ID == id {
			return ports.ProductInput{
				Name:        p.Name,
				Description: p.Description,
				Price:       p.Price,
				Stock:       p.Stock,
				ImageURL:    p.ImageURL,
			}, nil
		}
	}
	return ports.ProductInput{}, fmt.Errorf("product %d not found", id)
}

func newAdminProductDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "product-delete <id>",
		Short: "Delete a product, or deactivate it when orders reference it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := st.enter(ctx, domain.PathAdmin+"/products"); err != nil {
				return err
			}
			msg, err := st.admin.DeleteProduct(ctx, id)
			if err != nil {
				return failed(err, "Error deleting product")
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}

func newAdminOrdersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "List every order",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := st.enter(ctx, domain.PathAdmin+"/orders"); err != nil {
				return err
			}
			orders, err := st.admin.Orders(ctx)
			if err != nil {
				return failed(err, "Error fetching orders. "+adminFallback)
			}
			printOrders(cmd.OutOrStdout(), orders, true)
			return nil
		},
	}
}

func newAdminSetStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "set-status <order-id> <status>",
		Short:     "Change the status of an order",
		Args:      cobra.ExactArgs(2),
		ValidArgs: orderStatusNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := st.enter(ctx, domain.PathAdmin+"/orders"); err != nil {
				return err
			}
			msg, err := st.admin.SetOrderStatus(ctx, id, args[1])
			if err != nil {
				return failed(err, "Error updating order status.")
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}

func orderStatusNames() []string {
	out := make([]string, len(domain.OrderStatuses))
	for i, s := range domain.OrderStatuses {
		out[i] = string(s)
	}
	return out
}
