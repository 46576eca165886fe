package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ecoshop/storefront/internal/core/domain"
)

func newProductsCmd() *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List or search the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := st.enter(ctx, domain.PathHome); err != nil {
				return err
			}
			products, err := st.catalog.Search(ctx, search)
			if err != nil {
				return failed(err, "Error fetching products")
			}
			printProducts(cmd.OutOrStdout(), products)
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Only show products whose name matches")
	return cmd
}

func newCartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show and change your cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := st.enter(ctx, domain.PathCart); err != nil {
				return err
			}
			view, err := st.cart.Refresh(ctx)
			if err != nil {
				return failed(err, "Error fetching cart")
			}
			printCart(cmd.OutOrStdout(), view)
			return nil
		},
	}

	cmd.AddCommand(newCartAddCmd(), newCartSetCmd(), newCartRemoveCmd(), newCheckoutCmd())
	return cmd
}

func newCartAddCmd() *cobra.Command {
	var quantity int

	cmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			productID, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := st.enter(ctx, domain.PathCart)
			if err != nil {
				if s.State == domain.StateAnonymous {
					return errAddNeedsLogin
				}
				return err
			}
			if !domain.Can(s, domain.CapAddToCart) {
				return errCustomerOnly
			}

			view, err := st.cart.Add(ctx, productID, quantity)
			if err != nil {
				return failed(err, "Error adding product to cart")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Product added to cart successfully!")
			printCart(cmd.OutOrStdout(), view)
			return nil
		},
	}

	cmd.Flags().IntVarP(&quantity, "quantity", "q", 1, "Units to add")
	return cmd
}

func newCartSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <line-id> <quantity>",
		Short: "Change the quantity of a cart line (0 removes it)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			lineID, err := parseID(args[0])
			if err != nil {
				return err
			}
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			if _, err := st.enter(ctx, domain.PathCart); err != nil {
				return err
			}

			view, err := st.cart.UpdateQuantity(ctx, lineID, quantity)
			if err != nil {
				return failed(err, "Error updating quantity")
			}
			printCart(cmd.OutOrStdout(), view)
			return nil
		},
	}
}

func newCartRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <line-id>",
		Aliases: []string{"rm"},
		Short:   "Remove a line from the cart",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			lineID, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := st.enter(ctx, domain.PathCart); err != nil {
				return err
			}

			view, err := st.cart.Remove(ctx, lineID)
			if err != nil {
				return failed(err, "Error removing item")
			}
			printCart(cmd.OutOrStdout(), view)
			return nil
		},
	}
}

func newCheckoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for everything in the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := st.enter(ctx, domain.PathCart); err != nil {
				return err
			}

			msg, _, err := st.cart.Checkout(ctx)
			if err != nil {
				return failed(err, "Error placing order")
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}

func newOrdersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "Show your order history",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := st.enter(ctx, domain.PathOrders); err != nil {
				return err
			}
			orders, err := st.orders.History(ctx)
			if err != nil {
				return failed(err, "Error fetching orders")
			}
			printOrders(cmd.OutOrStdout(), orders, false)
			return nil
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
