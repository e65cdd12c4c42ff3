package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"menucart/internal/cart"
	"menucart/internal/models"

	"github.com/spf13/cobra"
)

func newCartCmd(a *app) *cobra.Command {
	cartCmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the cart kept on this device",
	}

	addCmd := &cobra.Command{
		Use:   "add [item-id] [quantity]",
		Short: "Add an item to the cart (quantity defaults to 1)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty := 1
			if len(args) == 2 {
				n, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid quantity %q", args[1])
				}
				qty = n
			}
			ctx := cmd.Context()
			item, err := a.findItem(ctx, args[0])
			if err != nil {
				return err
			}
			c := a.cart(ctx)
			if err := c.AddWithinStock(ctx, *item, qty); err != nil {
				return addError(item, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s. Cart now holds %d.\n", item.Name, c.Quantity(item.ID))
			return nil
		},
	}

	setCmd := &cobra.Command{
		Use:   "set [item-id] [quantity]",
		Short: "Set the quantity of an item; 0 removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			ctx := cmd.Context()
			c := a.cart(ctx)
			current := c.Quantity(args[0])
			if qty > current {
				// Increases are checked against stock like any other add.
				item, err := a.findItem(ctx, args[0])
				if err != nil {
					return err
				}
				if err := c.AddWithinStock(ctx, *item, qty-current); err != nil {
					return addError(item, err)
				}
			} else if err := c.UpdateQuantity(ctx, args[0], qty); err != nil {
				return err
			}
			renderCart(cmd.OutOrStdout(), c.Lines(), c.Totals())
			return nil
		},
	}

	removeCmd := &cobra.Command{
		Use:   "remove [item-id]",
		Short: "Remove an item from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c := a.cart(ctx)
			if err := c.Remove(ctx, args[0]); err != nil {
				return err
			}
			renderCart(cmd.OutOrStdout(), c.Lines(), c.Totals())
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the cart and its total",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := a.cart(cmd.Context())
			renderCart(cmd.OutOrStdout(), c.Lines(), c.Totals())
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.cart(ctx).Clear(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cart cleared.")
			return nil
		},
	}

	cartCmd.AddCommand(addCmd, setCmd, removeCmd, showCmd, clearCmd)
	return cartCmd
}

// findItem resolves id against the current menu and refuses items that cannot
// be ordered.
func (a *app) findItem(ctx context.Context, id string) (*models.MenuItem, error) {
	data, err := a.loadMenu(ctx)
	if err != nil {
		return nil, fmt.Errorf("menu unavailable: %w", err)
	}
	item := data.FindItem(id)
	if item == nil {
		return nil, fmt.Errorf("item %q is not on the menu", id)
	}
	if !item.IsAvailable || item.AvailableQty == 0 {
		return nil, fmt.Errorf("%s is not available right now", item.Name)
	}
	return item, nil
}

func addError(item *models.MenuItem, err error) error {
	if errors.Is(err, cart.ErrStockExceeded) {
		return fmt.Errorf("only %d %s left today", item.AvailableQty, item.Name)
	}
	return err
}
