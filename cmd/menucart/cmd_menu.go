package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMenuCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Show the menu with prices and remaining stock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			data, err := a.loadMenu(ctx)
			out := cmd.OutOrStdout()
			if err != nil {
				fmt.Fprintln(out, warnStyle.Render("Could not reach the restaurant: "+err.Error()))
			}
			renderMenu(out, data, a.cart(ctx).Quantity)
			return nil
		},
	}
}
