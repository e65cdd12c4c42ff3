package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"menucart/internal/checkout"
	"menucart/internal/lookup"
	"menucart/internal/models"

	"github.com/spf13/cobra"
)

func newCheckoutCmd(a *app) *cobra.Command {
	var (
		details  models.UserDetails
		payment  string
		appendTo string
	)

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place the cart as an order, or add it to an order placed earlier",
		Long: `Places the cart as a new order. With --append, the cart is merged into an
existing order instead: quantities of items already ordered are increased and
the total is recalculated. Contact details default to the existing order's.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			method, err := models.ParsePaymentMethod(payment)
			if err != nil {
				return err
			}

			c := a.cart(ctx)
			reconciler := checkout.NewReconciler(c, a.client, a.sessions(), lookup.NewHistory(a.kv), a.kv, a.logger)
			req := checkout.Request{Details: details, Mode: checkout.ModeNew, PaymentMethod: method}

			if appendTo != "" {
				existing, err := a.resolveOrder(ctx, appendTo)
				if err != nil {
					return err
				}
				req.Mode = checkout.ModeAppend
				req.Existing = existing
				fmt.Fprintf(out, "Adding %d items to %s, estimated total %s\n",
					c.Totals().TotalItems, existing.ID, money(reconciler.PreviewTotal(existing)))
			}

			order, err := reconciler.Submit(ctx, req)
			if err != nil {
				var verr *checkout.ValidationError
				if errors.As(err, &verr) {
					renderValidation(out, verr)
				}
				return err
			}

			fmt.Fprintln(out, okStyle.Render("Order confirmed."))
			renderOrder(out, order)
			fmt.Fprintf(out, "Keep your order code %s to look it up or add to it later.\n", headingStyle.Render(order.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&details.Name, "name", "", "your name")
	cmd.Flags().StringVar(&details.Phone, "phone", "", "phone number (at least 10 characters)")
	cmd.Flags().StringVar(&details.Email, "email", "", "email address")
	cmd.Flags().StringVar(&payment, "payment", string(models.PaymentCash), "payment method: cash or card")
	cmd.Flags().StringVar(&appendTo, "append", "", "order code to add the cart to")
	return cmd
}

// resolveOrder finds an order by code on the backend, falling back to this
// device's history only when the backend cannot be reached.
func (a *app) resolveOrder(ctx context.Context, code string) (*models.Order, error) {
	order, err := lookup.NewRemote(a.client).FindOrder(ctx, code)
	if err == nil {
		return order, nil
	}
	if errors.Is(err, lookup.ErrNotFound) {
		return nil, fmt.Errorf("no order found for code %q", code)
	}
	a.logger.Warn("backend lookup failed, using local history", "code", code, "error", err)
	order, lerr := lookup.NewHistory(a.kv).FindOrder(ctx, code)
	if lerr != nil {
		if errors.Is(lerr, lookup.ErrNotFound) {
			return nil, err
		}
		return nil, lerr
	}
	return order, nil
}

func renderValidation(w io.Writer, verr *checkout.ValidationError) {
	fields := make([]string, 0, len(verr.Fields))
	for f := range verr.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		fmt.Fprintf(w, "  %s: %s\n", f, errorStyle.Render(verr.Fields[f]))
	}
}
