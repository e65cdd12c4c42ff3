package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"menucart/internal/cart"
	"menucart/internal/models"

	"github.com/charmbracelet/lipgloss"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

var statusStyles = map[models.OrderStatus]lipgloss.Style{
	models.StatusPending:   warnStyle,
	models.StatusPreparing: lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
	models.StatusServed:    okStyle,
	models.StatusCompleted: mutedStyle,
	models.StatusCancelled: errorStyle,
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func statusLabel(s models.OrderStatus) string {
	if style, ok := statusStyles[s]; ok {
		return style.Render(string(s))
	}
	return string(s)
}

func renderMenu(w io.Writer, data *models.MenuData, inCart func(id string) int) {
	fmt.Fprintln(w, headingStyle.Render(data.RestaurantName))
	if len(data.Categories) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No items available right now."))
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, c := range data.Categories {
		fmt.Fprintf(tw, "\n%s\n", headingStyle.Render(c.Name))
		for _, item := range c.Items {
			avail := fmt.Sprintf("%d left", item.AvailableQty)
			switch {
			case !item.IsAvailable:
				avail = errorStyle.Render("unavailable")
			case item.AvailableQty == 0:
				avail = errorStyle.Render("sold out")
			case item.AvailableQty <= 3:
				avail = warnStyle.Render(avail)
			}
			held := ""
			if inCart != nil {
				if n := inCart(item.ID); n > 0 {
					held = fmt.Sprintf("in cart: %d", n)
				}
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n", item.ID, item.Name, money(item.Price), avail, held)
		}
	}
	tw.Flush()
}

func renderLines(w io.Writer, lines []models.CartLine) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, l := range lines {
		fmt.Fprintf(tw, "  %s\t%s\tx%d\t%s\n", l.ID, l.Name, l.Quantity, money(l.Price*float64(l.Quantity)))
	}
	tw.Flush()
}

func renderCart(w io.Writer, lines []models.CartLine, totals cart.Totals) {
	if len(lines) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("Your cart is empty."))
		return
	}
	fmt.Fprintln(w, headingStyle.Render("Cart"))
	renderLines(w, lines)
	fmt.Fprintf(w, "%d items, total %s\n", totals.TotalItems, money(totals.TotalPrice))
}

func renderOrder(w io.Writer, o *models.Order) {
	fmt.Fprintf(w, "%s  %s\n", headingStyle.Render("Order "+o.ID), statusLabel(o.Status))
	if o.TableID != "" {
		fmt.Fprintf(w, "Table: %s\n", o.TableID)
	}
	if o.UserDetails.Name != "" {
		fmt.Fprintf(w, "Customer: %s (%s)\n", o.UserDetails.Name, o.UserDetails.Phone)
	}
	if !o.CreatedAt.IsZero() {
		fmt.Fprintf(w, "Placed: %s\n", o.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	renderLines(w, o.Items)
	payment := string(o.PaymentMethod)
	if o.PaymentStatus != "" {
		payment += ", " + string(o.PaymentStatus)
	}
	fmt.Fprintf(w, "Total: %s (%s)\n", money(o.Total), payment)
}

func renderBoard(w io.Writer, orders []models.Order) {
	if len(orders) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No orders."))
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTABLE\tSTATUS\tITEMS\tTOTAL\tPLACED")
	for _, o := range orders {
		names := make([]string, 0, len(o.Items))
		for _, l := range o.Items {
			names = append(names, fmt.Sprintf("%dx %s", l.Quantity, l.Name))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", o.ID, o.TableID, statusLabel(o.Status),
			strings.Join(names, ", "), money(o.Total), o.CreatedAt.Local().Format("15:04"))
	}
	tw.Flush()
}
