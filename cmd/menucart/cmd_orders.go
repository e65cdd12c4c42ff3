package main

import (
	"errors"
	"fmt"

	"menucart/internal/checkout"
	"menucart/internal/lookup"
	"menucart/internal/session"

	"github.com/spf13/cobra"
)

func newLookupCmd(a *app) *cobra.Command {
	var local bool
	cmd := &cobra.Command{
		Use:   "lookup [order-code]",
		Short: "Find an order by its code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var finder lookup.Finder = lookup.NewRemote(a.client)
			if local {
				finder = lookup.NewHistory(a.kv)
			}
			order, err := finder.FindOrder(ctx, args[0])
			if errors.Is(err, lookup.ErrNotFound) {
				return fmt.Errorf("no order found for code %q", args[0])
			}
			if err != nil {
				return err
			}
			renderOrder(cmd.OutOrStdout(), order)
			return nil
		},
	}
	cmd.Flags().BoolVar(&local, "local", false, "search only orders placed from this device")
	return cmd
}

func newOrderCmd(a *app) *cobra.Command {
	orderCmd := &cobra.Command{
		Use:   "order",
		Short: "Inspect orders placed from this device",
	}

	lastCmd := &cobra.Command{
		Use:   "last",
		Short: "Show the confirmation for the most recent order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			order, ok, err := checkout.LastOrder(cmd.Context(), a.kv)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("No order has been placed from this device."))
				return nil
			}
			renderOrder(cmd.OutOrStdout(), order)
			return nil
		},
	}

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List every order placed from this device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orders, err := lookup.NewHistory(a.kv).All(cmd.Context())
			if err != nil {
				return err
			}
			renderBoard(cmd.OutOrStdout(), orders)
			return nil
		},
	}

	orderCmd.AddCommand(lastCmd, historyCmd)
	return orderCmd
}

func newSessionCmd(a *app) *cobra.Command {
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Show or reset this device's table session",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the session id and table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.sessions().GetOrCreate(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Session: %s\nTable: %s\n", id, sessionTable(id))
			return nil
		},
	}

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Forget the session; the next order starts a new one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.sessions().Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Session cleared.")
			return nil
		},
	}

	sessionCmd.AddCommand(showCmd, resetCmd)
	return sessionCmd
}

func sessionTable(id string) string {
	if table := session.TableID(id); table != "" {
		return table
	}
	return "unassigned"
}
