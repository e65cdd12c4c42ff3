package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"menucart/internal/kvstore"
	"menucart/internal/models"
	"menucart/internal/staff"

	"github.com/spf13/cobra"
)

func newStaffCmd(a *app) *cobra.Command {
	staffCmd := &cobra.Command{
		Use:   "staff",
		Short: "Kitchen staff commands",
	}

	var email, password string
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and keep the token on this device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			token, err := a.client.Login(ctx, email, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			if err := a.kv.Set(ctx, kvstore.KeyAuthToken, []byte(token)); err != nil {
				return fmt.Errorf("failed to store token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("Signed in as "+email))
			return nil
		},
	}
	loginCmd.Flags().StringVar(&email, "email", "", "staff email")
	loginCmd.Flags().StringVar(&password, "password", "", "staff password")
	loginCmd.MarkFlagRequired("email")
	loginCmd.MarkFlagRequired("password")

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.kv.Delete(cmd.Context(), kvstore.KeyAuthToken); err != nil {
				return err
			}
			a.client.SetToken("")
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}

	var filter string
	ordersCmd := &cobra.Command{
		Use:   "orders",
		Short: "List orders, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := parseFilter(filter)
			if err != nil {
				return err
			}
			orders, err := staff.NewPoller(a.client, 0, status, a.logger).Refresh(cmd.Context())
			if err != nil {
				return err
			}
			renderBoard(cmd.OutOrStdout(), orders)
			return nil
		},
	}
	ordersCmd.Flags().StringVar(&filter, "status", "", "only show orders with this status")

	var interval time.Duration
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the order board on screen, refreshing periodically",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := parseFilter(filter)
			if err != nil {
				return err
			}
			if interval <= 0 {
				interval = a.cfg.PollInterval
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			poller := staff.NewPoller(a.client, interval, status, a.logger)
			err = poller.Run(ctx, func(orders []models.Order) {
				fmt.Fprintf(out, "\n%s\n", mutedStyle.Render("Updated "+poller.LastUpdated().Format("15:04:05")))
				renderBoard(out, orders)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	watchCmd.Flags().StringVar(&filter, "status", "", "only show orders with this status")
	watchCmd.Flags().DurationVar(&interval, "interval", 0, "refresh interval (default from config, 30s)")

	statusCmd := &cobra.Command{
		Use:   "status [order-id] [status]",
		Short: "Move an order to pending, preparing, served, completed or cancelled",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := models.OrderStatus(args[1])
			poller := staff.NewPoller(a.client, 0, "", a.logger)
			if err := poller.UpdateStatus(cmd.Context(), args[0], status); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Order %s is now %s\n", args[0], statusLabel(status))
			return nil
		},
	}

	staffCmd.AddCommand(loginCmd, logoutCmd, ordersCmd, watchCmd, statusCmd)
	return staffCmd
}

func parseFilter(s string) (models.OrderStatus, error) {
	status := models.OrderStatus(s)
	if s != "" && !status.Valid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return status, nil
}
