package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"menucart/internal/apiclient"
	"menucart/internal/cart"
	"menucart/internal/config"
	"menucart/internal/kvstore"
	"menucart/internal/menu"
	"menucart/internal/models"
	"menucart/internal/session"

	"github.com/spf13/cobra"
)

// app holds the dependencies shared by every command. Fields that are already
// set when a command starts are kept, which lets tests inject them.
type app struct {
	configPath string
	storeFlag  string
	apiFlag    string

	cfg    *config.Client
	logger *slog.Logger
	kv     kvstore.Store
	client *apiclient.Client

	closer io.Closer
}

func (a *app) setup(cmd *cobra.Command) error {
	if a.cfg == nil {
		v, err := config.ClientViper(a.configPath)
		if err != nil {
			return err
		}
		if a.storeFlag != "" {
			v.Set("store", a.storeFlag)
		}
		if a.apiFlag != "" {
			v.Set("api_url", a.apiFlag)
		}
		cfg, err := config.LoadClient(v)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	if a.logger == nil {
		a.logger = config.NewLogger(cmd.ErrOrStderr(), a.cfg.LogFormat, a.cfg.LogLevel)
	}
	if a.kv == nil {
		kv, closer, err := openStore(cmd.Context(), a.cfg, a.logger)
		if err != nil {
			return err
		}
		a.kv, a.closer = kv, closer
	}
	if a.client == nil {
		a.client = apiclient.New(a.cfg.APIURL, a.cfg.Timeout)
	}

	raw, err := a.kv.Get(cmd.Context(), kvstore.KeyAuthToken)
	switch {
	case err == nil:
		a.client.SetToken(string(raw))
	case !errors.Is(err, kvstore.ErrNotFound):
		a.logger.Warn("failed to read stored staff token", "error", err)
	}
	return nil
}

func (a *app) teardown() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer.Close()
	a.closer = nil
	return err
}

func openStore(ctx context.Context, cfg *config.Client, logger *slog.Logger) (kvstore.Store, io.Closer, error) {
	switch cfg.Store {
	case "badger":
		db, err := kvstore.OpenBadger(kvstore.BadgerConfig{Path: cfg.DataDir})
		if err != nil {
			return nil, nil, err
		}
		return db, db, nil
	case "redis":
		rdb, err := kvstore.NewRedis(ctx, cfg.RedisURL, cfg.RedisKeys)
		if err != nil {
			return nil, nil, err
		}
		return rdb, rdb, nil
	case "memory":
		logger.Warn("using in-memory store; cart and orders are lost when the command exits")
		return kvstore.NewMemory(), nil, nil
	}
	return nil, nil, fmt.Errorf("unsupported store %q", cfg.Store)
}

func (a *app) menuSource() (menu.Source, error) {
	if a.cfg.MenuFile != "" {
		return menu.LoadFile(a.cfg.MenuFile)
	}
	return menu.NewRemote(a.client), nil
}

// loadMenu returns the catalog, or the offline placeholder together with the
// fetch error.
func (a *app) loadMenu(ctx context.Context) (*models.MenuData, error) {
	src, err := a.menuSource()
	if err != nil {
		return menu.Offline(), err
	}
	return menu.NewLoader(src, a.logger).Load(ctx)
}

func (a *app) cart(ctx context.Context) *cart.Store {
	return cart.NewStore(ctx, cart.NewKVPersister(a.kv), a.logger)
}

func (a *app) sessions() *session.Manager {
	return session.NewManager(a.kv, nil)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "menucart",
		Short:         "Order from the menu and manage the kitchen board",
		Long:          `menucart browses the restaurant menu, keeps a cart on this device, places and appends to orders, and lets staff move orders through the kitchen.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ./menucart.yaml or ~/.menucart/menucart.yaml)")
	root.PersistentFlags().StringVar(&a.storeFlag, "store", "", "device store: badger, redis or memory")
	root.PersistentFlags().StringVar(&a.apiFlag, "api", "", "backend API base URL")

	root.AddCommand(
		newMenuCmd(a),
		newCartCmd(a),
		newCheckoutCmd(a),
		newLookupCmd(a),
		newOrderCmd(a),
		newSessionCmd(a),
		newStaffCmd(a),
	)
	return root
}
