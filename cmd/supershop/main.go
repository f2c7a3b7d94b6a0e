package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/supershop/supershop/internal/app"
	"github.com/supershop/supershop/internal/cart"
	"github.com/supershop/supershop/internal/checkout"
	"github.com/supershop/supershop/internal/console"
	"github.com/supershop/supershop/internal/inventory"
	"github.com/supershop/supershop/internal/ledger"
	"github.com/supershop/supershop/internal/platform/recordstore"
	"github.com/supershop/supershop/internal/receipt"
	"github.com/supershop/supershop/internal/reports"
	"github.com/supershop/supershop/internal/users"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		logger.Error("create data directory", slog.Any("error", err))
		os.Exit(1)
	}

	catalog := inventory.NewStore(
		recordstore.New(filepath.Join(cfg.DataDir, "products.dat")),
		recordstore.New(filepath.Join(cfg.DataDir, "categories.dat")),
		logger,
	)
	accounts := users.NewService(recordstore.New(filepath.Join(cfg.DataDir, "users.dat")), cfg.AdminKey, logger)
	purchases := ledger.New(recordstore.New(filepath.Join(cfg.DataDir, "purchases.dat")), logger)
	basket := cart.New(catalog, recordstore.New(filepath.Join(cfg.DataDir, "cart.dat")), logger)

	var g errgroup.Group
	g.Go(catalog.Load)
	g.Go(accounts.Load)
	g.Go(purchases.Load)
	if err := g.Wait(); err != nil {
		logger.Error("load stores", slog.Any("error", err))
		os.Exit(1)
	}
	// The cart references catalog snapshots, load it after the catalog.
	if err := basket.Load(); err != nil {
		logger.Error("load cart", slog.Any("error", err))
		os.Exit(1)
	}

	coordinator := checkout.NewCoordinator(
		basket,
		catalog,
		purchases,
		receipt.NewWriter(cfg.ReceiptDir),
		decimal.NewFromFloat(cfg.VIPDiscount),
		logger,
	)
	reporting := reports.NewService(purchases)

	ui := console.New(os.Stdin, os.Stdout, accounts, catalog, basket, coordinator, purchases, reporting, cfg.LowStockThreshold)
	if err := ui.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("console session", slog.Any("error", err))
		os.Exit(1)
	}
}
