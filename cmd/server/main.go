package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ogurasousui/codex-grpc-sales-admin/internal/adapters/repository/postgres"
	"github.com/ogurasousui/codex-grpc-sales-admin/internal/core/datachange"
	"github.com/ogurasousui/codex-grpc-sales-admin/internal/core/department"
	"github.com/ogurasousui/codex-grpc-sales-admin/internal/core/seller"
	"github.com/ogurasousui/codex-grpc-sales-admin/internal/platform/config"
	pg "github.com/ogurasousui/codex-grpc-sales-admin/internal/platform/db/postgres"
	"github.com/ogurasousui/codex-grpc-sales-admin/internal/platform/logger"
	"github.com/ogurasousui/codex-grpc-sales-admin/internal/platform/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(config.PathFromEnv())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	dbPool, err := pg.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Error("failed to initialize database pool", zap.Error(err))
		return err
	}
	defer dbPool.Close()

	txManager := pg.NewTransactionManager(dbPool)

	events := datachange.NewRegistry()
	events.Subscribe(datachange.ListenerFunc(func(_ context.Context, e datachange.Event) {
		log.Info("data changed",
			zap.String("event_id", e.ID),
			zap.String("entity", e.Entity),
			zap.String("action", string(e.Action)),
			zap.Int64("entity_id", e.EntityID),
		)
	}))

	departmentRepo := postgres.NewDepartmentRepository(dbPool)
	sellerRepo := postgres.NewSellerRepository(dbPool)

	departmentSvc := department.NewService(departmentRepo, events, txManager)
	sellerSvc := seller.NewService(sellerRepo, departmentRepo, events, txManager)

	grpcServer := server.New(cfg.Server.ListenAddr, server.Services{
		Departments: departmentSvc,
		Sellers:     sellerSvc,
		Events:      events,
	}, log)

	if err := grpcServer.Run(ctx); err != nil {
		log.Error("server stopped with error", zap.Error(err))
		return err
	}

	log.Info("server stopped")
	return nil
}
