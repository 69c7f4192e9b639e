package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ogurasousui/hc-talent-grpc/internal/app"
	"github.com/ogurasousui/hc-talent-grpc/internal/platform/config"
	"github.com/ogurasousui/hc-talent-grpc/internal/platform/logger"
	"github.com/ogurasousui/hc-talent-grpc/internal/platform/metrics"
	"github.com/ogurasousui/hc-talent-grpc/internal/platform/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	application, err := app.New(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("failed to initialize application", zap.Error(err))
	}
	defer func() {
		if err := application.Close(); err != nil {
			zl.Warn("failed to close application", zap.Error(err))
		}
	}()

	grpcServer := server.New(cfg.Server.ListenAddr, server.Services{
		Employee:  application.Employee,
		Audit:     application.Audit,
		Dashboard: application.Dashboard,
		Operator:  application.Operator,
	}, zl.Named("grpc"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return grpcServer.Run(gctx)
	})
	if cfg.Server.MetricsAddr != "" {
		metricsServer := metrics.NewServer(cfg.Server.MetricsAddr)
		g.Go(func() error {
			zl.Info("metrics server listening", zap.String("addr", cfg.Server.MetricsAddr))
			return metricsServer.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		zl.Error("server stopped with error", zap.Error(err))
		os.Exit(1)
	}
	zl.Info("server stopped")
}
