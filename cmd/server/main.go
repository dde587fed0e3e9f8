package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ogurasousui/personnel-promotion/internal/adapters/repository/postgres"
	"github.com/ogurasousui/personnel-promotion/internal/core/member"
	"github.com/ogurasousui/personnel-promotion/internal/core/promotion"
	"github.com/ogurasousui/personnel-promotion/internal/core/record"
	"github.com/ogurasousui/personnel-promotion/internal/platform/config"
	pg "github.com/ogurasousui/personnel-promotion/internal/platform/db/postgres"
	"github.com/ogurasousui/personnel-promotion/internal/platform/metrics"
	"github.com/ogurasousui/personnel-promotion/internal/platform/server"
	"github.com/ogurasousui/personnel-promotion/internal/platform/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
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

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(slog.String("service", cfg.Telemetry.ServiceName))

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Printf("failed to flush traces: %v", err)
		}
	}()

	statutes, err := config.LoadStatutes(cfg.Promotion.StatutesPath)
	if err != nil {
		log.Fatalf("failed to load statutes: %v", err)
	}
	engine, err := promotion.NewEngine(statutes)
	if err != nil {
		log.Fatalf("failed to build promotion engine: %v", err)
	}

	dbPool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to initialize database pool: %v", err)
	}
	defer dbPool.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	txManager := pg.NewTransactionManager(dbPool, pg.WithLockTimeout(cfg.Database.LockTimeout))
	memberRepo := postgres.NewMemberRepository(dbPool)
	recordRepo := postgres.NewRecordRepository(dbPool)
	promotionRepo := postgres.NewPromotionRepository(dbPool)

	promotionSvc := promotion.NewService(engine, memberRepo, recordRepo, promotionRepo, nil, txManager,
		promotion.WithRecorder(metrics.NewRecorder(registry)),
		promotion.WithLogger(logger),
	)
	memberSvc := member.NewService(memberRepo, nil, txManager, member.WithAdmission(promotionSvc))
	recordSvc := record.NewService(recordRepo, nil, txManager)

	grpcServer := server.New(cfg.Server.ListenAddr, server.Services{
		Members:    memberSvc,
		Records:    recordSvc,
		Promotions: promotionSvc,
	})

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Server.MetricsAddr != "" {
		router := metrics.NewRouter(registry, dbPool.Ping)
		g.Go(func() error {
			log.Printf("ops HTTP listening on %s", cfg.Server.MetricsAddr)
			return metrics.Serve(gctx, cfg.Server.MetricsAddr, router, cfg.Server.ShutdownTimeout)
		})
	}

	g.Go(func() error {
		log.Printf("gRPC server listening on %s", cfg.Server.ListenAddr)
		return grpcServer.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("server stopped with error: %v", err)
	}
}
