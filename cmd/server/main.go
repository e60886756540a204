package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/ogurasousui/codex-staff-admin/internal/adapters/grpc/handler"
	"github.com/ogurasousui/codex-staff-admin/internal/app"
	"github.com/ogurasousui/codex-staff-admin/internal/core/reconcile"
	"github.com/ogurasousui/codex-staff-admin/internal/platform/config"
	"github.com/ogurasousui/codex-staff-admin/internal/platform/logger"
	"github.com/ogurasousui/codex-staff-admin/internal/platform/server"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(config.ResolvePath(*configPath))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	l, err := logger.New(cfg.Log, os.Stdout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize logger")
	}

	storage, err := app.OpenStorage(ctx, cfg, l)
	if err != nil {
		l.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("failed to open storage")
	}
	defer storage.Close()

	services := app.NewServices(storage, cfg.Membership, l)
	staff := handler.NewStaffAdminHandler(services.Employees, services.Departments, services.Reconciler)
	grpcServer := server.New(cfg.Server.ListenAddr, staff, server.Options{
		RequestTimeout: cfg.Server.RequestTimeout,
		Logger:         l,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return grpcServer.Run(gctx)
	})
	g.Go(func() error {
		return services.Reconciler.RunEvery(gctx, cfg.Membership.ReconcileInterval, func(r reconcile.Result) {
			l.Info().Int("sync_count", r.SyncCount).Int("clean_count", r.CleanCount).Msg("scheduled reconciliation finished")
		})
	})

	if err := g.Wait(); err != nil {
		l.Error().Err(err).Msg("server stopped with error")
		storage.Close()
		os.Exit(1)
	}

	l.Info().Msg("server stopped")
}
