package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/Varun984/Sparkathon-by-Walmart/internal/cron"
	"github.com/Varun984/Sparkathon-by-Walmart/internal/dashboard"
	"github.com/Varun984/Sparkathon-by-Walmart/internal/gateway"
	"github.com/Varun984/Sparkathon-by-Walmart/internal/loadbalancer"
	"github.com/Varun984/Sparkathon-by-Walmart/internal/store"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/config"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/db"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/instance"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/logger"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/metrics"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/migrate"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/redis"
)

const (
	lockName     = "cron-worker"
	scanLockName = "cron-worker-scan"
)

func main() {
	once := flag.Bool("once", false, "run every job a single time and exit")
	only := flag.String("job", "", "with -once, run just the named job")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
		Fields:      map[string]any{"env": cfg.App.Env},
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var dailyLock, scanLock cron.Lock = &cron.LocalLock{}, &cron.LocalLock{}
	if redis.Configured(cfg.Redis) {
		redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		if dailyLock, err = cron.NewRedisLock(redisClient, redisClient.LockKey(lockName), cfg.Cron.LockTTL); err != nil {
			logg.Error(context.Background(), "failed to create cron lock", err)
			os.Exit(1)
		}
		if scanLock, err = cron.NewRedisLock(redisClient, redisClient.LockKey(scanLockName), cfg.Cron.LockTTL); err != nil {
			logg.Error(context.Background(), "failed to create scan lock", err)
			os.Exit(1)
		}
	}

	s, err := store.New(dbClient.DB(), cfg.Gateway)
	if err != nil {
		logg.Error(context.Background(), "failed to create store", err)
		os.Exit(1)
	}
	gw, err := gateway.New(gateway.Options{
		Store:   s,
		Config:  cfg.Gateway,
		Logger:  logg,
		Metrics: metrics.NewGatewayMetrics(prometheus.DefaultRegisterer),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create gateway", err)
		os.Exit(1)
	}
	dash, err := dashboard.NewService(s, cfg.Gateway)
	if err != nil {
		logg.Error(context.Background(), "failed to create dashboard service", err)
		os.Exit(1)
	}

	dailyMetrics, err := cron.NewDailyMetricsJob(cron.DailyMetricsJobParams{
		Logger:    logg,
		Dashboard: dash,
		Recorder:  gw.DashboardMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create daily metrics job", err)
		os.Exit(1)
	}

	balancer, err := loadbalancer.NewService(loadbalancer.Params{
		Store:   s,
		Logger:  logg,
		Metrics: metrics.NewLoadBalancerMetrics(prometheus.DefaultRegisterer),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create load balancer", err)
		os.Exit(1)
	}
	scanJob, err := cron.NewLoadBalancerJob(cron.LoadBalancerJobParams{Logger: logg, Balancer: balancer})
	if err != nil {
		logg.Error(context.Background(), "failed to create load balancer job", err)
		os.Exit(1)
	}

	dailyRegistry := cron.NewRegistry(dailyMetrics)
	scanRegistry := cron.NewRegistry(scanJob)
	if *only != "" {
		all := cron.NewRegistry(dailyMetrics, scanJob)
		if _, ok := all.Lookup(*only); !ok {
			logg.Error(context.Background(), "unknown cron job", fmt.Errorf("job %q not registered; have %v", *only, all.Names()))
			os.Exit(1)
		}
		dailyRegistry = onlyJob(dailyRegistry, *only)
		scanRegistry = onlyJob(scanRegistry, *only)
	}

	jobMetrics := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)
	daily, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: dailyRegistry,
		Lock:     dailyLock,
		Metrics:  jobMetrics,
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}
	scan, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: scanRegistry,
		Lock:     scanLock,
		Metrics:  jobMetrics,
		Interval: cfg.Cron.ScanInterval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create scan service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"serviceKind":   cfg.Service.Kind,
		"instance":      instance.GetID(),
		"interval":      daily.Interval().String(),
		"scan_interval": scan.Interval().String(),
	})

	if *once {
		logg.Info(ctx, "running cron jobs once")
		if err := errors.Join(daily.RunOnce(ctx), scan.RunOnce(ctx)); err != nil {
			logg.Error(ctx, "cron run failed", err)
			os.Exit(1)
		}
		return
	}

	logg.Info(ctx, "starting cron worker")
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return daily.Run(gctx) })
	g.Go(func() error { return scan.Run(gctx) })
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

// onlyJob narrows a registry to the named job, leaving it empty when the job
// belongs to another schedule.
func onlyJob(registry *cron.Registry, name string) *cron.Registry {
	if job, ok := registry.Lookup(name); ok {
		return cron.NewRegistry(job)
	}
	return cron.NewRegistry()
}
