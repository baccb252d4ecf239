package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/Varun984/Sparkathon-by-Walmart/api/controllers"
	"github.com/Varun984/Sparkathon-by-Walmart/api/routes"
	"github.com/Varun984/Sparkathon-by-Walmart/internal/dashboard"
	"github.com/Varun984/Sparkathon-by-Walmart/internal/gateway"
	"github.com/Varun984/Sparkathon-by-Walmart/internal/loadbalancer"
	"github.com/Varun984/Sparkathon-by-Walmart/internal/relocations"
	"github.com/Varun984/Sparkathon-by-Walmart/internal/store"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/config"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/instance"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/db"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/logger"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/metrics"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/migrate"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/redis"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/security"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	ready := map[string]controllers.Pinger{"db": dbClient}
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
		ready["redis"] = redisClient
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
	reloc, err := relocations.NewService(s, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create relocation service", err)
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

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"addr":     addr,
		"instance": instance.GetID(),
		"dialect":  dbClient.Dialect(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			Gateway:     gw,
			Dashboard:   dash,
			Relocations: reloc,
			Balancer:    balancer,
			Hasher:      security.NewHasher(cfg.Password),
			Ready:       ready,
			HTTPMetrics: metrics.NewHTTPMetrics(prometheus.DefaultRegisterer),
		}),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "api server shut down gracefully")
}
