package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/Varun984/Sparkathon-by-Walmart/internal/repo"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/config"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/db/models"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/enums"
)

// Store bundles one repository per record kind plus the cross-table queries.
type Store struct {
	repo.Base
	cfg config.GatewayConfig

	Locations        *repo.Repository[models.Location]
	Inventories      *repo.Repository[models.Inventory]
	Items            *repo.Repository[models.Item]
	InventoryItems   *repo.Repository[models.InventoryItem]
	TriggerMessages  *repo.Repository[models.TriggerMessage]
	Relocations      *repo.Repository[models.RelocationMessage]
	Forecasts        *repo.Repository[models.ForecastingMetric]
	DemandHistory    *repo.Repository[models.DemandHistory]
	Alerts           *repo.Repository[models.RealTimeAlert]
	Admins           *repo.Repository[models.Admin]
	SpikeMonitoring  *repo.Repository[models.SpikeMonitoring]
	DashboardMetrics *repo.Repository[models.DashboardMetric]
}

// New builds every repository against db.
func New(db *gorm.DB, cfg config.GatewayConfig) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("store: db required")
	}
	s := &Store{Base: repo.NewBase(db), cfg: cfg}

	var err error
	if s.Locations, err = repo.New[models.Location](db); err != nil {
		return nil, err
	}
	if s.Inventories, err = repo.New[models.Inventory](db); err != nil {
		return nil, err
	}
	if s.Items, err = repo.New[models.Item](db); err != nil {
		return nil, err
	}
	if s.InventoryItems, err = repo.New[models.InventoryItem](db); err != nil {
		return nil, err
	}
	if s.TriggerMessages, err = repo.New[models.TriggerMessage](db); err != nil {
		return nil, err
	}
	if s.Relocations, err = repo.New[models.RelocationMessage](db); err != nil {
		return nil, err
	}
	if s.Forecasts, err = repo.New[models.ForecastingMetric](db); err != nil {
		return nil, err
	}
	if s.DemandHistory, err = repo.New[models.DemandHistory](db); err != nil {
		return nil, err
	}
	if s.Alerts, err = repo.New[models.RealTimeAlert](db); err != nil {
		return nil, err
	}
	if s.Admins, err = repo.New[models.Admin](db); err != nil {
		return nil, err
	}
	if s.SpikeMonitoring, err = repo.New[models.SpikeMonitoring](db); err != nil {
		return nil, err
	}
	if s.DashboardMetrics, err = repo.New[models.DashboardMetric](db); err != nil {
		return nil, err
	}
	return s, nil
}

// WithTx returns a copy whose repositories all run on tx.
func (s *Store) WithTx(tx *gorm.DB) *Store {
	if tx == nil {
		return s
	}
	return &Store{
		Base:             s.Base.WithTx(tx),
		cfg:              s.cfg,
		Locations:        s.Locations.WithTx(tx),
		Inventories:      s.Inventories.WithTx(tx),
		Items:            s.Items.WithTx(tx),
		InventoryItems:   s.InventoryItems.WithTx(tx),
		TriggerMessages:  s.TriggerMessages.WithTx(tx),
		Relocations:      s.Relocations.WithTx(tx),
		Forecasts:        s.Forecasts.WithTx(tx),
		DemandHistory:    s.DemandHistory.WithTx(tx),
		Alerts:           s.Alerts.WithTx(tx),
		Admins:           s.Admins.WithTx(tx),
		SpikeMonitoring:  s.SpikeMonitoring.WithTx(tx),
		DashboardMetrics: s.DashboardMetrics.WithTx(tx),
	}
}

// Transaction runs fn with a transactional copy of the store.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.Base.Transaction(ctx, func(tx *gorm.DB) error {
		return fn(s.WithTx(tx))
	})
}

// Summary holds the four headline counts.
type Summary struct {
	TotalInventories   int64 `json:"totalInventories"`
	TotalItems         int64 `json:"totalItems"`
	UnresolvedAlerts   int64 `json:"unresolvedAlerts"`
	PendingRelocations int64 `json:"pendingRelocations"`
}

// DashboardSummary counts inventories, items, unresolved alerts and pending
// relocations. In snapshot mode the counts share one read-only transaction;
// otherwise they run concurrently and may observe different points in time.
func (s *Store) DashboardSummary(ctx context.Context) (Summary, error) {
	if s.cfg.Snapshot() {
		var out Summary
		err := s.Base.Transaction(ctx, func(tx *gorm.DB) error {
			var err error
			out, err = s.WithTx(tx).countSequential(ctx)
			return err
		}, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
		return out, err
	}

	var out Summary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.TotalInventories, err = s.Inventories.Count(gctx, nil)
		return err
	})
	g.Go(func() (err error) {
		out.TotalItems, err = s.Items.Count(gctx, nil)
		return err
	})
	g.Go(func() (err error) {
		out.UnresolvedAlerts, err = s.Alerts.Count(gctx, map[string]any{"is_resolved": false})
		return err
	})
	g.Go(func() (err error) {
		out.PendingRelocations, err = s.Relocations.Count(gctx, map[string]any{"status": enums.RelocationStatusPending})
		return err
	})
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}
	return out, nil
}

func (s *Store) countSequential(ctx context.Context) (Summary, error) {
	var out Summary
	var err error
	if out.TotalInventories, err = s.Inventories.Count(ctx, nil); err != nil {
		return Summary{}, err
	}
	if out.TotalItems, err = s.Items.Count(ctx, nil); err != nil {
		return Summary{}, err
	}
	if out.UnresolvedAlerts, err = s.Alerts.Count(ctx, map[string]any{"is_resolved": false}); err != nil {
		return Summary{}, err
	}
	if out.PendingRelocations, err = s.Relocations.Count(ctx, map[string]any{"status": enums.RelocationStatusPending}); err != nil {
		return Summary{}, err
	}
	return out, nil
}

// UnresolvedAlerts lists open alerts, newest first.
func (s *Store) UnresolvedAlerts(ctx context.Context) ([]models.RealTimeAlert, error) {
	return s.Alerts.Find(ctx, repo.Query{
		Where: map[string]any{"is_resolved": false},
		Order: "created_at DESC, id DESC",
	})
}

// ResolveAlert marks an alert resolved now. An unknown id yields no rows.
func (s *Store) ResolveAlert(ctx context.Context, id int64) ([]models.RealTimeAlert, error) {
	return s.Alerts.UpdateByID(ctx, id, repo.Patch{
		"is_resolved": true,
		"resolved_at": s.Now(),
	})
}

// PreviousMetric returns the most recent sample of metricType recorded within
// the last daysBack days, if any.
func (s *Store) PreviousMetric(ctx context.Context, metricType enums.DashboardMetricType, daysBack int) ([]models.DashboardMetric, error) {
	cutoff := s.Now().AddDate(0, 0, -daysBack)
	return s.DashboardMetrics.Find(ctx, repo.Query{
		Where:      map[string]any{"metric_type": metricType},
		Conditions: []repo.Condition{{Expr: "recorded_at >= ?", Args: []any{cutoff}}},
		Order:      "recorded_at DESC, id DESC",
		Limit:      1,
	})
}

// MetricsOnDate returns every sample recorded on the UTC calendar day of date.
func (s *Store) MetricsOnDate(ctx context.Context, date time.Time) ([]models.DashboardMetric, error) {
	day := date.UTC()
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return s.DashboardMetrics.Find(ctx, repo.Query{
		Conditions: []repo.Condition{{Expr: "recorded_at >= ? AND recorded_at < ?", Args: []any{start, start.AddDate(0, 0, 1)}}},
		Order:      "recorded_at ASC, id ASC",
	})
}

// RelocationQuantity sums relocation quantities, optionally for one status.
func (s *Store) RelocationQuantity(ctx context.Context, status enums.RelocationStatus) (int64, error) {
	tx := s.DB(ctx).Model(&models.RelocationMessage{})
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	var total int64
	if err := tx.Select("COALESCE(SUM(quantity), 0)").Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
