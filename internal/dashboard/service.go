package dashboard

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Varun984/Sparkathon-by-Walmart/internal/store"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/config"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/db/models"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/enums"
	pkgerrors "github.com/Varun984/Sparkathon-by-Walmart/pkg/errors"
)

const (
	savingsPerMigratedItem    = 15
	savingsPerHealthyNode     = 500
	criticalSeverity          = "critical"
	detailAlertLimit          = 10
	detailRelocationLimit     = 5
	defaultPreviousWindowDays = 7
)

// Service computes the dashboard and map read models.
type Service interface {
	Overview(ctx context.Context) (*Overview, error)
	Stats(ctx context.Context) (*Stats, error)
	Snapshot(ctx context.Context) ([]models.DashboardMetric, error)
	MapLocations(ctx context.Context) ([]MapLocation, error)
	MapLocationDetails(ctx context.Context, inventoryID int64) (*LocationDetails, error)
}

type service struct {
	store      *store.Store
	windowDays int
}

// Overview holds the live headline figures.
type Overview struct {
	TotalInventories int64 `json:"total_inventories"`
	CriticalAlerts   int64 `json:"critical_alerts"`
	ItemsMigrated    int64 `json:"items_migrated"`
	CostSavings      int64 `json:"cost_savings"`
	ReallocatedItems int64 `json:"reallocated_items"`
}

// NewService wires dashboard dependencies.
func NewService(s *store.Store, cfg config.GatewayConfig) (Service, error) {
	if s == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "dashboard store required")
	}
	days := cfg.PreviousMetricDays
	if days <= 0 {
		days = defaultPreviousWindowDays
	}
	return &service{store: s, windowDays: days}, nil
}

func (s *service) Overview(ctx context.Context) (*Overview, error) {
	var (
		out     Overview
		healthy int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.store.Inventories.Count(gctx, nil)
		out.TotalInventories = n
		return err
	})
	g.Go(func() error {
		n, err := s.store.Inventories.Count(gctx, map[string]any{"status": enums.InventoryStatusHealthy})
		healthy = n
		return err
	})
	g.Go(func() error {
		n, err := s.store.Alerts.Count(gctx, map[string]any{"is_resolved": false, "severity": criticalSeverity})
		out.CriticalAlerts = n
		return err
	})
	g.Go(func() error {
		n, err := s.store.RelocationQuantity(gctx, enums.RelocationStatusCompleted)
		out.ItemsMigrated = n
		return err
	})
	g.Go(func() error {
		n, err := s.store.RelocationQuantity(gctx, "")
		out.ReallocatedItems = n
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load dashboard overview")
	}
	out.CostSavings = CostSavings(out.ItemsMigrated, healthy)
	return &out, nil
}

// CostSavings credits every migrated item and every healthy inventory node.
func CostSavings(migrated, healthyInventories int64) int64 {
	return migrated*savingsPerMigratedItem + healthyInventories*savingsPerHealthyNode
}

// Snapshot returns the four metric rows the daily job stores.
func (s *service) Snapshot(ctx context.Context) ([]models.DashboardMetric, error) {
	overview, err := s.Overview(ctx)
	if err != nil {
		return nil, err
	}
	now := s.store.Now()
	values := map[enums.DashboardMetricType]int64{
		enums.DashboardMetricMigrated:       overview.ItemsMigrated,
		enums.DashboardMetricReallocated:    overview.ReallocatedItems,
		enums.DashboardMetricCostSavings:    overview.CostSavings,
		enums.DashboardMetricCriticalAlerts: overview.CriticalAlerts,
	}
	out := make([]models.DashboardMetric, 0, len(values))
	for _, metricType := range enums.DashboardMetricTypes() {
		out = append(out, models.DashboardMetric{
			MetricType: metricType,
			Value:      values[metricType],
			RecordedAt: now,
			Period:     models.DefaultMetricPeriod,
		})
	}
	return out, nil
}

func (s *service) previousValue(ctx context.Context, metricType enums.DashboardMetricType) (int64, bool, error) {
	rows, err := s.store.PreviousMetric(ctx, metricType, s.windowDays)
	if err != nil {
		return 0, false, err
	}
	if len(rows) == 0 {
		return 0, false, nil
	}
	return rows[0].Value, true, nil
}

func lastN[T any](rows []T, n int) []T {
	if len(rows) <= n {
		return rows
	}
	return rows[len(rows)-n:]
}
