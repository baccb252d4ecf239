package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Varun984/Sparkathon-by-Walmart/pkg/config"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/db/dbtest"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/db/models"
	dbtypes "github.com/Varun984/Sparkathon-by-Walmart/pkg/db/types"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/enums"
)

func newStore(t *testing.T, mode string) *Store {
	t.Helper()
	s, err := New(dbtest.Open(t), config.GatewayConfig{SummaryMode: mode, PreviousMetricDays: 7})
	require.NoError(t, err)
	return s
}

type seeded struct {
	loc  models.Location
	inv  models.Inventory
	inv2 models.Inventory
	item models.Item
}

func seed(t *testing.T, s *Store) seeded {
	t.Helper()
	ctx := context.Background()
	var out seeded
	out.loc = models.Location{Latitude: 37.77, Longitude: -122.41, Address: "1 Market St", City: "San Francisco", State: "CA", Country: "US", ZipCode: "94105"}
	require.NoError(t, s.Locations.Create(ctx, &out.loc))
	out.inv = models.Inventory{Location: "SF", Name: "MFC-SF", Description: "micro fc", VolumeOccupied: 100, VolumeAvailable: 50, VolumeReserved: 10, Threshold: 80, LocationID: out.loc.ID, Status: enums.InventoryStatusHealthy}
	require.NoError(t, s.Inventories.Create(ctx, &out.inv))
	out.inv2 = models.Inventory{Location: "SF", Name: "Store-SF", Description: "store", VolumeOccupied: 10, VolumeAvailable: 90, VolumeReserved: 0, Threshold: 20, LocationID: out.loc.ID}
	require.NoError(t, s.Inventories.Create(ctx, &out.inv2))
	out.item = models.Item{Name: "Water 24pk", Description: "bottled water", Price: 4.98, Weight: 9.5, Dimensions: "16x11x5"}
	require.NoError(t, s.Items.Create(ctx, &out.item))
	return out
}

func TestInventoryOverviewJoinsItemsAndLocation(t *testing.T) {
	s := newStore(t, config.SummaryModeIndependent)
	ctx := context.Background()
	d := seed(t, s)

	require.NoError(t, s.InventoryItems.Create(ctx, &models.InventoryItem{InventoryID: d.inv.ID, ItemID: d.item.ItemID, Quantity: 5}))

	rows, err := s.InventoryOverview(ctx, d.inv.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, d.inv.ID, rows[0].Inventory.ID)
	assert.Equal(t, enums.InventoryStatusHealthy, rows[0].Inventory.Status)
	require.NotNil(t, rows[0].InventoryItem)
	assert.Equal(t, 5, rows[0].InventoryItem.Quantity)
	require.NotNil(t, rows[0].Item)
	assert.Equal(t, "Water 24pk", rows[0].Item.Name)
	require.NotNil(t, rows[0].Location)
	assert.Equal(t, "1 Market St", rows[0].Location.Address)
	assert.Equal(t, "94105", rows[0].Location.ZipCode)
}

func TestInventoryOverviewOrdersByItemName(t *testing.T) {
	s := newStore(t, config.SummaryModeIndependent)
	ctx := context.Background()
	d := seed(t, s)

	apples := models.Item{Name: "Apples", Description: "fruit", Price: 1, Weight: 1, Dimensions: "1"}
	require.NoError(t, s.Items.Create(ctx, &apples))
	require.NoError(t, s.InventoryItems.Create(ctx, &models.InventoryItem{InventoryID: d.inv.ID, ItemID: d.item.ItemID, Quantity: 2}))
	require.NoError(t, s.InventoryItems.Create(ctx, &models.InventoryItem{InventoryID: d.inv.ID, ItemID: apples.ItemID, Quantity: 7}))

	rows, err := s.InventoryOverview(ctx, d.inv.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Apples", rows[0].Item.Name)
	assert.Equal(t, "Water 24pk", rows[1].Item.Name)
}

func TestInventoryOverviewEmptyInventoryAndUnknown(t *testing.T) {
	s := newStore(t, config.SummaryModeIndependent)
	ctx := context.Background()
	d := seed(t, s)

	rows, err := s.InventoryOverview(ctx, d.inv2.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].InventoryItem)
	assert.Nil(t, rows[0].Item)
	assert.NotNil(t, rows[0].Location)

	rows, err = s.InventoryOverview(ctx, 9999)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func seedSummary(t *testing.T, s *Store, d seeded) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.Alerts.Create(ctx, &models.RealTimeAlert{InventoryID: d.inv.ID, AlertType: "stockout", Severity: "critical", Message: "empty"}))
	require.NoError(t, s.Alerts.Create(ctx, &models.RealTimeAlert{InventoryID: d.inv.ID, AlertType: "overstock", Severity: "low", Message: "full", IsResolved: true}))
	require.NoError(t, s.Relocations.Create(ctx, &models.RelocationMessage{ItemID: d.item.ItemID, FromInventoryID: d.inv.ID, ToInventoryID: d.inv2.ID, Quantity: 10}))
	require.NoError(t, s.Relocations.Create(ctx, &models.RelocationMessage{ItemID: d.item.ItemID, FromInventoryID: d.inv.ID, ToInventoryID: d.inv2.ID, Quantity: 4, Status: enums.RelocationStatusCompleted}))
}

func TestDashboardSummaryModes(t *testing.T) {
	for _, mode := range []string{config.SummaryModeIndependent, config.SummaryModeSnapshot} {
		t.Run(mode, func(t *testing.T) {
			s := newStore(t, mode)
			d := seed(t, s)
			seedSummary(t, s, d)

			summary, err := s.DashboardSummary(context.Background())
			require.NoError(t, err)
			assert.Equal(t, Summary{TotalInventories: 2, TotalItems: 1, UnresolvedAlerts: 1, PendingRelocations: 1}, summary)
		})
	}
}

func TestRelocationQuantity(t *testing.T) {
	s := newStore(t, config.SummaryModeIndependent)
	ctx := context.Background()

	total, err := s.RelocationQuantity(ctx, "")
	require.NoError(t, err)
	assert.Zero(t, total)

	d := seed(t, s)
	seedSummary(t, s, d)

	total, err = s.RelocationQuantity(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(14), total)

	total, err = s.RelocationQuantity(ctx, enums.RelocationStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
}

func TestUnresolvedAlertsNewestFirst(t *testing.T) {
	s := newStore(t, config.SummaryModeIndependent)
	ctx := context.Background()
	d := seed(t, s)
	seedSummary(t, s, d)

	newer := models.RealTimeAlert{InventoryID: d.inv.ID, AlertType: "demand_spike", Severity: "high", Message: "spike"}
	require.NoError(t, s.Alerts.Create(ctx, &newer))

	alerts, err := s.UnresolvedAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, newer.ID, alerts[0].ID)
	for _, a := range alerts {
		assert.False(t, a.IsResolved)
	}

	resolved, err := s.ResolveAlert(ctx, newer.ID)
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.True(t, resolved[0].IsResolved)
	require.NotNil(t, resolved[0].ResolvedAt)

	alerts, err = s.UnresolvedAlerts(ctx)
	require.NoError(t, err)
	assert.Len(t, alerts, 1)

	resolved, err = s.ResolveAlert(ctx, 777)
	require.NoError(t, err)
	assert.Empty(t, resolved)
}

func TestPreviousMetricWindow(t *testing.T) {
	s := newStore(t, config.SummaryModeIndependent)
	ctx := context.Background()
	now := s.Now()

	samples := []models.DashboardMetric{
		{MetricType: enums.DashboardMetricReallocated, Value: 10, RecordedAt: now.AddDate(0, 0, -10)},
		{MetricType: enums.DashboardMetricReallocated, Value: 20, RecordedAt: now.AddDate(0, 0, -3)},
		{MetricType: enums.DashboardMetricReallocated, Value: 30, RecordedAt: now.AddDate(0, 0, -1)},
		{MetricType: enums.DashboardMetricMigrated, Value: 99, RecordedAt: now.Add(-time.Hour)},
	}
	for i := range samples {
		require.NoError(t, s.DashboardMetrics.Create(ctx, &samples[i]))
	}

	rows, err := s.PreviousMetric(ctx, enums.DashboardMetricReallocated, 7)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(30), rows[0].Value)
	assert.Equal(t, enums.DashboardMetricReallocated, rows[0].MetricType)

	rows, err = s.PreviousMetric(ctx, enums.DashboardMetricCostSavings, 7)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestMetricsOnDate(t *testing.T) {
	s := newStore(t, config.SummaryModeIndependent)
	ctx := context.Background()

	day := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	samples := []models.DashboardMetric{
		{MetricType: enums.DashboardMetricMigrated, Value: 1, RecordedAt: day.Add(1 * time.Hour)},
		{MetricType: enums.DashboardMetricCostSavings, Value: 2, RecordedAt: day.Add(23 * time.Hour)},
		{MetricType: enums.DashboardMetricMigrated, Value: 3, RecordedAt: day.AddDate(0, 0, 1)},
		{MetricType: enums.DashboardMetricMigrated, Value: 4, RecordedAt: day.Add(-time.Minute)},
	}
	for i := range samples {
		require.NoError(t, s.DashboardMetrics.Create(ctx, &samples[i]))
	}

	rows, err := s.MetricsOnDate(ctx, day.Add(12*time.Hour))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0].Value)
	assert.Equal(t, int64(2), rows[1].Value)
}

func TestTransactionRollsBackAcrossRepositories(t *testing.T) {
	s := newStore(t, config.SummaryModeIndependent)
	ctx := context.Background()

	err := s.Transaction(ctx, func(tx *Store) error {
		loc := models.Location{Address: "a", City: "b", State: "c", Country: "d", ZipCode: "e"}
		if err := tx.Locations.Create(ctx, &loc); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	count, err := s.Locations.Count(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMetricQueriesIgnoreCallerOffset(t *testing.T) {
	s := newStore(t, config.SummaryModeIndependent)
	ctx := context.Background()
	karachi := time.FixedZone("PKT", 5*60*60)

	stale := models.DashboardMetric{MetricType: enums.DashboardMetricReallocated, Value: 1, RecordedAt: s.Now().AddDate(0, 0, -7).Add(-2 * time.Hour).In(karachi)}
	require.NoError(t, s.DashboardMetrics.Create(ctx, &stale))
	assert.Equal(t, time.UTC, stale.RecordedAt.Location())

	rows, err := s.PreviousMetric(ctx, enums.DashboardMetricReallocated, 7)
	require.NoError(t, err)
	assert.Empty(t, rows)

	lateNight := models.DashboardMetric{MetricType: enums.DashboardMetricMigrated, Value: 2, RecordedAt: time.Date(2025, 7, 2, 1, 0, 0, 0, karachi)}
	require.NoError(t, s.DashboardMetrics.Create(ctx, &lateNight))

	rows, err = s.MetricsOnDate(ctx, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(2), rows[0].Value)

	rows, err = s.MetricsOnDate(ctx, time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func seedDependents(t *testing.T, s *Store, data seeded) {
	t.Helper()
	ctx := context.Background()
	source := "pos"
	require.NoError(t, s.InventoryItems.Create(ctx, &models.InventoryItem{InventoryID: data.inv.ID, ItemID: data.item.ItemID, Quantity: 5}))
	require.NoError(t, s.Relocations.Create(ctx, &models.RelocationMessage{ItemID: data.item.ItemID, FromInventoryID: data.inv.ID, ToInventoryID: data.inv2.ID, Quantity: 3}))
	require.NoError(t, s.DemandHistory.Create(ctx, &models.DemandHistory{InventoryID: data.inv.ID, ItemID: data.item.ItemID, DemandQuantity: 9, Timestamp: s.Now(), Source: &source}))
	require.NoError(t, s.TriggerMessages.Create(ctx, &models.TriggerMessage{InventoryID: data.inv.ID, Message: "low stock"}))
	require.NoError(t, s.Forecasts.Create(ctx, &models.ForecastingMetric{InventoryID: data.inv.ID, HowMuchTimeToFill: dbtypes.TimeOfDay("02:00:00"), PredictedDemand: 10, ActualDemand: 8}))
	require.NoError(t, s.Alerts.Create(ctx, &models.RealTimeAlert{InventoryID: data.inv.ID, AlertType: "capacity", Severity: "high", Message: "over threshold"}))
	require.NoError(t, s.SpikeMonitoring.Create(ctx, &models.SpikeMonitoring{InventoryID: data.inv.ID}))
}

type counter interface {
	Count(ctx context.Context, where map[string]any) (int64, error)
}

func assertRowCounts(t *testing.T, want map[string]int64, tables map[string]counter) {
	t.Helper()
	for name, table := range tables {
		got, err := table.Count(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, want[name], got, name)
	}
}

func TestDeleteItemCascadesToItemReferences(t *testing.T) {
	s := newStore(t, config.SummaryModeIndependent)
	data := seed(t, s)
	seedDependents(t, s, data)

	removed, err := s.Items.DeleteByID(context.Background(), data.item.ItemID)
	require.NoError(t, err)
	require.Len(t, removed, 1)

	assertRowCounts(t, map[string]int64{
		"inventory_items": 0, "relocation_message": 0, "demand_history": 0,
		"trigger_message": 1, "forecasting_metrics": 1, "real_time_alerts": 1, "spike_monitoring": 1,
		"inventory": 2,
	}, map[string]counter{
		"inventory_items": s.InventoryItems, "relocation_message": s.Relocations, "demand_history": s.DemandHistory,
		"trigger_message": s.TriggerMessages, "forecasting_metrics": s.Forecasts, "real_time_alerts": s.Alerts, "spike_monitoring": s.SpikeMonitoring,
		"inventory": s.Inventories,
	})
}

func TestDeleteInventoryCascadesToInventoryReferences(t *testing.T) {
	s := newStore(t, config.SummaryModeIndependent)
	data := seed(t, s)
	seedDependents(t, s, data)

	removed, err := s.Inventories.DeleteByID(context.Background(), data.inv.ID)
	require.NoError(t, err)
	require.Len(t, removed, 1)

	assertRowCounts(t, map[string]int64{
		"inventory_items": 0, "relocation_message": 0, "demand_history": 0,
		"trigger_message": 0, "forecasting_metrics": 0, "real_time_alerts": 0, "spike_monitoring": 0,
		"items": 1, "inventory": 1,
	}, map[string]counter{
		"inventory_items": s.InventoryItems, "relocation_message": s.Relocations, "demand_history": s.DemandHistory,
		"trigger_message": s.TriggerMessages, "forecasting_metrics": s.Forecasts, "real_time_alerts": s.Alerts, "spike_monitoring": s.SpikeMonitoring,
		"items": s.Items, "inventory": s.Inventories,
	})
}
