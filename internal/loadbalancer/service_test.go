package loadbalancer

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Varun984/Sparkathon-by-Walmart/internal/store"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/config"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/db/dbtest"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/db/models"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/enums"
	pkgerrors "github.com/Varun984/Sparkathon-by-Walmart/pkg/errors"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/logger"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/metrics"
)

type fixture struct {
	store  *store.Store
	svc    Service
	logs   *bytes.Buffer
	origin models.Location
	far    models.Location
	source models.Inventory
	item   models.Item
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	s, err := store.New(dbtest.Open(t), config.GatewayConfig{})
	require.NoError(t, err)
	logs := &bytes.Buffer{}
	svc, err := NewService(Params{
		Store:   s,
		Logger:  logger.New(logger.Options{ServiceName: "loadbalancer-test", Output: logs}),
		Metrics: metrics.NewLoadBalancerMetrics(prometheus.NewRegistry()),
	})
	require.NoError(t, err)

	f := fixture{store: s, svc: svc, logs: logs}
	f.origin = models.Location{Latitude: 36.3729, Longitude: -94.2088, Address: "702 SW 8th St", City: "Bentonville", State: "AR", Country: "US", ZipCode: "72716"}
	require.NoError(t, s.Locations.Create(ctx, &f.origin))
	f.far = models.Location{Latitude: 32.7767, Longitude: -96.797, Address: "1 Main St", City: "Dallas", State: "TX", Country: "US", ZipCode: "75201"}
	require.NoError(t, s.Locations.Create(ctx, &f.far))

	f.source = f.inventory(t, "DC-1", f.origin, 100, 50, 10)
	f.item = models.Item{Name: "Water 24pk", Description: "bottled", Price: 4.98, Weight: 9.5, Dimensions: "16x11x5"}
	require.NoError(t, s.Items.Create(ctx, &f.item))
	return f
}

func (f fixture) inventory(t *testing.T, name string, loc models.Location, occupied, available, reserved float64) models.Inventory {
	t.Helper()
	inv := models.Inventory{
		Location: loc.City, Name: name, Description: name,
		VolumeOccupied: occupied, VolumeAvailable: available, VolumeReserved: reserved,
		Threshold: 80, LocationID: loc.ID,
	}
	require.NoError(t, f.store.Inventories.Create(context.Background(), &inv))
	return inv
}

func (f fixture) stock(t *testing.T, inventoryID int64, item models.Item, quantity int) {
	t.Helper()
	require.NoError(t, f.store.InventoryItems.Create(context.Background(), &models.InventoryItem{InventoryID: inventoryID, ItemID: item.ItemID, Quantity: quantity}))
}

func (f fixture) demand(t *testing.T, inventoryID int64, quantities ...int) {
	t.Helper()
	start := time.Now().UTC().AddDate(0, 0, -len(quantities))
	for i, q := range quantities {
		row := models.DemandHistory{InventoryID: inventoryID, ItemID: f.item.ItemID, DemandQuantity: q, Timestamp: start.AddDate(0, 0, i)}
		require.NoError(t, f.store.DemandHistory.Create(context.Background(), &row))
	}
}

// balanced seeds a busy co-located store with little headroom and an idle
// distant one with plenty.
func (f fixture) balanced(t *testing.T) (busy, idle models.Inventory) {
	t.Helper()
	busy = f.inventory(t, "Store-busy", f.origin, 70, 80, 5)
	idle = f.inventory(t, "Store-idle", f.far, 10, 100, 0)
	f.demand(t, busy.ID, 100, 2, 3, 3, 3, 3, 3, 3)
	f.stock(t, f.source.ID, f.item, 50)
	return busy, idle
}

func TestPlanRanksCandidatesAndBoundsQuantity(t *testing.T) {
	f := newFixture(t)
	busy, idle := f.balanced(t)
	other := models.Item{Name: "Chips", Description: "c", Price: 2, Weight: 1, Dimensions: "1x1x1"}
	require.NoError(t, f.store.Items.Create(context.Background(), &other))
	f.stock(t, f.source.ID, other, 3)

	plan, err := f.svc.Plan(context.Background(), f.source.ID)
	require.NoError(t, err)

	assert.True(t, plan.ThresholdExceeded)
	assert.Equal(t, 40.0, plan.Threshold)
	assert.Equal(t, 60.0, plan.ExcessLoad)
	require.Len(t, plan.Candidates, 2)

	top := plan.Candidates[0]
	assert.Equal(t, busy.ID, top.InventoryID)
	assert.Equal(t, 20, top.CurrentDemand)
	assert.Equal(t, 24, top.ForecastDemand)
	assert.True(t, decimal.RequireFromString("21.5").Equal(top.Score), "score %s", top.Score)
	assert.Equal(t, 5, top.Capacity)
	assert.Equal(t, idle.ID, plan.Candidates[1].InventoryID)
	assert.Equal(t, 60, plan.Candidates[1].Capacity)

	assert.True(t, plan.Placed)
	assert.Equal(t, busy.ID, plan.TargetInventoryID)
	assert.Equal(t, f.item.ItemID, plan.ItemID)
	assert.Equal(t, 5, plan.Quantity)
	assert.Equal(t, 55.0, plan.RemainingExcess)
	assert.Nil(t, plan.Relocation)

	count, err := f.store.Relocations.Count(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestPlanSkipsCandidatesWithoutRoom(t *testing.T) {
	f := newFixture(t)
	full := f.inventory(t, "Store-full", f.origin, 75, 80, 5)
	f.demand(t, full.ID, 50, 50)
	idle := f.inventory(t, "Store-idle", f.far, 10, 30, 0)
	f.stock(t, f.source.ID, f.item, 4)

	plan, err := f.svc.Plan(context.Background(), f.source.ID)
	require.NoError(t, err)
	require.Len(t, plan.Candidates, 2)
	assert.Equal(t, full.ID, plan.Candidates[0].InventoryID)
	assert.Zero(t, plan.Candidates[0].Capacity)

	assert.True(t, plan.Placed)
	assert.Equal(t, idle.ID, plan.TargetInventoryID)
	assert.Equal(t, 4, plan.Quantity, "capped by the stock on hand")
}

func TestPlanWithinThresholdRecommendsNothing(t *testing.T) {
	f := newFixture(t)
	calm := f.inventory(t, "Store-calm", f.origin, 10, 100, 0)

	plan, err := f.svc.Rebalance(context.Background(), calm.ID)
	require.NoError(t, err)
	assert.False(t, plan.ThresholdExceeded)
	assert.False(t, plan.Placed)
	assert.Empty(t, plan.Candidates)
	assert.Contains(t, plan.Recommendation, "no relocation needed")

	alerts, err := f.store.Alerts.Count(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, alerts)
}

func TestPlanUnknownInventory(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Plan(context.Background(), 999)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}

func TestRebalanceRecordsRelocationAndAlertOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	busy, _ := f.balanced(t)

	plan, err := f.svc.Rebalance(ctx, f.source.ID)
	require.NoError(t, err)
	require.NotNil(t, plan.Relocation)
	assert.False(t, plan.AlreadyPending)
	assert.Equal(t, busy.ID, plan.Relocation.ToInventoryID)
	assert.Equal(t, f.source.ID, plan.Relocation.FromInventoryID)
	assert.Equal(t, 5, plan.Relocation.Quantity)
	assert.Equal(t, enums.RelocationStatusPending, plan.Relocation.Status)
	require.NotNil(t, plan.Relocation.Priority)
	assert.Equal(t, HighPriority, *plan.Relocation.Priority)
	require.NotNil(t, plan.Alert)
	assert.Equal(t, BreachAlertType, plan.Alert.AlertType)
	assert.Contains(t, plan.Alert.Message, "100.00 exceeds threshold 40.00")
	assert.Contains(t, f.logs.String(), "loadbalancer.relocation_recommended")
	assert.Contains(t, f.logs.String(), `"inventory_id":`)

	again, err := f.svc.Rebalance(ctx, f.source.ID)
	require.NoError(t, err)
	assert.True(t, again.AlreadyPending)
	assert.Equal(t, plan.Relocation.RelocationMessageID, again.Relocation.RelocationMessageID)
	assert.Nil(t, again.Alert)

	relocations, err := f.store.Relocations.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), relocations)
	alerts, err := f.store.Alerts.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), alerts)
}

func TestRebalanceUnplacedStillAlerts(t *testing.T) {
	cases := map[string]func(t *testing.T, f fixture){
		"no room anywhere": func(t *testing.T, f fixture) {
			f.inventory(t, "Store-full", f.far, 90, 80, 0)
			f.stock(t, f.source.ID, f.item, 10)
		},
		"no stock on hand": func(t *testing.T, f fixture) {
			f.inventory(t, "Store-idle", f.far, 10, 100, 0)
		},
		"only inventory": func(t *testing.T, f fixture) {
			f.stock(t, f.source.ID, f.item, 10)
		},
	}
	for name, setup := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			setup(t, f)
			ctx := context.Background()

			plan, err := f.svc.Rebalance(ctx, f.source.ID)
			require.NoError(t, err)
			assert.True(t, plan.ThresholdExceeded)
			assert.False(t, plan.Placed)
			assert.Nil(t, plan.Relocation)
			assert.Equal(t, plan.ExcessLoad, plan.RemainingExcess)
			require.NotNil(t, plan.Alert)

			relocations, err := f.store.Relocations.Count(ctx, nil)
			require.NoError(t, err)
			assert.Zero(t, relocations)
		})
	}
}

func TestScanRebalancesBreachedInventories(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.balanced(t)
	stuck := f.inventory(t, "DC-2", f.far, 60, 20, 0)

	report, err := f.svc.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, report.Scanned)
	assert.ElementsMatch(t, []int64{f.source.ID, stuck.ID}, report.Breached)
	assert.Equal(t, []int64{stuck.ID}, report.Unplaced)
	require.Len(t, report.Relocations, 1)
	assert.Equal(t, f.source.ID, report.Relocations[0].FromInventoryID)

	report, err = f.svc.Scan(ctx)
	require.NoError(t, err)
	assert.Empty(t, report.Relocations)
	assert.Len(t, report.Breached, 2)
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(Params{})
	require.Error(t, err)
	s, err := store.New(dbtest.Open(t), config.GatewayConfig{})
	require.NoError(t, err)
	_, err = NewService(Params{Store: s})
	require.Error(t, err)
}
