package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Varun984/Sparkathon-by-Walmart/pkg/db/models"
	dbtypes "github.com/Varun984/Sparkathon-by-Walmart/pkg/db/types"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/enums"
	pkgerrors "github.com/Varun984/Sparkathon-by-Walmart/pkg/errors"
)

func TestFilterOperationsAcrossModules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	loc := f.location(t)
	north := f.inventory(t, loc.ID, "North MFC")
	south := f.inventory(t, loc.ID, "South MFC")
	milk := f.item(t, "Milk")

	high := "high"
	mustOK(t, f.gw.Relocations.Insert(ctx, &models.RelocationMessage{
		ItemID: milk.ItemID, FromInventoryID: north.ID, ToInventoryID: south.ID, Quantity: 5, Priority: &high,
	}))
	mustOK(t, f.gw.Relocations.Insert(ctx, &models.RelocationMessage{
		ItemID: milk.ItemID, FromInventoryID: south.ID, ToInventoryID: north.ID, Quantity: 2,
		Status: enums.RelocationStatusInProgress,
	}))

	byPriority := f.gw.Dispatch(ctx, "relocationmessage_ops.getByPriority", raw(t, "high"))
	mustOK(t, byPriority)
	require.Len(t, byPriority.Data, 1)
	assert.Equal(t, 5, byPriority.Data.([]models.RelocationMessage)[0].Quantity)

	byStatus := f.gw.Dispatch(ctx, "relocationmessage_ops.getByStatus", raw(t, "in_progress"))
	mustOK(t, byStatus)
	require.Len(t, byStatus.Data, 1)
	assert.Equal(t, south.ID, byStatus.Data.([]models.RelocationMessage)[0].FromInventoryID)

	badStatus := f.gw.Dispatch(ctx, "relocationmessage_ops.getByStatus", raw(t, "shipped"))
	assert.False(t, badStatus.Success)
	assert.True(t, pkgerrors.IsCode(badStatus.Err(), pkgerrors.CodeValidation))

	mustOK(t, f.gw.Forecasts.Insert(ctx, &models.ForecastingMetric{
		InventoryID: north.ID, HowMuchTimeToFill: dbtypes.TimeOfDay("01:30:00"), PredictedDemand: 40, ActualDemand: 38,
	}))
	forecasts := f.gw.Dispatch(ctx, "forecastingMetrics_ops.getByInventoryId", raw(t, north.ID))
	mustOK(t, forecasts)
	assert.Len(t, forecasts.Data, 1)
	none := f.gw.Dispatch(ctx, "forecastingMetrics_ops.getByInventoryId", raw(t, south.ID))
	mustOK(t, none)
	assert.Empty(t, none.Data)

	pos := "pos"
	mustOK(t, f.gw.DemandHistory.Insert(ctx, &models.DemandHistory{
		InventoryID: north.ID, ItemID: milk.ItemID, DemandQuantity: 12, Timestamp: time.Now().UTC(), Source: &pos,
	}))
	mustOK(t, f.gw.DemandHistory.Insert(ctx, &models.DemandHistory{
		InventoryID: south.ID, ItemID: milk.ItemID, DemandQuantity: 3, Timestamp: time.Now().UTC(),
	}))
	for op, arg := range map[string]any{
		"demandhistory_ops.getByInventoryId": north.ID,
		"demandhistory_ops.getBySource":      "pos",
	} {
		res := f.gw.Dispatch(ctx, op, raw(t, arg))
		mustOK(t, res)
		require.Len(t, res.Data, 1, op)
		assert.Equal(t, 12, res.Data.([]models.DemandHistory)[0].DemandQuantity, op)
	}
	byItem := f.gw.Dispatch(ctx, "demandhistory_ops.getByItemId", raw(t, milk.ItemID))
	mustOK(t, byItem)
	assert.Len(t, byItem.Data, 2)

	mustOK(t, f.gw.SpikeMonitoring.Insert(ctx, &models.SpikeMonitoring{InventoryID: south.ID}))
	spikes := f.gw.Dispatch(ctx, "spikemonitoring_ops.getByInventoryId", raw(t, south.ID))
	mustOK(t, spikes)
	assert.Len(t, spikes.Data, 1)

	mustOK(t, f.gw.Alerts.Insert(ctx, &models.RealTimeAlert{
		InventoryID: north.ID, AlertType: "low_stock", Severity: "critical", Message: "milk low",
	}))
	mustOK(t, f.gw.Alerts.Insert(ctx, &models.RealTimeAlert{
		InventoryID: south.ID, AlertType: "overstock", Severity: "warning", Message: "too much milk",
	}))
	byType := f.gw.Dispatch(ctx, "realtimealert_ops.getByType", raw(t, "overstock"))
	mustOK(t, byType)
	require.Len(t, byType.Data, 1)
	assert.Equal(t, south.ID, byType.Data.([]models.RealTimeAlert)[0].InventoryID)

	byInventory := f.gw.Dispatch(ctx, "realtimealert_ops.getByInventoryId", raw(t, north.ID))
	mustOK(t, byInventory)
	require.Len(t, byInventory.Data, 1)
	assert.Equal(t, "low_stock", byInventory.Data.([]models.RealTimeAlert)[0].AlertType)

	badID := f.gw.Dispatch(ctx, "realtimealert_ops.getByInventoryId", raw(t, "north"))
	assert.False(t, badID.Success)
	assert.Equal(t, "Invalid operation", badID.Error)
}
