package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Varun984/Sparkathon-by-Walmart/internal/repo"
	"github.com/Varun984/Sparkathon-by-Walmart/internal/store"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/db/models"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/enums"
	pkgerrors "github.com/Varun984/Sparkathon-by-Walmart/pkg/errors"
)

type InventoryOps struct {
	Collection[models.Inventory]
}

func (o InventoryOps) GetByLocation(ctx context.Context, locationID int64) Result {
	return o.findBy(ctx, "getByLocation", "location_id", locationID)
}

func (o InventoryOps) GetByStatus(ctx context.Context, status string) Result {
	return o.findBy(ctx, "getByStatus", "status", status)
}

type ItemOps struct {
	Collection[models.Item]
}

// SearchByName matches the item name exactly.
func (o ItemOps) SearchByName(ctx context.Context, name string) Result {
	return o.findBy(ctx, "searchByName", "name", name)
}

type LocationOps struct {
	Collection[models.Location]
}

// GetByName looks locations up by city, the only human readable name a
// location carries.
func (o LocationOps) GetByName(ctx context.Context, name string) Result {
	return o.findBy(ctx, "getByName", "city", name)
}

// InventoryItemOps manages inventory contents. Rows are addressed by the
// (inventory, item) pair rather than a single id.
type InventoryItemOps struct {
	c Collection[models.InventoryItem]
}

func (o InventoryItemOps) Create(ctx context.Context, payload json.RawMessage) Result {
	return o.c.Create(ctx, payload)
}

func (o InventoryItemOps) Insert(ctx context.Context, record *models.InventoryItem) Result {
	return o.c.Insert(ctx, record)
}

func (o InventoryItemOps) GetByInventoryID(ctx context.Context, inventoryID int64) Result {
	return o.c.findBy(o.c.obs.scope(ctx, inventoryID, 0), "getByInventoryId", "inventory_id", inventoryID)
}

func (o InventoryItemOps) UpdateQuantity(ctx context.Context, inventoryID, itemID int64, quantity int) Result {
	return o.c.obs.run(o.c.obs.scope(ctx, inventoryID, itemID), o.c.op("updateQuantity"), func(ctx context.Context) (any, error) {
		if err := models.ValidateValue("quantity", quantity, "gte=0"); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
		}
		return o.c.repo.UpdateWhere(ctx, pairKey(inventoryID, itemID), repo.Patch{"quantity": quantity})
	})
}

func (o InventoryItemOps) RemoveItem(ctx context.Context, inventoryID, itemID int64) Result {
	return o.c.obs.run(o.c.obs.scope(ctx, inventoryID, itemID), o.c.op("removeItem"), func(ctx context.Context) (any, error) {
		return o.c.repo.DeleteWhere(ctx, pairKey(inventoryID, itemID))
	})
}

func pairKey(inventoryID, itemID int64) map[string]any {
	return map[string]any{"inventory_id": inventoryID, "item_id": itemID}
}

type TriggerMessageOps struct {
	Collection[models.TriggerMessage]
}

// UpdateStatusByID rejects statuses outside the trigger status set before
// touching the row.
func (o TriggerMessageOps) UpdateStatusByID(ctx context.Context, id int64, status string) Result {
	return o.obs.run(ctx, o.op("updateStatusById"), func(ctx context.Context) (any, error) {
		parsed, err := enums.ParseTriggerStatus(status)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
		}
		return o.repo.UpdateByID(ctx, id, repo.Patch{"status": parsed})
	})
}

func (o TriggerMessageOps) GetByStatus(ctx context.Context, status string) Result {
	return o.findBy(ctx, "getByStatus", "status", status)
}

type RelocationOps struct {
	Collection[models.RelocationMessage]
}

func (o RelocationOps) GetByStatus(ctx context.Context, status string) Result {
	return o.findBy(ctx, "getByStatus", "status", status)
}

func (o RelocationOps) GetByPriority(ctx context.Context, priority string) Result {
	return o.findBy(ctx, "getByPriority", "priority", priority)
}

type ForecastOps struct {
	Collection[models.ForecastingMetric]
}

func (o ForecastOps) GetByInventoryID(ctx context.Context, inventoryID int64) Result {
	return o.findBy(ctx, "getByInventoryId", "inventory_id", inventoryID)
}

type DemandHistoryOps struct {
	Collection[models.DemandHistory]
}

func (o DemandHistoryOps) GetByInventoryID(ctx context.Context, inventoryID int64) Result {
	return o.findBy(ctx, "getByInventoryId", "inventory_id", inventoryID)
}

func (o DemandHistoryOps) GetByItemID(ctx context.Context, itemID int64) Result {
	return o.findBy(ctx, "getByItemId", "item_id", itemID)
}

func (o DemandHistoryOps) GetBySource(ctx context.Context, source string) Result {
	return o.findBy(ctx, "getBySource", "source", source)
}

type AlertOps struct {
	Collection[models.RealTimeAlert]
	store *store.Store
}

// GetUnresolved lists open alerts, newest first.
func (o AlertOps) GetUnresolved(ctx context.Context) Result {
	return o.obs.run(ctx, o.op("getUnresolved"), func(ctx context.Context) (any, error) {
		return o.store.UnresolvedAlerts(ctx)
	})
}

func (o AlertOps) GetBySeverity(ctx context.Context, severity string) Result {
	return o.findBy(ctx, "getBySeverity", "severity", severity)
}

func (o AlertOps) GetByType(ctx context.Context, alertType string) Result {
	return o.findBy(ctx, "getByType", "alert_type", alertType)
}

func (o AlertOps) GetByInventoryID(ctx context.Context, inventoryID int64) Result {
	return o.findBy(ctx, "getByInventoryId", "inventory_id", inventoryID)
}

// UpdateResolved marks the alert resolved as of now.
func (o AlertOps) UpdateResolved(ctx context.Context, id int64) Result {
	return o.obs.run(ctx, o.op("updateResolved"), func(ctx context.Context) (any, error) {
		return o.store.ResolveAlert(ctx, id)
	})
}

type AdminOps struct {
	Collection[models.Admin]
}

func (o AdminOps) GetByEmail(ctx context.Context, email string) Result {
	return o.findBy(ctx, "getByEmail", "email", email)
}

type SpikeMonitoringOps struct {
	Collection[models.SpikeMonitoring]
}

func (o SpikeMonitoringOps) GetByInventoryID(ctx context.Context, inventoryID int64) Result {
	return o.findBy(ctx, "getByInventoryId", "inventory_id", inventoryID)
}

// UtilityOps holds the cross-table read models.
type UtilityOps struct {
	store *store.Store
	obs   *observer
}

func (o UtilityOps) GetInventoryOverview(ctx context.Context, inventoryID int64) Result {
	return o.obs.run(o.obs.scope(ctx, inventoryID, 0), "utility_ops.getInventoryOverview", func(ctx context.Context) (any, error) {
		return o.store.InventoryOverview(ctx, inventoryID)
	})
}

// GetDashboardSummary returns the four headline counts as a single object.
func (o UtilityOps) GetDashboardSummary(ctx context.Context) Result {
	return o.obs.run(ctx, "utility_ops.getDashboardSummary", func(ctx context.Context) (any, error) {
		return o.store.DashboardSummary(ctx)
	})
}

type DashboardMetricOps struct {
	c           Collection[models.DashboardMetric]
	store       *store.Store
	defaultDays int
}

func (o DashboardMetricOps) GetAll(ctx context.Context) Result {
	return o.c.GetAll(ctx)
}

// RecordDailyMetrics stores one metric object or an array of them in a
// single insert.
func (o DashboardMetricOps) RecordDailyMetrics(ctx context.Context, payload json.RawMessage) Result {
	return o.c.obs.run(ctx, o.c.op("recordDailyMetrics"), func(ctx context.Context) (any, error) {
		raws, err := splitRecords(payload)
		if err != nil {
			return nil, err
		}
		records := make([]models.DashboardMetric, 0, len(raws))
		for _, raw := range raws {
			record, err := o.c.repo.DecodeRecord(raw)
			if err != nil {
				return nil, err
			}
			records = append(records, *record)
		}
		if err := o.c.repo.CreateMany(ctx, records); err != nil {
			return nil, err
		}
		return records, nil
	})
}

// Record stores already built metrics.
func (o DashboardMetricOps) Record(ctx context.Context, metrics []models.DashboardMetric) Result {
	return o.c.obs.run(ctx, o.c.op("recordDailyMetrics"), func(ctx context.Context) (any, error) {
		if err := o.c.repo.CreateMany(ctx, metrics); err != nil {
			return nil, err
		}
		return metrics, nil
	})
}

// GetPreviousMetrics returns at most the latest metric of metricType within
// daysBack days. A nil daysBack means the configured window; zero or less
// leaves nothing in range.
func (o DashboardMetricOps) GetPreviousMetrics(ctx context.Context, metricType string, daysBack *int) Result {
	return o.c.obs.run(ctx, o.c.op("getPreviousMetrics"), func(ctx context.Context) (any, error) {
		parsed, err := enums.ParseDashboardMetricType(metricType)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
		}
		days := o.defaultDays
		if daysBack != nil {
			days = *daysBack
		}
		return o.store.PreviousMetric(ctx, parsed, days)
	})
}

// GetMetricsByDate accepts YYYY-MM-DD or an RFC 3339 timestamp and returns
// every metric recorded on that UTC day.
func (o DashboardMetricOps) GetMetricsByDate(ctx context.Context, date string) Result {
	return o.c.obs.run(ctx, o.c.op("getMetricsByDate"), func(ctx context.Context) (any, error) {
		day, err := parseDay(date)
		if err != nil {
			return nil, err
		}
		return o.store.MetricsOnDate(ctx, day)
	})
}

func parseDay(value string) (time.Time, error) {
	for _, layout := range []string{time.DateOnly, time.RFC3339Nano, time.RFC3339} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid date %q", value))
}

func splitRecords(payload json.RawMessage) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "payload must be an object or array of objects")
		}
		return items, nil
	}
	return []json.RawMessage{trimmed}, nil
}
