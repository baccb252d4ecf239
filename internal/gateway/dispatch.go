package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Module names as they appear on the wire.
const (
	ModuleInventory        = "inventory_ops"
	ModuleItems            = "item_ops"
	ModuleLocations        = "location_ops"
	ModuleInventoryItems   = "inventoryItems_ops"
	ModuleTriggerMessages  = "triggermessage_ops"
	ModuleRelocations      = "relocationmessage_ops"
	ModuleForecasts        = "forecastingMetrics_ops"
	ModuleDemandHistory    = "demandhistory_ops"
	ModuleAlerts           = "realtimealert_ops"
	ModuleAdmins           = "admin_ops"
	ModuleSpikeMonitoring  = "spikemonitoring_ops"
	ModuleUtility          = "utility_ops"
	ModuleDashboardMetrics = "dashboardmetrics_ops"
)

var moduleAliases = map[string]string{
	"inventory":         ModuleInventory,
	"items":             ModuleItems,
	"locations":         ModuleLocations,
	"inventory_items":   ModuleInventoryItems,
	"trigger_messages":  ModuleTriggerMessages,
	"relocations":       ModuleRelocations,
	"forecasting":       ModuleForecasts,
	"demand_history":    ModuleDemandHistory,
	"alerts":            ModuleAlerts,
	"admins":            ModuleAdmins,
	"spike_monitoring":  ModuleSpikeMonitoring,
	"utility":           ModuleUtility,
	"dashboard_metrics": ModuleDashboardMetrics,
}

type handler func(ctx context.Context, args json.RawMessage) (Result, error)

// Dispatch routes "<module>.<method>" with a JSON argument to the matching
// operation. Unknown operations and malformed arguments yield the
// "Invalid operation" failure.
func (g *Gateway) Dispatch(ctx context.Context, operation string, payload json.RawMessage) Result {
	module, method, ok := SplitOperation(operation)
	if !ok {
		return InvalidOperation()
	}
	h, ok := g.handlers[module+"."+method]
	if !ok {
		return InvalidOperation()
	}
	res, err := h(ctx, payload)
	if err != nil {
		return InvalidOperation()
	}
	return res
}

// SplitOperation resolves "<module>.<method>" to its canonical module name
// and method. ok is false when operation has no method part.
func SplitOperation(operation string) (module, method string, ok bool) {
	module, method, ok = strings.Cut(strings.TrimSpace(operation), ".")
	if !ok {
		return "", "", false
	}
	if canonical, aliased := moduleAliases[module]; aliased {
		module = canonical
	}
	return module, method, true
}

// Operations lists every dispatchable operation name, sorted.
func (g *Gateway) Operations() []string {
	out := make([]string, 0, len(g.handlers))
	for name := range g.handlers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

type crud interface {
	Create(ctx context.Context, payload json.RawMessage) Result
	GetAll(ctx context.Context) Result
	GetByID(ctx context.Context, id int64) Result
	UpdateByID(ctx context.Context, id int64, patch json.RawMessage) Result
	DeleteByID(ctx context.Context, id int64) Result
}

func registerCRUD(h map[string]handler, module string, c crud, methods ...string) {
	for _, method := range methods {
		switch method {
		case "create":
			h[module+".create"] = func(ctx context.Context, args json.RawMessage) (Result, error) {
				if err := requireObject(args); err != nil {
					return Result{}, err
				}
				return c.Create(ctx, args), nil
			}
		case "getAll":
			h[module+".getAll"] = func(ctx context.Context, _ json.RawMessage) (Result, error) {
				return c.GetAll(ctx), nil
			}
		case "getById":
			h[module+".getById"] = withID(c.GetByID)
		case "updateById":
			h[module+".updateById"] = func(ctx context.Context, args json.RawMessage) (Result, error) {
				parts, err := tuple(args, 2, 2)
				if err != nil {
					return Result{}, err
				}
				id, err := argInt(parts[0])
				if err != nil {
					return Result{}, err
				}
				if err := requireObject(parts[1]); err != nil {
					return Result{}, err
				}
				return c.UpdateByID(ctx, id, parts[1]), nil
			}
		case "deleteById":
			h[module+".deleteById"] = withID(c.DeleteByID)
		default:
			panic(fmt.Sprintf("gateway: unknown uniform method %q", method))
		}
	}
}

func (g *Gateway) buildHandlers() map[string]handler {
	h := map[string]handler{}
	all := []string{"create", "getAll", "getById", "updateById", "deleteById"}

	registerCRUD(h, ModuleInventory, g.Inventory, all...)
	h[ModuleInventory+".getByLocation"] = withID(g.Inventory.GetByLocation)
	h[ModuleInventory+".getByStatus"] = withString(g.Inventory.GetByStatus)

	registerCRUD(h, ModuleItems, g.Items, all...)
	h[ModuleItems+".searchByName"] = withString(g.Items.SearchByName)

	registerCRUD(h, ModuleLocations, g.Locations, all...)
	h[ModuleLocations+".getByName"] = withString(g.Locations.GetByName)

	h[ModuleInventoryItems+".create"] = func(ctx context.Context, args json.RawMessage) (Result, error) {
		if err := requireObject(args); err != nil {
			return Result{}, err
		}
		return g.InventoryItems.Create(ctx, args), nil
	}
	h[ModuleInventoryItems+".getByInventoryId"] = withID(g.InventoryItems.GetByInventoryID)
	h[ModuleInventoryItems+".updateQuantity"] = func(ctx context.Context, args json.RawMessage) (Result, error) {
		ids, err := ints(args, 3)
		if err != nil {
			return Result{}, err
		}
		return g.InventoryItems.UpdateQuantity(ctx, ids[0], ids[1], int(ids[2])), nil
	}
	h[ModuleInventoryItems+".removeItem"] = func(ctx context.Context, args json.RawMessage) (Result, error) {
		ids, err := ints(args, 2)
		if err != nil {
			return Result{}, err
		}
		return g.InventoryItems.RemoveItem(ctx, ids[0], ids[1]), nil
	}

	registerCRUD(h, ModuleTriggerMessages, g.TriggerMessages, all...)
	h[ModuleTriggerMessages+".getByStatus"] = withString(g.TriggerMessages.GetByStatus)
	h[ModuleTriggerMessages+".updateStatusById"] = func(ctx context.Context, args json.RawMessage) (Result, error) {
		parts, err := tuple(args, 2, 2)
		if err != nil {
			return Result{}, err
		}
		id, err := argInt(parts[0])
		if err != nil {
			return Result{}, err
		}
		status, err := argString(parts[1])
		if err != nil {
			return Result{}, err
		}
		return g.TriggerMessages.UpdateStatusByID(ctx, id, status), nil
	}

	registerCRUD(h, ModuleRelocations, g.Relocations, all...)
	h[ModuleRelocations+".getByStatus"] = withString(g.Relocations.GetByStatus)
	h[ModuleRelocations+".getByPriority"] = withString(g.Relocations.GetByPriority)

	registerCRUD(h, ModuleForecasts, g.Forecasts, all...)
	h[ModuleForecasts+".getByInventoryId"] = withID(g.Forecasts.GetByInventoryID)

	registerCRUD(h, ModuleDemandHistory, g.DemandHistory, "create", "getAll", "getById", "deleteById")
	h[ModuleDemandHistory+".getByInventoryId"] = withID(g.DemandHistory.GetByInventoryID)
	h[ModuleDemandHistory+".getByItemId"] = withID(g.DemandHistory.GetByItemID)
	h[ModuleDemandHistory+".getBySource"] = withString(g.DemandHistory.GetBySource)

	registerCRUD(h, ModuleAlerts, g.Alerts, "create", "getAll", "deleteById")
	h[ModuleAlerts+".getUnresolved"] = func(ctx context.Context, _ json.RawMessage) (Result, error) {
		return g.Alerts.GetUnresolved(ctx), nil
	}
	h[ModuleAlerts+".getBySeverity"] = withString(g.Alerts.GetBySeverity)
	h[ModuleAlerts+".getByType"] = withString(g.Alerts.GetByType)
	h[ModuleAlerts+".getByInventoryId"] = withID(g.Alerts.GetByInventoryID)
	h[ModuleAlerts+".updateResolved"] = withID(g.Alerts.UpdateResolved)

	registerCRUD(h, ModuleAdmins, g.Admins, all...)
	h[ModuleAdmins+".getByEmail"] = withString(g.Admins.GetByEmail)

	registerCRUD(h, ModuleSpikeMonitoring, g.SpikeMonitoring, "create", "getAll", "updateById", "deleteById")
	h[ModuleSpikeMonitoring+".getByInventoryId"] = withID(g.SpikeMonitoring.GetByInventoryID)

	h[ModuleUtility+".getInventoryOverview"] = withID(g.Utility.GetInventoryOverview)
	h[ModuleUtility+".getDashboardSummary"] = func(ctx context.Context, _ json.RawMessage) (Result, error) {
		return g.Utility.GetDashboardSummary(ctx), nil
	}

	h[ModuleDashboardMetrics+".getAll"] = func(ctx context.Context, _ json.RawMessage) (Result, error) {
		return g.DashboardMetrics.GetAll(ctx), nil
	}
	h[ModuleDashboardMetrics+".recordDailyMetrics"] = func(ctx context.Context, args json.RawMessage) (Result, error) {
		if len(bytes.TrimSpace(args)) == 0 {
			return Result{}, errInvalidArgs
		}
		return g.DashboardMetrics.RecordDailyMetrics(ctx, args), nil
	}
	h[ModuleDashboardMetrics+".getPreviousMetrics"] = func(ctx context.Context, args json.RawMessage) (Result, error) {
		metricType, days, err := previousMetricArgs(args)
		if err != nil {
			return Result{}, err
		}
		return g.DashboardMetrics.GetPreviousMetrics(ctx, metricType, days), nil
	}
	h[ModuleDashboardMetrics+".getMetricsByDate"] = withString(g.DashboardMetrics.GetMetricsByDate)
	return h
}

var errInvalidArgs = fmt.Errorf("invalid arguments")

func withID(fn func(ctx context.Context, id int64) Result) handler {
	return func(ctx context.Context, args json.RawMessage) (Result, error) {
		id, err := argInt(args)
		if err != nil {
			return Result{}, err
		}
		return fn(ctx, id), nil
	}
}

func withString(fn func(ctx context.Context, value string) Result) handler {
	return func(ctx context.Context, args json.RawMessage) (Result, error) {
		value, err := argString(args)
		if err != nil {
			return Result{}, err
		}
		return fn(ctx, value), nil
	}
}

// previousMetricArgs accepts "type", ["type"] or ["type", days]. days is nil
// when omitted or null.
func previousMetricArgs(args json.RawMessage) (string, *int, error) {
	if metricType, err := argString(args); err == nil {
		return metricType, nil, nil
	}
	parts, err := tuple(args, 1, 2)
	if err != nil {
		return "", nil, err
	}
	metricType, err := argString(parts[0])
	if err != nil {
		return "", nil, err
	}
	if len(parts) == 1 || isNullArg(parts[1]) {
		return metricType, nil, nil
	}
	days, err := argInt(parts[1])
	if err != nil {
		return "", nil, err
	}
	n := int(days)
	return metricType, &n, nil
}

// argInt accepts a JSON integer or a string holding one.
func argInt(raw json.RawMessage) (int64, error) {
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, errInvalidArgs
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, errInvalidArgs
	}
	return n, nil
}

func argString(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", errInvalidArgs
	}
	return s, nil
}

func ints(raw json.RawMessage, n int) ([]int64, error) {
	parts, err := tuple(raw, n, n)
	if err != nil {
		return nil, err
	}
	out := make([]int64, n)
	for i, part := range parts {
		if out[i], err = argInt(part); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func tuple(raw json.RawMessage, lo, hi int) ([]json.RawMessage, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil {
		return nil, errInvalidArgs
	}
	if len(parts) < lo || len(parts) > hi {
		return nil, errInvalidArgs
	}
	return parts, nil
}

func requireObject(raw json.RawMessage) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return errInvalidArgs
	}
	return nil
}

func isNullArg(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
