package gateway

import (
	"fmt"

	"github.com/Varun984/Sparkathon-by-Walmart/internal/store"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/config"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/logger"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/metrics"
)

// Gateway is the single entry point to the record store. It holds no state
// beyond the shared store and is safe for concurrent use.
type Gateway struct {
	Inventory        InventoryOps
	Items            ItemOps
	Locations        LocationOps
	InventoryItems   InventoryItemOps
	TriggerMessages  TriggerMessageOps
	Relocations      RelocationOps
	Forecasts        ForecastOps
	DemandHistory    DemandHistoryOps
	Alerts           AlertOps
	Admins           AdminOps
	SpikeMonitoring  SpikeMonitoringOps
	Utility          UtilityOps
	DashboardMetrics DashboardMetricOps

	store    *store.Store
	handlers map[string]handler
}

type Options struct {
	Store   *store.Store
	Config  config.GatewayConfig
	Logger  *logger.Logger
	Metrics *metrics.GatewayMetrics
}

func New(opts Options) (*Gateway, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("gateway: store required")
	}
	days := opts.Config.PreviousMetricDays
	if days <= 0 {
		days = 7
	}

	s := opts.Store
	obs := &observer{log: opts.Logger, metrics: opts.Metrics}
	g := &Gateway{
		Inventory:       InventoryOps{newCollection(ModuleInventory, s.Inventories, obs)},
		Items:           ItemOps{newCollection(ModuleItems, s.Items, obs)},
		Locations:       LocationOps{newCollection(ModuleLocations, s.Locations, obs)},
		InventoryItems:  InventoryItemOps{c: newCollection(ModuleInventoryItems, s.InventoryItems, obs)},
		TriggerMessages: TriggerMessageOps{newCollection(ModuleTriggerMessages, s.TriggerMessages, obs)},
		Relocations:     RelocationOps{newCollection(ModuleRelocations, s.Relocations, obs)},
		Forecasts:       ForecastOps{newCollection(ModuleForecasts, s.Forecasts, obs)},
		DemandHistory:   DemandHistoryOps{newCollection(ModuleDemandHistory, s.DemandHistory, obs)},
		Alerts:          AlertOps{Collection: newCollection(ModuleAlerts, s.Alerts, obs), store: s},
		Admins:          AdminOps{newCollection(ModuleAdmins, s.Admins, obs)},
		SpikeMonitoring: SpikeMonitoringOps{newCollection(ModuleSpikeMonitoring, s.SpikeMonitoring, obs)},
		Utility:         UtilityOps{store: s, obs: obs},
		DashboardMetrics: DashboardMetricOps{
			c:           newCollection(ModuleDashboardMetrics, s.DashboardMetrics, obs),
			store:       s,
			defaultDays: days,
		},
		store: s,
	}
	g.handlers = g.buildHandlers()
	return g, nil
}

// Store exposes the underlying store for callers composing their own reads.
func (g *Gateway) Store() *store.Store {
	return g.store
}
