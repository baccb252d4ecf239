package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Varun984/Sparkathon-by-Walmart/api/controllers"
	"github.com/Varun984/Sparkathon-by-Walmart/api/middleware"
	"github.com/Varun984/Sparkathon-by-Walmart/internal/dashboard"
	"github.com/Varun984/Sparkathon-by-Walmart/internal/gateway"
	"github.com/Varun984/Sparkathon-by-Walmart/internal/loadbalancer"
	"github.com/Varun984/Sparkathon-by-Walmart/internal/relocations"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/config"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/logger"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/metrics"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/security"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	Gateway     *gateway.Gateway
	Dashboard   dashboard.Service
	Relocations relocations.Service
	Balancer    loadbalancer.Service
	Hasher      *security.Hasher
	Ready       map[string]controllers.Pinger
	HTTPMetrics *metrics.HTTPMetrics
	// Gatherer backs /metrics; nil serves the default registry.
	Gatherer prometheus.Gatherer
}

func NewRouter(d Deps) http.Handler {
	cfg, logg, g := d.Config, d.Logger, d.Gateway

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, d.HTTPMetrics),
		middleware.CORS(cfg.HTTP.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.Ready))
	})

	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", controllers.Ping())

		r.Route("/gateway", func(r chi.Router) {
			r.Post("/", controllers.GatewayDispatch(g, d.Hasher, logg))
			r.Get("/operations", controllers.GatewayOperations(g))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", controllers.ListRecords(g.Inventory, logg))
			r.Post("/", controllers.CreateRecord(g.Inventory, logg))
			r.Get("/status/{status}", controllers.FindByString(g.Inventory.GetByStatus, "status", logg))
			r.Get("/location/{locationId}", controllers.FindByID(g.Inventory.GetByLocation, "locationId", logg))
			r.Route("/{inventoryId}", func(r chi.Router) {
				r.Get("/", controllers.GetRecord(g.Inventory, "inventoryId", "inventory", logg))
				r.Put("/", controllers.UpdateRecord(g.Inventory, "inventoryId", "inventory", logg))
				r.Delete("/", controllers.DeleteRecord(g.Inventory, "inventoryId", "inventory", logg))
				r.Get("/details", controllers.InventoryDetailsHandler(g, logg))
				r.Get("/overview", controllers.FindByID(g.Utility.GetInventoryOverview, "inventoryId", logg))
				r.Get("/items", controllers.FindByID(g.InventoryItems.GetByInventoryID, "inventoryId", logg))
				r.Post("/items", controllers.InventoryAddItem(g, logg))
				r.Put("/items/{itemId}", controllers.InventoryUpdateItemQuantity(g, logg))
				r.Delete("/items/{itemId}", controllers.InventoryRemoveItem(g, logg))
			})
		})

		r.Route("/items", func(r chi.Router) {
			r.Get("/", controllers.ListRecords(g.Items, logg))
			r.Post("/", controllers.CreateRecord(g.Items, logg))
			r.Get("/search", controllers.ItemSearch(g, logg))
			r.Get("/{itemId}", controllers.GetRecord(g.Items, "itemId", "item", logg))
			r.Put("/{itemId}", controllers.UpdateRecord(g.Items, "itemId", "item", logg))
			r.Delete("/{itemId}", controllers.DeleteRecord(g.Items, "itemId", "item", logg))
		})

		r.Route("/locations", func(r chi.Router) {
			r.Get("/", controllers.ListRecords(g.Locations, logg))
			r.Post("/", controllers.CreateRecord(g.Locations, logg))
			r.Get("/city/{city}", controllers.FindByString(g.Locations.GetByName, "city", logg))
			r.Get("/{locationId}", controllers.GetRecord(g.Locations, "locationId", "location", logg))
			r.Put("/{locationId}", controllers.UpdateRecord(g.Locations, "locationId", "location", logg))
			r.Delete("/{locationId}", controllers.DeleteRecord(g.Locations, "locationId", "location", logg))
		})

		r.Route("/map", func(r chi.Router) {
			r.Get("/inventory-locations", controllers.MapLocations(d.Dashboard, logg))
			r.Get("/inventory-locations/{inventoryId}", controllers.MapLocationDetails(d.Dashboard, logg))
		})

		r.Route("/relocations", func(r chi.Router) {
			r.Get("/", controllers.ListRecords(g.Relocations, logg))
			r.Post("/", controllers.CreateRecord(g.Relocations, logg))
			r.Get("/status/{status}", controllers.FindByString(g.Relocations.GetByStatus, "status", logg))
			r.Get("/priority/{priority}", controllers.FindByString(g.Relocations.GetByPriority, "priority", logg))
			r.Get("/{relocationId}", controllers.GetRecord(g.Relocations, "relocationId", "relocation", logg))
			r.Delete("/{relocationId}", controllers.DeleteRecord(g.Relocations, "relocationId", "relocation", logg))
			r.Put("/{relocationId}/status", controllers.RelocationUpdateStatus(g, logg))
			r.Post("/{relocationId}/execute", controllers.RelocationExecute(d.Relocations, logg))
		})

		r.Route("/load-balancer", func(r chi.Router) {
			r.Post("/trigger", controllers.LoadBalancerTrigger(d.Balancer, logg))
			r.Post("/scan", controllers.LoadBalancerScan(d.Balancer, logg))
			r.Get("/plan/{inventoryId}", controllers.LoadBalancerPlan(d.Balancer, logg))
		})

		r.Route("/alerts", func(r chi.Router) {
			r.Get("/", controllers.ListRecords(g.Alerts, logg))
			r.Post("/", controllers.CreateRecord(g.Alerts, logg))
			r.Get("/unresolved", controllers.AlertUnresolved(g, logg))
			r.Get("/severity/{severity}", controllers.FindByString(g.Alerts.GetBySeverity, "severity", logg))
			r.Get("/type/{alertType}", controllers.FindByString(g.Alerts.GetByType, "alertType", logg))
			r.Get("/inventory/{inventoryId}", controllers.FindByID(g.Alerts.GetByInventoryID, "inventoryId", logg))
			r.Put("/{alertId}/resolve", controllers.AlertResolve(g, logg))
			r.Delete("/{alertId}", controllers.DeleteRecord(g.Alerts, "alertId", "alert", logg))
		})

		r.Route("/demand-history", func(r chi.Router) {
			r.Get("/", controllers.ListRecords(g.DemandHistory, logg))
			r.Post("/", controllers.CreateRecord(g.DemandHistory, logg))
			r.Get("/inventory/{inventoryId}", controllers.FindByID(g.DemandHistory.GetByInventoryID, "inventoryId", logg))
			r.Get("/item/{itemId}", controllers.FindByID(g.DemandHistory.GetByItemID, "itemId", logg))
			r.Get("/source/{source}", controllers.FindByString(g.DemandHistory.GetBySource, "source", logg))
			r.Get("/{demandId}", controllers.GetRecord(g.DemandHistory, "demandId", "demand history", logg))
			r.Delete("/{demandId}", controllers.DeleteRecord(g.DemandHistory, "demandId", "demand history", logg))
		})

		r.Route("/forecasting", func(r chi.Router) {
			r.Get("/metrics", controllers.ListRecords(g.Forecasts, logg))
			r.Post("/metrics", controllers.CreateRecord(g.Forecasts, logg))
			r.Get("/metrics/{forecastId}", controllers.GetRecord(g.Forecasts, "forecastId", "forecast", logg))
			r.Put("/metrics/{forecastId}", controllers.UpdateRecord(g.Forecasts, "forecastId", "forecast", logg))
			r.Delete("/metrics/{forecastId}", controllers.DeleteRecord(g.Forecasts, "forecastId", "forecast", logg))
			r.Get("/inventory/{inventoryId}", controllers.ForecastForInventory(g, logg))
		})

		r.Route("/triggers", func(r chi.Router) {
			r.Get("/", controllers.ListRecords(g.TriggerMessages, logg))
			r.Post("/", controllers.CreateRecord(g.TriggerMessages, logg))
			r.Get("/status/{status}", controllers.FindByString(g.TriggerMessages.GetByStatus, "status", logg))
			r.Get("/{triggerId}", controllers.GetRecord(g.TriggerMessages, "triggerId", "trigger message", logg))
			r.Put("/{triggerId}/status", controllers.TriggerUpdateStatus(g, logg))
			r.Delete("/{triggerId}", controllers.DeleteRecord(g.TriggerMessages, "triggerId", "trigger message", logg))
		})

		r.Route("/spikes/monitoring", func(r chi.Router) {
			r.Get("/", controllers.ListRecords(g.SpikeMonitoring, logg))
			r.Post("/", controllers.CreateRecord(g.SpikeMonitoring, logg))
			r.Get("/inventory/{inventoryId}", controllers.FindByID(g.SpikeMonitoring.GetByInventoryID, "inventoryId", logg))
			r.Put("/{spikeId}", controllers.UpdateRecord(g.SpikeMonitoring, "spikeId", "spike monitoring record", logg))
			r.Delete("/{spikeId}", controllers.DeleteRecord(g.SpikeMonitoring, "spikeId", "spike monitoring record", logg))
		})

		r.Route("/admins", func(r chi.Router) {
			r.Get("/", controllers.AdminList(g, logg))
			r.Post("/", controllers.AdminCreate(g, d.Hasher, logg))
			r.Get("/email/{email}", controllers.AdminGetByEmail(g, logg))
			r.Get("/{adminId}", controllers.AdminGet(g, logg))
			r.Put("/{adminId}", controllers.AdminUpdate(g, d.Hasher, logg))
			r.Delete("/{adminId}", controllers.AdminDelete(g, logg))
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/overview", controllers.DashboardOverview(d.Dashboard, logg))
			r.Get("/stats", controllers.DashboardStats(d.Dashboard, logg))
			r.Get("/summary", controllers.DashboardSummary(g, logg))
			r.Get("/metrics", controllers.ListRecords(g.DashboardMetrics, logg))
			r.Post("/metrics", controllers.DashboardRecordMetrics(g, logg))
			r.Get("/metrics/previous/{metricType}", controllers.DashboardPreviousMetrics(g, logg))
			r.Get("/metrics/date/{date}", controllers.DashboardMetricsByDate(g, logg))
		})
	})

	return r
}
