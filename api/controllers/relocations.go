package controllers

import (
	"net/http"

	"github.com/Varun984/Sparkathon-by-Walmart/api/responses"
	"github.com/Varun984/Sparkathon-by-Walmart/api/validators"
	"github.com/Varun984/Sparkathon-by-Walmart/internal/gateway"
	"github.com/Varun984/Sparkathon-by-Walmart/internal/relocations"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/logger"
)

type relocationStatusBody struct {
	Status string `json:"status" validate:"required,oneof=pending in_progress completed failed"`
}

type triggerStatusBody struct {
	Status string `json:"status" validate:"required,oneof=pending cannot_fulfill fulfilled cancelled"`
}

func RelocationUpdateStatus(g *gateway.Gateway, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "relocationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body relocationStatusBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		res := g.Relocations.UpdateByID(r.Context(), id, patchOf(map[string]any{"status": body.Status}))
		writeFound(r.Context(), logg, w, res, "relocation")
	}
}

// RelocationExecute moves the relocation's quantity between the two
// inventories and completes it.
func RelocationExecute(svc relocations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "relocationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		exec, err := svc.Execute(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, exec)
	}
}

func TriggerUpdateStatus(g *gateway.Gateway, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "triggerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body triggerStatusBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeFound(r.Context(), logg, w, g.TriggerMessages.UpdateStatusByID(r.Context(), id, body.Status), "trigger message")
	}
}

// AlertResolve marks an alert resolved.
func AlertResolve(g *gateway.Gateway, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "alertId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeFound(r.Context(), logg, w, g.Alerts.UpdateResolved(r.Context(), id), "alert")
	}
}

func AlertUnresolved(g *gateway.Gateway, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteResult(r.Context(), logg, w, http.StatusOK, g.Alerts.GetUnresolved(r.Context()))
	}
}

// ForecastForInventory returns the stored forecasting metrics for an
// inventory. Predictions are produced elsewhere.
func ForecastForInventory(g *gateway.Gateway, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "inventoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		res := g.Forecasts.GetByInventoryID(r.Context(), id)
		if !res.Success {
			responses.WriteError(r.Context(), logg, w, res.Err())
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"inventory_id":       id,
			"historical_metrics": res.Data,
		})
	}
}

func ItemSearch(g *gateway.Gateway, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := validators.SanitizeString(r.URL.Query().Get("name"), 255)
		if name == "" {
			responses.WriteResult(r.Context(), logg, w, http.StatusOK, g.Items.GetAll(r.Context()))
			return
		}
		responses.WriteResult(r.Context(), logg, w, http.StatusOK, g.Items.SearchByName(r.Context(), name))
	}
}
