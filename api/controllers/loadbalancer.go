package controllers

import (
	"net/http"

	"github.com/Varun984/Sparkathon-by-Walmart/api/responses"
	"github.com/Varun984/Sparkathon-by-Walmart/api/validators"
	"github.com/Varun984/Sparkathon-by-Walmart/internal/loadbalancer"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/logger"
)

type loadBalancerTriggerBody struct {
	InventoryID int64 `json:"inventory_id" validate:"required,gt=0"`
	DryRun      bool  `json:"dry_run"`
}

// LoadBalancerTrigger rebalances one inventory. With dry_run the plan is
// returned without recording anything.
func LoadBalancerTrigger(svc loadbalancer.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body loadBalancerTriggerBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := logg.WithInventoryID(r.Context(), body.InventoryID)

		run := svc.Rebalance
		if body.DryRun {
			run = svc.Plan
		}
		plan, err := run(ctx, body.InventoryID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, plan)
	}
}

func LoadBalancerPlan(svc loadbalancer.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inventoryID, err := validators.ParsePathID(r, "inventoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := logg.WithInventoryID(r.Context(), inventoryID)
		plan, err := svc.Plan(ctx, inventoryID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, plan)
	}
}

// LoadBalancerScan rebalances every breached inventory on demand.
func LoadBalancerScan(svc loadbalancer.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := svc.Scan(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}
