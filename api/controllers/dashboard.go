package controllers

import (
	"io"
	"net/http"

	"github.com/Varun984/Sparkathon-by-Walmart/api/responses"
	"github.com/Varun984/Sparkathon-by-Walmart/api/validators"
	"github.com/Varun984/Sparkathon-by-Walmart/internal/dashboard"
	"github.com/Varun984/Sparkathon-by-Walmart/internal/gateway"
	pkgerrors "github.com/Varun984/Sparkathon-by-Walmart/pkg/errors"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/logger"
)

const maxMetricWindowDays = 365

func DashboardOverview(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		overview, err := svc.Overview(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, overview)
	}
}

func DashboardStats(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

func DashboardSummary(g *gateway.Gateway, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteResult(r.Context(), logg, w, http.StatusOK, g.Utility.GetDashboardSummary(r.Context()))
	}
}

// DashboardPreviousMetrics serves the latest sample of a metric type within
// ?days= days, defaulting to the configured window.
func DashboardPreviousMetrics(g *gateway.Gateway, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricType, err := validators.PathString(r, "metricType", 32)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var days *int
		if r.URL.Query().Has("days") {
			n, err := validators.ParseQueryInt(r, "days", 0, 0, maxMetricWindowDays)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			days = &n
		}
		responses.WriteResult(r.Context(), logg, w, http.StatusOK, g.DashboardMetrics.GetPreviousMetrics(r.Context(), metricType, days))
	}
}

func DashboardMetricsByDate(g *gateway.Gateway, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, err := validators.PathString(r, "date", 40)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteResult(r.Context(), logg, w, http.StatusOK, g.DashboardMetrics.GetMetricsByDate(r.Context(), date))
	}
}

// DashboardRecordMetrics stores one metric object or an array of them.
func DashboardRecordMetrics(g *gateway.Gateway, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body"))
			return
		}
		responses.WriteResult(r.Context(), logg, w, http.StatusCreated, g.DashboardMetrics.RecordDailyMetrics(r.Context(), body))
	}
}

func MapLocations(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locations, err := svc.MapLocations(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, locations)
	}
}

func MapLocationDetails(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "inventoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		details, err := svc.MapLocationDetails(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, details)
	}
}
