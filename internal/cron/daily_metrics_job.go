package cron

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/Varun984/Sparkathon-by-Walmart/internal/gateway"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/db/models"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/logger"
)

const DailyMetricsJobName = "daily-metrics"

type snapshotter interface {
	Snapshot(ctx context.Context) ([]models.DashboardMetric, error)
}

type metricRecorder interface {
	Record(ctx context.Context, metrics []models.DashboardMetric) gateway.Result
}

type DailyMetricsJobParams struct {
	Logger    *logger.Logger
	Dashboard snapshotter
	Recorder  metricRecorder
}

// NewDailyMetricsJob builds the job storing one dashboard sample per metric.
func NewDailyMetricsJob(params DailyMetricsJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Dashboard == nil {
		return nil, fmt.Errorf("dashboard service required")
	}
	if params.Recorder == nil {
		return nil, fmt.Errorf("metric recorder required")
	}
	return &dailyMetricsJob{
		logg:      params.Logger,
		dashboard: params.Dashboard,
		recorder:  params.Recorder,
	}, nil
}

type dailyMetricsJob struct {
	logg      *logger.Logger
	dashboard snapshotter
	recorder  metricRecorder
}

func (j *dailyMetricsJob) Name() string { return DailyMetricsJobName }

// Run records each metric on its own so one rejected sample does not drop
// the others. Every failure is reported in the combined error.
func (j *dailyMetricsJob) Run(ctx context.Context) error {
	snapshot, err := j.dashboard.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("daily metrics snapshot: %w", err)
	}

	var (
		errs     error
		recorded int
	)
	for _, metric := range snapshot {
		res := j.recorder.Record(ctx, []models.DashboardMetric{metric})
		if !res.Success {
			errs = multierr.Append(errs, fmt.Errorf("record %s: %s", metric.MetricType, res.Error))
			continue
		}
		recorded++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"metrics_recorded": recorded,
		"metrics_failed":   len(multierr.Errors(errs)),
	})
	j.logg.Info(logCtx, "daily metrics recorded")
	return errs
}
