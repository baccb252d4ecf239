package models

import (
	"time"

	"github.com/Varun984/Sparkathon-by-Walmart/pkg/enums"
)

const DefaultMetricPeriod = "daily"

// DashboardMetric is one recorded sample of a dashboard headline figure.
type DashboardMetric struct {
	ID         int64                     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	MetricType enums.DashboardMetricType `gorm:"column:metric_type;type:dashboard_metric_type;not null" json:"metricType" validate:"oneof=migrated reallocated cost_savings critical_alerts"`
	Value      int64                     `gorm:"column:value;not null" json:"value"`
	RecordedAt time.Time                 `gorm:"column:recorded_at;default:CURRENT_TIMESTAMP" json:"recordedAt"`
	Period     string                    `gorm:"column:period;type:varchar(20);not null;default:daily" json:"period" validate:"max=20"`
}

func (DashboardMetric) TableName() string { return "dashboard_metrics" }

func (m *DashboardMetric) ApplyDefaults(now time.Time) {
	if m.RecordedAt.IsZero() {
		m.RecordedAt = now
	}
	if m.Period == "" {
		m.Period = DefaultMetricPeriod
	}
}
