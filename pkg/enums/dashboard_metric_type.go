package enums

import "fmt"

// DashboardMetricType maps to the dashboard_metric_type enum in Postgres.
type DashboardMetricType string

const (
	DashboardMetricMigrated       DashboardMetricType = "migrated"
	DashboardMetricReallocated    DashboardMetricType = "reallocated"
	DashboardMetricCostSavings    DashboardMetricType = "cost_savings"
	DashboardMetricCriticalAlerts DashboardMetricType = "critical_alerts"
)

var validDashboardMetricTypes = []DashboardMetricType{
	DashboardMetricMigrated,
	DashboardMetricReallocated,
	DashboardMetricCostSavings,
	DashboardMetricCriticalAlerts,
}

// DashboardMetricTypes lists every metric in the order the daily snapshot records them.
func DashboardMetricTypes() []DashboardMetricType {
	out := make([]DashboardMetricType, len(validDashboardMetricTypes))
	copy(out, validDashboardMetricTypes)
	return out
}

func (t DashboardMetricType) IsValid() bool {
	for _, candidate := range validDashboardMetricTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseDashboardMetricType converts raw strings into DashboardMetricType.
func ParseDashboardMetricType(value string) (DashboardMetricType, error) {
	for _, candidate := range validDashboardMetricTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid dashboard metric type %q", value)
}
