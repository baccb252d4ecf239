package enums

import "fmt"

// InventoryStatus maps to the inventory_status enum in Postgres.
type InventoryStatus string

const (
	InventoryStatusCritical InventoryStatus = "critical"
	InventoryStatusHealthy  InventoryStatus = "healthy"
	InventoryStatusWarning  InventoryStatus = "warning"
)

var validInventoryStatuses = []InventoryStatus{
	InventoryStatusCritical,
	InventoryStatusHealthy,
	InventoryStatusWarning,
}

// IsValid checks whether the given status matches the canonical enum.
func (s InventoryStatus) IsValid() bool {
	for _, candidate := range validInventoryStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseInventoryStatus converts raw strings into InventoryStatus.
func ParseInventoryStatus(value string) (InventoryStatus, error) {
	for _, candidate := range validInventoryStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid inventory status %q", value)
}
