package enums

import "fmt"

// TriggerStatus maps to the trigger_status enum in Postgres.
type TriggerStatus string

const (
	TriggerStatusPending       TriggerStatus = "pending"
	TriggerStatusCannotFulfill TriggerStatus = "cannot_fulfill"
	TriggerStatusFulfilled     TriggerStatus = "fulfilled"
	TriggerStatusCancelled     TriggerStatus = "cancelled"
)

var validTriggerStatuses = []TriggerStatus{
	TriggerStatusPending,
	TriggerStatusCannotFulfill,
	TriggerStatusFulfilled,
	TriggerStatusCancelled,
}

func (s TriggerStatus) IsValid() bool {
	for _, candidate := range validTriggerStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseTriggerStatus converts raw strings into TriggerStatus.
func ParseTriggerStatus(value string) (TriggerStatus, error) {
	for _, candidate := range validTriggerStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid trigger status %q", value)
}
