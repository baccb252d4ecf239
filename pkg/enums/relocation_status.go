package enums

import "fmt"

// RelocationStatus maps to the relocation_status enum in Postgres.
type RelocationStatus string

const (
	RelocationStatusPending    RelocationStatus = "pending"
	RelocationStatusInProgress RelocationStatus = "in_progress"
	RelocationStatusCompleted  RelocationStatus = "completed"
	RelocationStatusFailed     RelocationStatus = "failed"
)

var validRelocationStatuses = []RelocationStatus{
	RelocationStatusPending,
	RelocationStatusInProgress,
	RelocationStatusCompleted,
	RelocationStatusFailed,
}

func (s RelocationStatus) IsValid() bool {
	for _, candidate := range validRelocationStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseRelocationStatus converts raw strings into RelocationStatus.
func ParseRelocationStatus(value string) (RelocationStatus, error) {
	for _, candidate := range validRelocationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid relocation status %q", value)
}
