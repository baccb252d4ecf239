package models

import "time"

// Defaulter is implemented by records whose optional columns are filled
// in before insert.
type Defaulter interface {
	ApplyDefaults(now time.Time)
}
