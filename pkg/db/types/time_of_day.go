package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TimeOfDay maps to a Postgres `time` column and is exchanged as HH:MM:SS.
type TimeOfDay string

var timeOfDayLayouts = []string{"15:04:05", "15:04", "15:04:05.999999"}

// ParseTimeOfDay normalizes HH:MM or HH:MM:SS input into HH:MM:SS.
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	trimmed := strings.TrimSpace(value)
	for _, layout := range timeOfDayLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return TimeOfDay(parsed.Format("15:04:05")), nil
		}
	}
	return "", fmt.Errorf("invalid time of day %q", value)
}

// IsValid reports whether the value parses as a clock time.
func (t TimeOfDay) IsValid() bool {
	_, err := ParseTimeOfDay(string(t))
	return err == nil
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("TimeOfDay: %w", err)
	}
	parsed, err := ParseTimeOfDay(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t *TimeOfDay) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case string:
		return t.scanString(v)
	case []byte:
		return t.scanString(string(v))
	case time.Time:
		*t = TimeOfDay(v.Format("15:04:05"))
		return nil
	default:
		return fmt.Errorf("TimeOfDay: unsupported Scan type %T", src)
	}
}

func (t *TimeOfDay) scanString(raw string) error {
	parsed, err := ParseTimeOfDay(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t TimeOfDay) Value() (driver.Value, error) {
	if t == "" {
		return nil, nil
	}
	parsed, err := ParseTimeOfDay(string(t))
	if err != nil {
		return nil, err
	}
	return string(parsed), nil
}
