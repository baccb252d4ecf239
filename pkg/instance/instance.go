package instance

import "github.com/Varun984/Sparkathon-by-Walmart/pkg/env"

// GetID identifies the running process in logs. The explicit variable wins
// over the platform dyno name.
func GetID() string {
	if id := env.First("REDISTRIB_INSTANCE_ID", "DYNO"); id != "" {
		return id
	}
	return "local"
}
