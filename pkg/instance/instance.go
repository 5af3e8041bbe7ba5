package instance

import (
	"os"

	"github.com/aisynapse/synapse-backend/pkg/env"
)

// ID identifies this process in logs. SYNAPSE_INSTANCE_ID wins, then the
// platform dyno name, then the hostname.
func ID() string {
	if id := env.First("SYNAPSE_INSTANCE_ID", "DYNO"); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
