package datanode

import (
	"strings"

	"github.com/vegaprotocol/research-bot/internal/models"
)

// Endpoints is an ordered list of candidate data-node hosts for a logical
// service. The order is the failover order and never changes for the
// lifetime of a client.
type Endpoints []string

// NewEndpoints normalizes the configured hosts. Bare hostnames are assumed
// to be served over HTTPS. An empty list is a configuration error, not a
// runtime retry condition.
func NewEndpoints(hosts []string) (Endpoints, error) {
	if len(hosts) == 0 {
		return nil, models.NewAppError(models.ErrorCodeConfigError, "at least one REST endpoint must be configured")
	}

	endpoints := make(Endpoints, 0, len(hosts))
	for _, host := range hosts {
		host = strings.TrimRight(strings.TrimSpace(host), "/")
		if host == "" {
			continue
		}
		if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
			host = "https://" + host
		}
		endpoints = append(endpoints, host)
	}

	if len(endpoints) == 0 {
		return nil, models.NewAppError(models.ErrorCodeConfigError, "all configured REST endpoints are blank")
	}

	return endpoints, nil
}
