package datanode

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/vegaprotocol/research-bot/internal/models"
	"github.com/vegaprotocol/research-bot/pkg/logger"

	"go.uber.org/zap"
)

// dataNodeHeightHeader carries the data layer's own observed block height,
// which can lag behind the core height reported in the statistics body.
const dataNodeHeightHeader = "x-block-height"

type statisticsEnvelope struct {
	Statistics map[string]any `json:"statistics"`
}

func (e *statisticsEnvelope) ok() bool {
	return e.Statistics != nil
}

// Statistics fetches node statistics from the first healthy endpoint and
// merges the data-node height response header into the result.
func (c *Client) Statistics(ctx context.Context) (models.Statistics, error) {
	env, headers, err := getResource[statisticsEnvelope](ctx, c, "statistics")
	if err != nil {
		return models.Statistics{}, err
	}
	return statisticsFromEnvelope(env, headers), nil
}

// statisticsFromEndpoint fetches statistics from exactly one endpoint,
// bypassing failover. Used by the health probe to inspect every endpoint
// independently.
func (c *Client) statisticsFromEndpoint(ctx context.Context, endpoint string) (models.Statistics, error) {
	env := &statisticsEnvelope{}
	headers, err := c.fetchOne(ctx, endpoint, "statistics", env)
	if err != nil {
		return models.Statistics{}, err
	}
	return statisticsFromEnvelope(env, headers), nil
}

func statisticsFromEnvelope(env *statisticsEnvelope, headers http.Header) models.Statistics {
	values := make(map[string]string, len(env.Statistics)+1)
	for key, value := range env.Statistics {
		values[key] = fmt.Sprint(value)
	}

	stats := models.Statistics{
		AppVersion: values["appVersion"],
		ChainID:    values["chainId"],
		Values:     values,
	}

	if height, err := strconv.ParseUint(values["blockHeight"], 10, 64); err == nil {
		stats.BlockHeight = height
	}

	if raw := headers.Get(dataNodeHeightHeader); raw != "" {
		if height, err := strconv.ParseUint(raw, 10, 64); err == nil {
			stats.DataNodeHeight = height
			values[dataNodeHeightHeader] = raw
		}
	}

	return stats
}

// HealthyEndpoints probes every endpoint independently and returns the
// subset whose reported heights are within maxLagBlocks of the highest
// height seen across all reachable endpoints. Per-endpoint failures are
// swallowed; only a total probe failure is an error.
func (c *Client) HealthyEndpoints(ctx context.Context, maxLagBlocks uint64) (Endpoints, error) {
	log := logger.GetLogger()

	type probe struct {
		endpoint string
		stats    models.Statistics
	}

	var probes []probe
	for _, endpoint := range c.endpoints {
		stats, err := c.statisticsFromEndpoint(ctx, endpoint)
		if err != nil {
			log.Debug("Endpoint unreachable during health probe",
				zap.String("endpoint", endpoint),
				zap.Error(err),
			)
			continue
		}
		if stats.BlockHeight == 0 {
			log.Debug("Endpoint did not report a block height",
				zap.String("endpoint", endpoint),
			)
			continue
		}
		probes = append(probes, probe{endpoint: endpoint, stats: stats})
	}

	if len(probes) == 0 {
		return nil, models.NewAppError(
			models.ErrorCodeNoReachableEndpoint,
			"no endpoint returned a block height during the health probe",
		)
	}

	var maxHeight uint64
	for _, p := range probes {
		if p.stats.BlockHeight > maxHeight {
			maxHeight = p.stats.BlockHeight
		}
	}

	minHeight := uint64(0)
	if maxHeight > maxLagBlocks {
		minHeight = maxHeight - maxLagBlocks
	}

	var healthy Endpoints
	for _, p := range probes {
		if p.stats.BlockHeight < minHeight {
			continue
		}
		if p.stats.DataNodeHeight > 0 && p.stats.DataNodeHeight < minHeight {
			continue
		}
		healthy = append(healthy, p.endpoint)
	}

	return healthy, nil
}
