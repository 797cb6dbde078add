package datanode

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vegaprotocol/research-bot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statisticsServer(t *testing.T, blockHeight, dataNodeHeight string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/statistics" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if dataNodeHeight != "" {
			w.Header().Set("x-block-height", dataNodeHeight)
		}
		fmt.Fprintf(w, `{"statistics": {"blockHeight": %q, "appVersion": "v0.76.1", "chainId": "testnet-1", "totalPeers": "4"}}`, blockHeight)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestStatistics(t *testing.T) {
	t.Run("MergesHeaderHeight", func(t *testing.T) {
		server := statisticsServer(t, "1000", "995")
		client := newTestClient(t, server.URL)

		stats, err := client.Statistics(context.Background())
		require.NoError(t, err)

		assert.Equal(t, uint64(1000), stats.BlockHeight)
		assert.Equal(t, uint64(995), stats.DataNodeHeight)
		assert.Equal(t, "v0.76.1", stats.AppVersion)
		assert.Equal(t, "testnet-1", stats.ChainID)
		assert.Equal(t, "4", stats.Values["totalPeers"])
		assert.Equal(t, "995", stats.Values["x-block-height"])
	})

	t.Run("MissingHeaderLeavesZero", func(t *testing.T) {
		server := statisticsServer(t, "1000", "")
		client := newTestClient(t, server.URL)

		stats, err := client.Statistics(context.Background())
		require.NoError(t, err)
		assert.Zero(t, stats.DataNodeHeight)
	})
}

func TestHealthyEndpoints(t *testing.T) {
	t.Run("FiltersLaggingEndpoints", func(t *testing.T) {
		caughtUp := statisticsServer(t, "1000", "1000")
		lagging := statisticsServer(t, "900", "")
		laggingData := statisticsServer(t, "1000", "880")

		down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer down.Close()

		client := newTestClient(t, down.URL, caughtUp.URL, lagging.URL, laggingData.URL)

		healthy, err := client.HealthyEndpoints(context.Background(), 50)
		require.NoError(t, err)
		assert.Equal(t, Endpoints{caughtUp.URL}, healthy)
	})

	t.Run("LagWithinBoundIsHealthy", func(t *testing.T) {
		best := statisticsServer(t, "1000", "")
		slightlyBehind := statisticsServer(t, "960", "955")

		client := newTestClient(t, best.URL, slightlyBehind.URL)

		healthy, err := client.HealthyEndpoints(context.Background(), 50)
		require.NoError(t, err)
		assert.Equal(t, Endpoints{best.URL, slightlyBehind.URL}, healthy)
	})

	t.Run("NoReachableEndpoint", func(t *testing.T) {
		down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer down.Close()

		client := newTestClient(t, down.URL)

		_, err := client.HealthyEndpoints(context.Background(), 50)
		require.Error(t, err)
		assert.True(t, models.IsCode(err, models.ErrorCodeNoReachableEndpoint))
	})
}
