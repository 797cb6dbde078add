package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const botsFixture = `
network:
  rest_endpoints:
    - node1.example.com
    - node2.example.com
  max_lag_blocks: 250
scenarios:
  scenario-1:
    market_name: AAVE/DAI
    enable_top_up: true
    market_maker:
      traders: 1
      initial_mint: 1000
    random_trader:
      traders: 5
      initial_mint: 50
auth_tokens:
  - secret-token
wallet:
  state_file: /var/lib/bots/wallets.json
`

func writeBotsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("LoadsBotsFileAndDefaults", func(t *testing.T) {
		t.Setenv("BOTS_CONFIG_FILE", writeBotsFile(t, botsFixture))

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, time.Minute, cfg.Cache.TTL)

		assert.Equal(t, []string{"node1.example.com", "node2.example.com"}, cfg.Bots.Network.RestEndpoints)
		assert.Equal(t, uint64(250), cfg.Bots.Network.MaxLagBlocks)
		assert.Equal(t, []string{"secret-token"}, cfg.Bots.AuthTokens)
		assert.Equal(t, "/var/lib/bots/wallets.json", cfg.Bots.Wallet.StateFile)

		scenario := cfg.Bots.Scenarios["scenario-1"]
		assert.Equal(t, "AAVE/DAI", scenario.MarketName)
		assert.True(t, scenario.EnableTopUp)
		assert.Equal(t, TraderParams{Traders: 5, InitialMint: 50}, scenario.RandomTrader)
	})

	t.Run("EnvironmentOverrides", func(t *testing.T) {
		t.Setenv("BOTS_CONFIG_FILE", writeBotsFile(t, botsFixture))
		t.Setenv("SERVER_PORT", "9999")
		t.Setenv("REPORT_CACHE_TTL", "90s")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "9999", cfg.Server.Port)
		assert.Equal(t, 90*time.Second, cfg.Cache.TTL)
	})

	t.Run("MissingBotsFileFails", func(t *testing.T) {
		t.Setenv("BOTS_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

		_, err := LoadConfig()
		assert.Error(t, err)
	})
}

func TestBotsConfigValidate(t *testing.T) {
	t.Run("RequiresEndpoints", func(t *testing.T) {
		t.Setenv("BOTS_CONFIG_FILE", writeBotsFile(t, "network: {rest_endpoints: []}"))

		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rest_endpoints")
	})

	t.Run("RequiresScenarioMarketName", func(t *testing.T) {
		content := `
network:
  rest_endpoints: [node1.example.com]
scenarios:
  broken: {}
`
		t.Setenv("BOTS_CONFIG_FILE", writeBotsFile(t, content))

		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "market_name")
	})

	t.Run("DefaultsLagBoundAndMarketMaker", func(t *testing.T) {
		content := `
network:
  rest_endpoints: [node1.example.com]
scenarios:
  scenario-1:
    market_name: AAVE/DAI
`
		t.Setenv("BOTS_CONFIG_FILE", writeBotsFile(t, content))

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, uint64(100), cfg.Bots.Network.MaxLagBlocks)
		assert.Equal(t, 1, cfg.Bots.Scenarios["scenario-1"].MarketMaker.Traders)
	})
}
