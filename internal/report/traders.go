// Package report builds the /traders document: per-scenario trader rows
// with observed on-chain balances and configured funding targets.
package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/vegaprotocol/research-bot/internal/config"
	"github.com/vegaprotocol/research-bot/internal/datanode"
	"github.com/vegaprotocol/research-bot/internal/models"
	"github.com/vegaprotocol/research-bot/internal/wallet"
	"github.com/vegaprotocol/research-bot/pkg/logger"
	"github.com/vegaprotocol/research-bot/pkg/metrics"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// unknownPublicKey marks a trader key absent from the wallet state file.
const unknownPublicKey = "*** unknown ***"

// allowedAccountTypes are the account types that count towards a trader's
// observed balance.
var allowedAccountTypes = []string{
	models.AccountTypeGeneral,
	models.AccountTypeMargin,
	models.AccountTypeBond,
}

// DataSource is the data-node read surface the report depends on.
type DataSource interface {
	Markets(ctx context.Context) ([]models.Market, error)
	Assets(ctx context.Context) ([]models.Asset, error)
	Accounts(ctx context.Context, filter datanode.AccountFilter) ([]models.Account, error)
}

// Service assembles trader reports and serves them through the TTL cache.
type Service struct {
	data      DataSource
	wallet    wallet.Wallet
	scenarios map[string]config.ScenarioConfig
	cache     *Cache
	collector *metrics.Collector
}

// NewService creates the report service. A nil collector disables counters.
func NewService(
	data DataSource,
	w wallet.Wallet,
	scenarios map[string]config.ScenarioConfig,
	cacheTTL time.Duration,
	collector *metrics.Collector,
) *Service {
	s := &Service{
		data:      data,
		wallet:    w,
		scenarios: scenarios,
		collector: collector,
	}
	s.cache = NewCache(s.buildReport, cacheTTL)
	return s
}

// Serve returns the report body for one request. Authenticated callers
// always get a freshly built body that may include recovery material;
// anonymous callers share the cached body.
func (s *Service) Serve(ctx context.Context, authenticated bool) (map[string]models.TraderRow, bool, error) {
	body, cached, err := s.cache.Serve(ctx, authenticated)

	if s.collector != nil && !authenticated {
		if cached {
			s.collector.RecordCacheHit()
		} else {
			s.collector.RecordCacheMiss()
		}
	}

	return body, cached, err
}

// buildReport downloads markets, assets, wallet keys and account balances
// and assembles the trader rows for every configured scenario. A problem
// with one scenario skips that scenario's rows; only total network failure
// or pagination runaway fails the whole build.
func (s *Service) buildReport(ctx context.Context, authenticated bool) (map[string]models.TraderRow, error) {
	start := time.Now()

	body, err := s.assemble(ctx, authenticated)

	if s.collector != nil {
		s.collector.RecordRebuild(time.Since(start), err == nil)
	}

	return body, err
}

func (s *Service) assemble(ctx context.Context, authenticated bool) (map[string]models.TraderRow, error) {
	log := logger.GetLogger()

	markets, err := s.data.Markets(ctx)
	if err != nil {
		return nil, err
	}
	marketsByName := make(map[string]models.Market, len(markets))
	for _, market := range markets {
		marketsByName[market.Name] = market
	}

	assets, err := s.data.Assets(ctx)
	if err != nil {
		return nil, err
	}
	assetsByID := make(map[string]models.Asset, len(assets))
	for _, asset := range assets {
		assetsByID[asset.ID] = asset
	}

	// Wallet state is only needed to decorate rows; a read failure
	// degrades the rows to "unknown" instead of failing the report.
	state, err := s.wallet.StateSnapshot()
	if err != nil {
		log.Error("Failed to read wallet state, reporting wallets as unknown", zap.Error(err))
		state = wallet.State{}
	}

	traders := make(map[string]models.TraderRow)
	for _, scenarioName := range sortedKeys(s.scenarios) {
		scenarioCfg := s.scenarios[scenarioName]

		rows, err := s.scenarioRows(ctx, scenarioName, scenarioCfg, marketsByName, assetsByID, state, authenticated)
		if err != nil {
			if models.IsCode(err, models.ErrorCodeNoHealthyEndpoint) || models.IsCode(err, models.ErrorCodePaginationExceeded) {
				return nil, err
			}
			log.Error("Skipping scenario",
				zap.String("scenario", scenarioName),
				zap.Error(err),
			)
			if s.collector != nil {
				s.collector.RecordScenarioSkipped()
			}
			continue
		}

		for key, row := range rows {
			traders[key] = row
		}
	}

	return traders, nil
}

func (s *Service) scenarioRows(
	ctx context.Context,
	scenarioName string,
	scenarioCfg config.ScenarioConfig,
	marketsByName map[string]models.Market,
	assetsByID map[string]models.Asset,
	state wallet.State,
	authenticated bool,
) (map[string]models.TraderRow, error) {
	log := logger.GetLogger().WithFields(map[string]interface{}{
		"scenario": scenarioName,
	})

	market, ok := marketsByName[scenarioCfg.MarketName]
	if !ok {
		return nil, models.NewAppError(
			models.ErrorCodeMissingMarket,
			fmt.Sprintf("market %q is configured but does not exist on the network", scenarioCfg.MarketName),
		)
	}

	// Resolve the ERC20-capable settlement assets: one for futures and
	// perpetuals, base and quote for spot. Non-ERC20 settlement is
	// unsupported and silently excluded.
	var reportAssets []models.Asset
	assetDecimals := make(map[string]int32)
	for _, assetID := range market.SettlementAssets {
		asset, ok := assetsByID[assetID]
		if !ok {
			log.Warn("Settlement asset not found on the network", zap.String("asset_id", assetID))
			continue
		}
		if !asset.IsERC20() {
			log.Debug("Settlement asset has no ERC20 descriptor, excluded from the report",
				zap.String("asset_id", assetID),
			)
			continue
		}
		reportAssets = append(reportAssets, asset)
		assetDecimals[asset.ID] = asset.Decimals
	}

	if len(reportAssets) == 0 {
		return nil, models.NewAppError(
			models.ErrorCodeMissingAsset,
			fmt.Sprintf("market %q has no reportable settlement asset", market.Name),
		)
	}

	keys, err := s.wallet.ListKeys(scenarioName)
	if err != nil {
		return nil, fmt.Errorf("listing wallet keys: %w", err)
	}

	parties := make([]string, 0, len(keys))
	for _, publicKey := range keys {
		parties = append(parties, publicKey)
	}

	var accounts []models.Account
	for _, asset := range reportAssets {
		assetAccounts, err := s.data.Accounts(ctx, datanode.AccountFilter{AssetID: asset.ID})
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, assetAccounts...)
	}

	balances := Aggregate(accounts, AggregateFilter{
		Parties:       parties,
		MarketID:      market.ID,
		AccountTypes:  allowedAccountTypes,
		AssetDecimals: assetDecimals,
	})

	settlement := reportAssets[0]
	scenarioState, hasState := state[scenarioName]

	rows := make(map[string]models.TraderRow)
	emitted := make(map[TraderKind]int)
	for _, keyName := range sortedKeys(keys) {
		kind := KindOfKey(keyName)
		if kind == TraderKindUnknown {
			continue
		}

		params := paramsFor(scenarioCfg, kind)
		if emitted[kind] >= params.Traders {
			continue
		}
		emitted[kind]++

		publicKey := keys[keyName]

		balance := decimal.Zero
		for _, asset := range reportAssets {
			balance = balance.Add(balances[BalanceKey{Party: publicKey, Asset: asset.ID}])
		}
		observed, _ := balance.Float64()

		row := models.TraderRow{
			Name:   fmt.Sprintf("%s_%s", market.ID, keyName),
			PubKey: publicKey,
			Parameters: models.TraderParameters{
				MarketBase:                              market.Base(),
				MarketQuote:                             market.Quote(),
				MarketSettlementEthereumContractAddress: settlement.ERC20ContractAddress,
				MarketSettlementVegaAssetID:             settlement.ID,
				WantedTokens:                            params.InitialMint,
				Balance:                                 observed,
				EnableTopUp:                             scenarioCfg.EnableTopUp,
			},
			Wallet: &models.TraderWallet{
				Index:     -1,
				PublicKey: unknownPublicKey,
			},
		}

		if hasState {
			if keyState, ok := scenarioState.Keys[publicKey]; ok {
				row.Wallet.Index = keyState.Index
				row.Wallet.PublicKey = keyState.PublicKey
			}
			if authenticated {
				row.Wallet.RecoveryPhrase = scenarioState.RecoveryPhrase
			}
		}

		rows[row.Name] = row
	}

	return rows, nil
}

func paramsFor(cfg config.ScenarioConfig, kind TraderKind) config.TraderParams {
	switch kind {
	case TraderKindMarketMaker:
		return cfg.MarketMaker
	case TraderKindAuctionTrader:
		return cfg.AuctionTrader
	case TraderKindRandomTrader:
		return cfg.RandomTrader
	case TraderKindSensitiveTrader:
		return cfg.SensitiveTrader
	default:
		return config.TraderParams{}
	}
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
