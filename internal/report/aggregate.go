package report

import (
	"github.com/vegaprotocol/research-bot/internal/models"

	"github.com/shopspring/decimal"
)

// BalanceKey identifies a party's aggregated balance in one asset.
type BalanceKey struct {
	Party string
	Asset string
}

// AggregateFilter scopes balance aggregation.
type AggregateFilter struct {
	// Parties are the target party public keys. Every target party appears
	// in the result even with no accounts, so a missing party reads as
	// "zero balance" rather than "unknown".
	Parties []string
	// MarketID is the market scope. Accounts with a non-empty market scope
	// different from this one are skipped; cross-market accounts (empty
	// scope) always count.
	MarketID string
	// AccountTypes is the allow-list of account type tags.
	AccountTypes []string
	// AssetDecimals declares the decimal precision per reported asset.
	// Accounts in assets absent from this map are skipped, since their
	// balances cannot be scaled.
	AssetDecimals map[string]int32
}

// Aggregate folds account snapshots into per-(party, asset) balances,
// scaled by each asset's declared decimal precision. The result is
// deterministic under any input ordering; duplicate account records for the
// same party, asset and scope legitimately sum together.
func Aggregate(accounts []models.Account, filter AggregateFilter) map[BalanceKey]decimal.Decimal {
	balances := make(map[BalanceKey]decimal.Decimal, len(filter.Parties)*len(filter.AssetDecimals))
	for _, party := range filter.Parties {
		for asset := range filter.AssetDecimals {
			balances[BalanceKey{Party: party, Asset: asset}] = decimal.Zero
		}
	}

	allowedTypes := make(map[string]struct{}, len(filter.AccountTypes))
	for _, accountType := range filter.AccountTypes {
		allowedTypes[accountType] = struct{}{}
	}

	for _, account := range accounts {
		decimals, ok := filter.AssetDecimals[account.Asset]
		if !ok {
			continue
		}

		key := BalanceKey{Party: account.Owner, Asset: account.Asset}
		current, ok := balances[key]
		if !ok {
			// Owner is not a target party.
			continue
		}

		if account.MarketID != "" && account.MarketID != filter.MarketID {
			continue
		}

		if _, ok := allowedTypes[account.Type]; !ok {
			continue
		}

		balances[key] = current.Add(account.Balance.Shift(-decimals))
	}

	return balances
}
