package models

import "github.com/shopspring/decimal"

// Account type tags as reported by the data node.
const (
	AccountTypeGeneral = "ACCOUNT_TYPE_GENERAL"
	AccountTypeMargin  = "ACCOUNT_TYPE_MARGIN"
	AccountTypeBond    = "ACCOUNT_TYPE_BOND"
)

// Market represents a tradable market downloaded from the data node.
// SettlementAssets holds one asset ID for futures and perpetuals, and the
// base and quote asset IDs for spot markets.
type Market struct {
	ID               string
	Name             string
	SettlementAssets []string
	// Tags is the instrument metadata parsed from the colon-delimited
	// "key:value" tag list. Malformed entries are dropped.
	Tags map[string]string
}

// Base returns the base symbol for the market, preferring the "base"
// metadata tag over "ticker".
func (m Market) Base() string {
	if base, ok := m.Tags["base"]; ok {
		return base
	}
	return m.Tags["ticker"]
}

// Quote returns the quote symbol for the market, empty when not tagged.
func (m Market) Quote() string {
	return m.Tags["quote"]
}

// Asset represents a settlement asset registered on the network.
type Asset struct {
	ID       string
	Symbol   string
	Decimals int32
	// ERC20ContractAddress is empty for assets without an ERC20 descriptor.
	// Such assets are excluded from balance reporting.
	ERC20ContractAddress string
}

// IsERC20 reports whether the asset carries an ERC20 descriptor.
func (a Asset) IsERC20() bool {
	return a.ERC20ContractAddress != ""
}

// Account is an immutable balance snapshot for a single party account.
// Balance is in the asset's smallest unit, unscaled.
type Account struct {
	Owner   string
	Balance decimal.Decimal
	Asset   string
	// MarketID is empty for cross-market accounts such as the general account.
	MarketID string
	Type     string
}

// Statistics is the merged view of a node's /statistics response and the
// data-node block height reported through the x-block-height response header.
type Statistics struct {
	BlockHeight uint64
	AppVersion  string
	ChainID     string
	// DataNodeHeight is zero when the node did not report the header.
	DataNodeHeight uint64
	// Values carries every raw field of the statistics body so callers can
	// expose the full map without this package enumerating all of them.
	Values map[string]string
}
