package models

// TraderRow is a single entry of the /traders report, keyed in the response
// by "<marketID>_<keyName>".
type TraderRow struct {
	Name       string           `json:"name"`
	PubKey     string           `json:"pubKey"`
	Parameters TraderParameters `json:"parameters"`
	Wallet     *TraderWallet    `json:"wallet,omitempty"`
}

// TraderParameters describes the market and funding targets for a trader key.
type TraderParameters struct {
	MarketBase                              string  `json:"marketBase"`
	MarketQuote                             string  `json:"marketQuote"`
	MarketSettlementEthereumContractAddress string  `json:"marketSettlementEthereumContractAddress"`
	MarketSettlementVegaAssetID             string  `json:"marketSettlementVegaAssetID"`
	WantedTokens                            float64 `json:"wantedTokens"`
	Balance                                 float64 `json:"balance"`
	EnableTopUp                             bool    `json:"enableTopUp"`
}

// TraderWallet identifies the wallet key backing a trader row.
// RecoveryPhrase is populated only for authenticated callers and must never
// be written to the shared response cache.
type TraderWallet struct {
	Index          int    `json:"index"`
	PublicKey      string `json:"publicKey"`
	RecoveryPhrase string `json:"recoveryPhrase,omitempty"`
}

// TradersReport is the externally served /traders document body.
type TradersReport struct {
	Traders map[string]TraderRow `json:"traders"`
}
