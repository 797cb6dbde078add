package report

import "strings"

// TraderKind is the category of a scenario wallet key. Keys are classified
// by an explicit prefix table rather than substring matching, so key names
// like "random_trader_2" map unambiguously to their category.
type TraderKind int

const (
	TraderKindUnknown TraderKind = iota
	TraderKindMarketMaker
	TraderKindAuctionTrader
	TraderKindRandomTrader
	TraderKindSensitiveTrader
)

var kindPrefixes = []struct {
	prefix string
	kind   TraderKind
}{
	{"market_maker", TraderKindMarketMaker},
	{"auction_trader", TraderKindAuctionTrader},
	{"random_trader", TraderKindRandomTrader},
	{"sensitive_trader", TraderKindSensitiveTrader},
}

// KindOfKey classifies a wallet key name. A key matches a category when its
// name is exactly the category prefix or the prefix followed by "_<suffix>".
func KindOfKey(keyName string) TraderKind {
	for _, entry := range kindPrefixes {
		if keyName == entry.prefix || strings.HasPrefix(keyName, entry.prefix+"_") {
			return entry.kind
		}
	}
	return TraderKindUnknown
}

// String implements fmt.Stringer for logging.
func (k TraderKind) String() string {
	switch k {
	case TraderKindMarketMaker:
		return "market_maker"
	case TraderKindAuctionTrader:
		return "auction_trader"
	case TraderKindRandomTrader:
		return "random_trader"
	case TraderKindSensitiveTrader:
		return "sensitive_trader"
	default:
		return "unknown"
	}
}
