package datanode

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/vegaprotocol/research-bot/internal/models"
	"github.com/vegaprotocol/research-bot/pkg/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type accountsEnvelope struct {
	Accounts *edgeList[accountNode] `json:"accounts"`
}

func (e *accountsEnvelope) ok() bool {
	return e.Accounts != nil
}

type accountNode struct {
	Owner    string `json:"owner"`
	Balance  string `json:"balance"`
	Asset    string `json:"asset"`
	MarketID string `json:"marketId"`
	Type     string `json:"type"`
}

// AccountFilter restricts the accounts query. Empty fields are omitted from
// the request; party and market lists are comma-joined.
type AccountFilter struct {
	AssetID   string
	PartyIDs  []string
	MarketIDs []string
}

func (f AccountFilter) query() url.Values {
	values := url.Values{}
	if f.AssetID != "" {
		values.Set("filter.assetId", f.AssetID)
	}
	if len(f.PartyIDs) > 0 {
		values.Set("filter.partyIds", strings.Join(f.PartyIDs, ","))
	}
	if len(f.MarketIDs) > 0 {
		values.Set("filter.marketIds", strings.Join(f.MarketIDs, ","))
	}
	return values
}

// Accounts drains the cursor-paginated accounts collection matching the
// filter. Each page's continuation token is used exactly once; the loop
// stops when the data node reports no further pages, and fails closed with
// a PAGINATION_EXCEEDED error if the cursor never terminates.
func (c *Client) Accounts(ctx context.Context, filter AccountFilter) ([]models.Account, error) {
	log := logger.GetLogger()

	values := filter.query()

	var accounts []models.Account
	for page := 0; page < maxAccountPages; page++ {
		path := "api/v2/accounts"
		if encoded := values.Encode(); encoded != "" {
			path += "?" + encoded
		}

		env, _, err := getResource[accountsEnvelope](ctx, c, path)
		if err != nil {
			return nil, err
		}

		for _, edge := range env.Accounts.Edges {
			account, err := accountFromNode(edge.Node)
			if err != nil {
				// A single malformed record does not abort the page.
				log.Warn("Skipping malformed account record",
					zap.String("owner", edge.Node.Owner),
					zap.String("asset", edge.Node.Asset),
					zap.Error(err),
				)
				continue
			}
			accounts = append(accounts, account)
		}

		info := env.Accounts.PageInfo
		if info == nil || !info.HasNextPage {
			return accounts, nil
		}
		values.Set("pagination.after", info.EndCursor)
	}

	return nil, models.NewAppError(
		models.ErrorCodePaginationExceeded,
		fmt.Sprintf("accounts pagination did not terminate within %d pages", maxAccountPages),
	)
}

func accountFromNode(node accountNode) (models.Account, error) {
	balance, err := decimal.NewFromString(node.Balance)
	if err != nil || !balance.IsInteger() {
		return models.Account{}, models.NewAppErrorWithCause(
			models.ErrorCodeMalformedAccount,
			fmt.Sprintf("account balance %q is not an integer", node.Balance),
			err,
		)
	}

	return models.Account{
		Owner:    node.Owner,
		Balance:  balance,
		Asset:    node.Asset,
		MarketID: node.MarketID,
		Type:     node.Type,
	}, nil
}
