package datanode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vegaprotocol/research-bot/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func accountsPage(owners []string, hasNext bool, endCursor string) string {
	edges := make([]map[string]any, 0, len(owners))
	for _, owner := range owners {
		edges = append(edges, map[string]any{
			"node": map[string]any{
				"owner":    owner,
				"balance":  "100",
				"asset":    "asset-1",
				"marketId": "",
				"type":     "ACCOUNT_TYPE_GENERAL",
			},
		})
	}

	body, _ := json.Marshal(map[string]any{
		"accounts": map[string]any{
			"edges":    edges,
			"pageInfo": map[string]any{"hasNextPage": hasNext, "endCursor": endCursor},
		},
	})
	return string(body)
}

func TestAccountsPagination(t *testing.T) {
	t.Run("DrainsAllPagesInOrder", func(t *testing.T) {
		pages := map[string]string{
			"":        accountsPage([]string{"p1", "p2"}, true, "cursor-1"),
			"cursor-1": accountsPage([]string{"p3"}, true, "cursor-2"),
			"cursor-2": accountsPage([]string{"p4", "p5"}, false, ""),
		}

		var requests int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			assert.Equal(t, "/api/v2/accounts", r.URL.Path)
			assert.Equal(t, "asset-1", r.URL.Query().Get("filter.assetId"))

			page, ok := pages[r.URL.Query().Get("pagination.after")]
			require.True(t, ok, "unexpected continuation token %q", r.URL.Query().Get("pagination.after"))
			w.Write([]byte(page))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)

		accounts, err := client.Accounts(context.Background(), AccountFilter{AssetID: "asset-1"})
		require.NoError(t, err)

		assert.Equal(t, 3, requests, "one request per page")

		owners := make([]string, 0, len(accounts))
		for _, account := range accounts {
			owners = append(owners, account.Owner)
		}
		assert.Equal(t, []string{"p1", "p2", "p3", "p4", "p5"}, owners)
	})

	t.Run("ListsAreCommaJoined", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "p1,p2", r.URL.Query().Get("filter.partyIds"))
			assert.Equal(t, "m1,m2", r.URL.Query().Get("filter.marketIds"))
			assert.Empty(t, r.URL.Query().Get("filter.assetId"))
			w.Write([]byte(accountsPage(nil, false, "")))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)

		accounts, err := client.Accounts(context.Background(), AccountFilter{
			PartyIDs:  []string{"p1", "p2"},
			MarketIDs: []string{"m1", "m2"},
		})
		require.NoError(t, err)
		assert.Empty(t, accounts)
	})

	t.Run("PageWithoutItemsContributesNothing", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"accounts": {}}`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)

		accounts, err := client.Accounts(context.Background(), AccountFilter{AssetID: "asset-1"})
		require.NoError(t, err)
		assert.Empty(t, accounts)
	})

	t.Run("MalformedBalanceSkipsRecordOnly", func(t *testing.T) {
		body := `{
			"accounts": {
				"edges": [
					{"node": {"owner": "p1", "balance": "oops", "asset": "asset-1", "marketId": "", "type": "ACCOUNT_TYPE_GENERAL"}},
					{"node": {"owner": "p2", "balance": "1.5", "asset": "asset-1", "marketId": "", "type": "ACCOUNT_TYPE_GENERAL"}},
					{"node": {"owner": "p3", "balance": "250", "asset": "asset-1", "marketId": "", "type": "ACCOUNT_TYPE_GENERAL"}}
				],
				"pageInfo": {"hasNextPage": false, "endCursor": ""}
			}
		}`

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)

		accounts, err := client.Accounts(context.Background(), AccountFilter{AssetID: "asset-1"})
		require.NoError(t, err)
		require.Len(t, accounts, 1)
		assert.Equal(t, "p3", accounts[0].Owner)
		assert.True(t, accounts[0].Balance.Equal(decimal.NewFromInt(250)))
	})

	t.Run("RunawayCursorFailsClosed", func(t *testing.T) {
		var requests int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			w.Write([]byte(accountsPage([]string{"p1"}, true, fmt.Sprintf("cursor-%d", requests))))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)

		_, err := client.Accounts(context.Background(), AccountFilter{AssetID: "asset-1"})
		require.Error(t, err)
		assert.True(t, models.IsCode(err, models.ErrorCodePaginationExceeded))
		assert.Equal(t, maxAccountPages, requests)
	})

	t.Run("FailoverErrorPropagates", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)

		_, err := client.Accounts(context.Background(), AccountFilter{AssetID: "asset-1"})
		require.Error(t, err)
		assert.True(t, models.IsCode(err, models.ErrorCodeNoHealthyEndpoint))
	})
}
