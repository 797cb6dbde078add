package datanode

import (
	"context"
	"strings"

	"github.com/vegaprotocol/research-bot/internal/models"
)

type marketsEnvelope struct {
	Markets *edgeList[marketNode] `json:"markets"`
}

func (e *marketsEnvelope) ok() bool {
	return e.Markets != nil
}

// edgeList is the connection envelope used by the v2 API for collections.
type edgeList[T any] struct {
	Edges    []edge[T] `json:"edges"`
	PageInfo *pageInfo `json:"pageInfo"`
}

type edge[T any] struct {
	Node T `json:"node"`
}

type pageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

type marketNode struct {
	ID                 string `json:"id"`
	TradableInstrument struct {
		Instrument struct {
			Name     string `json:"name"`
			Metadata struct {
				Tags []string `json:"tags"`
			} `json:"metadata"`
			Future *struct {
				SettlementAsset string `json:"settlementAsset"`
			} `json:"future"`
			Perpetual *struct {
				SettlementAsset string `json:"settlementAsset"`
			} `json:"perpetual"`
			Spot *struct {
				BaseAsset  string `json:"baseAsset"`
				QuoteAsset string `json:"quoteAsset"`
			} `json:"spot"`
		} `json:"instrument"`
	} `json:"tradableInstrument"`
}

// Markets downloads all markets known to the network.
func (c *Client) Markets(ctx context.Context) ([]models.Market, error) {
	env, _, err := getResource[marketsEnvelope](ctx, c, "api/v2/markets")
	if err != nil {
		return nil, err
	}

	markets := make([]models.Market, 0, len(env.Markets.Edges))
	for _, edge := range env.Markets.Edges {
		markets = append(markets, marketFromNode(edge.Node))
	}

	return markets, nil
}

func marketFromNode(node marketNode) models.Market {
	instrument := node.TradableInstrument.Instrument

	var settlementAssets []string
	switch {
	case instrument.Future != nil:
		settlementAssets = []string{instrument.Future.SettlementAsset}
	case instrument.Perpetual != nil:
		settlementAssets = []string{instrument.Perpetual.SettlementAsset}
	case instrument.Spot != nil:
		settlementAssets = []string{instrument.Spot.BaseAsset, instrument.Spot.QuoteAsset}
	}

	return models.Market{
		ID:               node.ID,
		Name:             instrument.Name,
		SettlementAssets: settlementAssets,
		Tags:             parseTags(instrument.Metadata.Tags),
	}
}

// parseTags turns the colon-delimited metadata list into a map. Entries
// without a colon are dropped.
func parseTags(tags []string) map[string]string {
	parsed := make(map[string]string, len(tags))
	for _, tag := range tags {
		key, value, found := strings.Cut(tag, ":")
		if !found {
			continue
		}
		parsed[key] = value
	}
	return parsed
}
