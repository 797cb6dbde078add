package datanode

import (
	"context"
	"strconv"

	"github.com/vegaprotocol/research-bot/internal/models"
	"github.com/vegaprotocol/research-bot/pkg/logger"

	"go.uber.org/zap"
)

type assetsEnvelope struct {
	Assets *edgeList[assetNode] `json:"assets"`
}

func (e *assetsEnvelope) ok() bool {
	return e.Assets != nil
}

type assetNode struct {
	ID      string `json:"id"`
	Details struct {
		Name     string `json:"name"`
		Symbol   string `json:"symbol"`
		Decimals string `json:"decimals"`
		ERC20    *struct {
			ContractAddress string `json:"contractAddress"`
		} `json:"erc20"`
	} `json:"details"`
}

// Assets downloads all assets registered on the network.
func (c *Client) Assets(ctx context.Context) ([]models.Asset, error) {
	env, _, err := getResource[assetsEnvelope](ctx, c, "api/v2/assets")
	if err != nil {
		return nil, err
	}

	log := logger.GetLogger()

	assets := make([]models.Asset, 0, len(env.Assets.Edges))
	for _, edge := range env.Assets.Edges {
		node := edge.Node

		decimals, err := strconv.ParseInt(node.Details.Decimals, 10, 32)
		if err != nil {
			log.Warn("Asset reports a non-numeric decimal precision, assuming 0",
				zap.String("asset_id", node.ID),
				zap.String("decimals", node.Details.Decimals),
			)
			decimals = 0
		}

		asset := models.Asset{
			ID:       node.ID,
			Symbol:   node.Details.Symbol,
			Decimals: int32(decimals),
		}
		if node.Details.ERC20 != nil {
			asset.ERC20ContractAddress = node.Details.ERC20.ContractAddress
		}

		assets = append(assets, asset)
	}

	return assets, nil
}
