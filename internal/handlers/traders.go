package handlers

import (
	"context"
	"net/http"

	"github.com/vegaprotocol/research-bot/internal/auth"
	"github.com/vegaprotocol/research-bot/internal/models"
	"github.com/vegaprotocol/research-bot/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReportService is the surface of the report component consumed by HTTP
// handlers.
type ReportService interface {
	Serve(ctx context.Context, authenticated bool) (map[string]models.TraderRow, bool, error)
}

// TradersHandler serves the /traders report.
type TradersHandler struct {
	service ReportService
	tokens  *auth.TokenSet
}

// NewTradersHandler creates a new TradersHandler instance.
func NewTradersHandler(service ReportService, tokens *auth.TokenSet) *TradersHandler {
	return &TradersHandler{
		service: service,
		tokens:  tokens,
	}
}

// GetTraders handles GET /traders requests.
func (h *TradersHandler) GetTraders(c *gin.Context) {
	log := logger.GetLogger().WithContext(c.Request.Context())

	authenticated := h.tokens.IsAuthenticated(c.GetHeader("Authorization"))
	if authenticated {
		log.Info("Serving traders report without cache for authenticated caller")
	}

	body, cached, err := h.service.Serve(c.Request.Context(), authenticated)
	if err != nil {
		log.Error("Failed to build traders report", zap.Error(err))
		models.HandleError(c, err)
		return
	}

	log.Info("Traders report served",
		zap.Bool("cached", cached),
		zap.Int("rows", len(body)),
	)

	c.JSON(http.StatusOK, models.TradersReport{Traders: body})
}
