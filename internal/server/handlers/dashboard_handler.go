package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/avicontrol/avicontrol/internal/service/predictions"
	"github.com/avicontrol/avicontrol/internal/service/reporting"
)

// DashboardHandler serves the aggregated metrics block and the prediction
// listing.
type DashboardHandler struct {
	reporting   *reporting.Service
	predictions *predictions.Service
	logger      *zap.Logger
}

// NewDashboardHandler constructs the HTTP handler adapter for the
// dashboard.
func NewDashboardHandler(reportingSvc *reporting.Service, predictionSvc *predictions.Service, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{reporting: reportingSvc, predictions: predictionSvc, logger: logger}
}

// Metrics returns the live dashboard metrics block.
func (h *DashboardHandler) Metrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.reporting.Metrics())
}

// Predictions returns the stored predictions, optionally scoped with
// ?lote=.
func (h *DashboardHandler) Predictions(c *gin.Context) {
	if batchID := c.Query("lote"); batchID != "" {
		c.JSON(http.StatusOK, h.predictions.ForBatch(batchID))
		return
	}
	c.JSON(http.StatusOK, h.predictions.List())
}
