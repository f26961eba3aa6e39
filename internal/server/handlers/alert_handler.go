package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/avicontrol/avicontrol/internal/domain/models"
	"github.com/avicontrol/avicontrol/internal/service/alerts"
)

// AlertHandler serves the /alertas routes.
type AlertHandler struct {
	svc    *alerts.Service
	logger *zap.Logger
}

// NewAlertHandler constructs the HTTP handler adapter for alerts.
func NewAlertHandler(svc *alerts.Service, logger *zap.Logger) *AlertHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AlertHandler{svc: svc, logger: logger}
}

// List returns alerts matching the conjunction of ?tipo=, ?prioridad=,
// ?estado= and ?lote=. Omitted parameters match everything.
func (h *AlertHandler) List(c *gin.Context) {
	filter := alerts.Filter{
		Type:     models.AlertType(c.Query("tipo")),
		Priority: models.AlertPriority(c.Query("prioridad")),
		Status:   models.AlertStatus(c.Query("estado")),
		BatchID:  c.Query("lote"),
	}

	if filter.Type != "" && !filter.Type.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown tipo"})
		return
	}
	if filter.Priority != "" && !filter.Priority.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown prioridad"})
		return
	}
	if filter.Status != "" && !filter.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown estado"})
		return
	}

	c.JSON(http.StatusOK, h.svc.FilterBy(filter))
}

// Get returns one alert by id.
func (h *AlertHandler) Get(c *gin.Context) {
	alert, err := h.svc.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, alert)
}

// Create registers a new alert.
func (h *AlertHandler) Create(c *gin.Context) {
	var draft models.Alert
	if err := c.ShouldBindJSON(&draft); err != nil {
		h.logger.Warn("invalid alert payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	created, err := h.svc.Create(c.Request.Context(), draft)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Update applies a partial patch to the alert.
func (h *AlertHandler) Update(c *gin.Context) {
	var patch alerts.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.logger.Warn("invalid alert patch", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Resolve marks the alert resolved.
func (h *AlertHandler) Resolve(c *gin.Context) {
	resolved, err := h.svc.Resolve(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resolved)
}

// Delete removes the alert.
func (h *AlertHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
