package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/avicontrol/avicontrol/internal/domain/models"
	"github.com/avicontrol/avicontrol/internal/service/health"
)

// HealthRecordHandler serves the /salud routes.
type HealthRecordHandler struct {
	svc    *health.Service
	logger *zap.Logger
}

// NewHealthRecordHandler constructs the HTTP handler adapter for
// veterinary records.
func NewHealthRecordHandler(svc *health.Service, logger *zap.Logger) *HealthRecordHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthRecordHandler{svc: svc, logger: logger}
}

// List returns records, optionally scoped with ?pollo= (bird id or
// identifier code) or ?lote= (batch id).
func (h *HealthRecordHandler) List(c *gin.Context) {
	if birdRef := c.Query("pollo"); birdRef != "" {
		c.JSON(http.StatusOK, h.svc.ForBird(birdRef))
		return
	}
	if batchID := c.Query("lote"); batchID != "" {
		c.JSON(http.StatusOK, h.svc.ForBatch(batchID))
		return
	}
	c.JSON(http.StatusOK, h.svc.List())
}

// Latest returns the most recent record for ?pollo=.
func (h *HealthRecordHandler) Latest(c *gin.Context) {
	birdRef := c.Query("pollo")
	if birdRef == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pollo query parameter is required"})
		return
	}

	record, found := h.svc.LatestFor(birdRef)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "no records for pollo"})
		return
	}
	c.JSON(http.StatusOK, record)
}

// Get returns one record by id.
func (h *HealthRecordHandler) Get(c *gin.Context) {
	record, err := h.svc.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// Create registers a new veterinary record.
func (h *HealthRecordHandler) Create(c *gin.Context) {
	var draft models.HealthRecord
	if err := c.ShouldBindJSON(&draft); err != nil {
		h.logger.Warn("invalid health record payload", zap.Error(err))
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

// Update applies a partial patch to the record.
func (h *HealthRecordHandler) Update(c *gin.Context) {
	var patch health.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.logger.Warn("invalid health record patch", zap.Error(err))
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

// Delete removes the record.
func (h *HealthRecordHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
