package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/avicontrol/avicontrol/internal/domain/models"
	"github.com/avicontrol/avicontrol/internal/service/batches"
	"github.com/avicontrol/avicontrol/internal/service/birds"
)

// BatchHandler serves the /lotes routes.
type BatchHandler struct {
	svc    *batches.Service
	birds  *birds.Service
	logger *zap.Logger
}

// NewBatchHandler constructs the HTTP handler adapter for batches.
func NewBatchHandler(svc *batches.Service, birdSvc *birds.Service, logger *zap.Logger) *BatchHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchHandler{svc: svc, birds: birdSvc, logger: logger}
}

// List returns every batch, or only the active ones with ?estado=activo.
func (h *BatchHandler) List(c *gin.Context) {
	if c.Query("estado") == string(models.BatchActive) {
		c.JSON(http.StatusOK, h.svc.Active())
		return
	}
	c.JSON(http.StatusOK, h.svc.List())
}

// Get returns one batch by id.
func (h *BatchHandler) Get(c *gin.Context) {
	batch, err := h.svc.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, batch)
}

// Create registers a new batch from the request body.
func (h *BatchHandler) Create(c *gin.Context) {
	var draft models.Batch
	if err := c.ShouldBindJSON(&draft); err != nil {
		h.logger.Warn("invalid batch payload", zap.Error(err))
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

// Update applies a partial patch to the batch.
func (h *BatchHandler) Update(c *gin.Context) {
	var patch batches.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.logger.Warn("invalid batch patch", zap.Error(err))
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

// Delete removes the batch under the configured cascade policy.
func (h *BatchHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Birds returns the birds belonging to the batch.
func (h *BatchHandler) Birds(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.svc.Get(id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.birds.InBatch(id))
}
