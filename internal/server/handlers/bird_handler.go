package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/avicontrol/avicontrol/internal/domain/models"
	"github.com/avicontrol/avicontrol/internal/service/batches"
	"github.com/avicontrol/avicontrol/internal/service/birds"
)

// BirdHandler serves the /pollos routes.
type BirdHandler struct {
	svc     *birds.Service
	batches *batches.Service
	logger  *zap.Logger
}

// NewBirdHandler constructs the HTTP handler adapter for birds.
func NewBirdHandler(svc *birds.Service, batchSvc *batches.Service, logger *zap.Logger) *BirdHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BirdHandler{svc: svc, batches: batchSvc, logger: logger}
}

// List returns birds, optionally scoped with ?lote= (batch id or display
// name) and ?estado=.
func (h *BirdHandler) List(c *gin.Context) {
	if ref := c.Query("lote"); ref != "" {
		batchID, ok := h.batches.ResolveRef(ref)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown lote reference"})
			return
		}
		c.JSON(http.StatusOK, h.svc.InBatch(batchID))
		return
	}

	if estado := c.Query("estado"); estado != "" {
		status := models.HealthState(estado)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown estado"})
			return
		}
		var out []models.Bird
		for _, bird := range h.svc.List() {
			if bird.Status == status {
				out = append(out, bird)
			}
		}
		c.JSON(http.StatusOK, out)
		return
	}

	c.JSON(http.StatusOK, h.svc.List())
}

// Get returns one bird by id.
func (h *BirdHandler) Get(c *gin.Context) {
	bird, err := h.svc.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bird)
}

// Create registers a new bird. The lote field may carry a batch display
// name; it is resolved to the canonical batch id before it reaches the
// store.
func (h *BirdHandler) Create(c *gin.Context) {
	var draft models.Bird
	if err := c.ShouldBindJSON(&draft); err != nil {
		h.logger.Warn("invalid bird payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if draft.BatchID != "" {
		if batchID, ok := h.batches.ResolveRef(draft.BatchID); ok {
			draft.BatchID = batchID
		}
	}

	created, err := h.svc.Create(c.Request.Context(), draft)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Update applies a partial patch to the bird.
func (h *BirdHandler) Update(c *gin.Context) {
	var patch birds.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.logger.Warn("invalid bird patch", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if patch.BatchID != nil {
		if batchID, ok := h.batches.ResolveRef(*patch.BatchID); ok {
			patch.BatchID = &batchID
		}
	}

	updated, err := h.svc.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes the bird.
func (h *BirdHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
