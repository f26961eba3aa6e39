package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avicontrol/avicontrol/internal/store"
)

// writeError maps store errors onto HTTP status codes: validation → 422,
// not found → 404, backend → 502, anything else → 500.
func writeError(c *gin.Context, err error) {
	var ve *store.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": ve.Error(), "fields": ve.Fields})
		return
	}

	var nf *store.NotFoundError
	if errors.As(err, &nf) {
		c.JSON(http.StatusNotFound, gin.H{"error": nf.Error()})
		return
	}

	var be *store.BackendError
	if errors.As(err, &be) {
		c.JSON(http.StatusBadGateway, gin.H{"error": be.Error()})
		return
	}

	var conflict *store.ConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, gin.H{"error": conflict.Error()})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
