package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/brandpulse/citation-service/internal/storage"
)

// AdminHandler handles administrative endpoints over the audit trail.
type AdminHandler struct {
	calls  storage.CallRepository
	logger *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(calls storage.CallRepository, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		calls:  calls,
		logger: logger,
	}
}

// Stats returns provider-call counts and per-platform reliability.
// Route: GET /api/v1/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	total, err := h.calls.Count(ctx)
	if err != nil {
		h.logger.Error("counting provider calls", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	successful, err := h.calls.CountSuccessful(ctx)
	if err != nil {
		h.logger.Error("counting successful calls", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	byPlatform, err := h.calls.StatsByPlatform(ctx)
	if err != nil {
		h.logger.Error("aggregating platform stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":       total,
		"successful":  successful,
		"failed":      total - successful,
		"by_platform": byPlatform,
	})
}

// Calls returns the most recent provider-call audit rows.
// Route: GET /api/v1/admin/calls?limit=50
func (h *AdminHandler) Calls(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 500 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "limit must be an integer between 1 and 500",
		})
		return
	}

	calls, err := h.calls.ListRecent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("listing recent calls", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"calls": calls})
}
