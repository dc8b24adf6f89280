package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/brandpulse/citation-service/internal/catalog"
	"github.com/brandpulse/citation-service/internal/model"
	"github.com/brandpulse/citation-service/internal/service"
)

// CitationHandler handles citation query requests.
type CitationHandler struct {
	citations *service.CitationService
	registry  *catalog.Registry
	logger    *zap.Logger
}

// NewCitationHandler creates a new CitationHandler.
func NewCitationHandler(citations *service.CitationService, registry *catalog.Registry, logger *zap.Logger) *CitationHandler {
	return &CitationHandler{
		citations: citations,
		registry:  registry,
		logger:    logger,
	}
}

// queryRequest is the JSON body for POST /api/v1/citations.
type queryRequest struct {
	Query    string   `json:"query" binding:"required"`
	Keywords []string `json:"keywords"`
}

// citationView is the presentation shape of one result. The continuous
// sentiment score is kept, and the categorical label is derived here —
// at the presentation boundary, not inside the engine.
type citationView struct {
	Platform       model.Platform `json:"platform"`
	Model          string         `json:"model"`
	Query          string         `json:"query"`
	Response       string         `json:"response"`
	Mentions       []string       `json:"mentions"`
	Sentiment      float64        `json:"sentiment"`
	SentimentLabel string         `json:"sentiment_label"`
	Confidence     float64        `json:"confidence"`
	Timestamp      time.Time      `json:"timestamp"`
}

// Query runs one query against all platforms.
// Route: POST /api/v1/citations
//
// Partial provider failure is invisible here: clients get whatever survived.
// An empty results array is a normal 200, not an error.
func (h *CitationHandler) Query(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid request body: query is required",
		})
		return
	}

	agg, err := h.citations.QueryAllPlatforms(c.Request.Context(), model.Query{
		Text:     req.Query,
		Keywords: req.Keywords,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmptyQuery) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
			return
		}
		h.logger.Error("citation query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	views := make([]citationView, 0, len(agg.Results))
	for _, res := range agg.Results {
		views = append(views, citationView{
			Platform:       res.Platform,
			Model:          res.Model,
			Query:          res.Query,
			Response:       res.Response,
			Mentions:       res.Mentions,
			Sentiment:      res.Sentiment,
			SentimentLabel: model.SentimentLabel(res.Sentiment),
			Confidence:     res.Confidence,
			Timestamp:      res.Timestamp,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id":  agg.RunID,
		"results": views,
	})
}

// Platforms lists the catalog: each platform with its models and default.
// Route: GET /api/v1/platforms
func (h *CitationHandler) Platforms(c *gin.Context) {
	type platformView struct {
		Platform     model.Platform `json:"platform"`
		Models       []string       `json:"models"`
		DefaultModel string         `json:"default_model"`
	}

	platforms := h.registry.Platforms()
	views := make([]platformView, 0, len(platforms))
	for _, p := range platforms {
		models, err := h.registry.Models(p)
		if err != nil {
			continue
		}
		views = append(views, platformView{
			Platform:     p,
			Models:       models,
			DefaultModel: models[0],
		})
	}

	c.JSON(http.StatusOK, gin.H{"platforms": views})
}
