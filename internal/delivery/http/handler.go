package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shelfassist/backend/internal/domain"
	"github.com/shelfassist/backend/internal/usecase"
)

const (
	serviceName    = "shelfassist-backend"
	serviceVersion = "1.0.0"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	assistant  *usecase.AssistantService
	classifier *usecase.QueryClassifier
	metrics    *Metrics
}

// NewHandler creates a new HTTP handler
func NewHandler(assistant *usecase.AssistantService, classifier *usecase.QueryClassifier, metrics *Metrics) *Handler {
	return &Handler{
		assistant:  assistant,
		classifier: classifier,
		metrics:    metrics,
	}
}

// QueryRequest is the body of the query, classify, explain and extract endpoints
type QueryRequest struct {
	Text string `json:"text" binding:"required,min=1,max=500"`
}

// BatchRequest is the body of the batch classification endpoint
type BatchRequest struct {
	Queries []string `json:"queries" binding:"required,min=1,max=50,dive,required,max=500"`
}

// HealthCheck returns the health status of the API and its collaborators
func (h *Handler) HealthCheck(c *gin.Context) {
	health := h.assistant.Health(c.Request.Context())

	status := http.StatusOK
	if health.Overall == "unhealthy" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":     health.Overall,
		"service":    serviceName,
		"version":    serviceVersion,
		"components": health,
	})
}

// Query classifies a query and answers it on the chosen route
func (h *Handler) Query(c *gin.Context) {
	var req QueryRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.assistant.HandleQuery(c.Request.Context(), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	h.metrics.ObserveClassification(resp.Classification)
	c.JSON(http.StatusOK, resp)
}

// Classify routes a single query without answering it
func (h *Handler) Classify(c *gin.Context) {
	var req QueryRequest
	if !bindJSON(c, &req) {
		return
	}

	result := h.classifier.Classify(c.Request.Context(), req.Text)
	h.metrics.ObserveClassification(result)
	c.JSON(http.StatusOK, result)
}

// ClassifyBatch routes up to 50 queries, preserving their order
func (h *Handler) ClassifyBatch(c *gin.Context) {
	var req BatchRequest
	if !bindJSON(c, &req) {
		return
	}

	results, err := h.classifier.ClassifyBatch(c.Request.Context(), req.Queries)
	if err != nil {
		respondError(c, err)
		return
	}

	for _, result := range results {
		h.metrics.ObserveClassification(result)
	}
	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"count":   len(results),
	})
}

// Extract returns the product candidates found in a query
func (h *Handler) Extract(c *gin.Context) {
	var req QueryRequest
	if !bindJSON(c, &req) {
		return
	}

	product, candidates := h.classifier.ExtractProduct(c.Request.Context(), req.Text)
	c.JSON(http.StatusOK, gin.H{
		"normalizedProduct": product,
		"candidates":        candidates,
	})
}

// Explain returns the keyword evidence behind a routing decision
func (h *Handler) Explain(c *gin.Context) {
	var req QueryRequest
	if !bindJSON(c, &req) {
		return
	}

	c.JSON(http.StatusOK, h.classifier.Explain(req.Text))
}

// Stats returns catalog row counts
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.assistant.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   domain.ErrInvalidRequest.Error(),
			"details": err.Error(),
		})
		return false
	}
	return true
}

// respondError maps domain errors to HTTP status codes
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrProductNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrRateLimited):
		status = http.StatusTooManyRequests
	case errors.Is(err, domain.ErrCatalogUnavailable), errors.Is(err, domain.ErrLLMFailure):
		status = http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusRequestTimeout
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
