package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewintel/internal/model"
	"reviewintel/internal/service"
)

// ReviewHandler handles review ingestion endpoints.
type ReviewHandler struct {
	intelService *service.IntelligenceService
	maxBatchSize int
}

func NewReviewHandler(intelService *service.IntelligenceService, maxBatchSize int) *ReviewHandler {
	return &ReviewHandler{
		intelService: intelService,
		maxBatchSize: maxBatchSize,
	}
}

// IngestRequest is the request body for POST /api/v1/reviews
type IngestRequest struct {
	Reviews []model.RawReview `json:"reviews" binding:"required"`
}

// Ingest handles POST /api/v1/reviews
func (h *ReviewHandler) Ingest(c *gin.Context) {
	var req IngestRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	if len(req.Reviews) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "At least one review is required",
		})
		return
	}

	if len(req.Reviews) > h.maxBatchSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Batch size %d exceeds maximum of %d", len(req.Reviews), h.maxBatchSize),
		})
		return
	}

	result, err := h.intelService.IngestReviews(c.Request.Context(), req.Reviews)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Ingestion failed: " + err.Error(),
		})
		return
	}

	status := http.StatusCreated
	if result.Accepted == 0 {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, result)
}
