package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"reviewintel/internal/model"
	"reviewintel/internal/service"
)

// AssessHandler handles stateless one-shot assessment requests.
type AssessHandler struct {
	intelService *service.IntelligenceService
	maxBatchSize int
}

func NewAssessHandler(intelService *service.IntelligenceService, maxBatchSize int) *AssessHandler {
	return &AssessHandler{
		intelService: intelService,
		maxBatchSize: maxBatchSize,
	}
}

// AssessRequest is the request body for POST /api/v1/assess
type AssessRequest struct {
	Reviews       []model.RawReview  `json:"reviews" binding:"required"`
	Ratings       map[string]float64 `json:"ratings,omitempty"`
	ReferenceDate string             `json:"reference_date,omitempty"`
}

// Assess handles POST /api/v1/assess. The whole run happens in-request
// with nothing persisted, so callers can score arbitrary review sets.
func (h *AssessHandler) Assess(c *gin.Context) {
	var req AssessRequest

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

	referenceDate := time.Now().UTC()
	if req.ReferenceDate != "" {
		t, err := time.Parse("2006-01-02", req.ReferenceDate)
		if err != nil {
			t, err = time.Parse(time.RFC3339, req.ReferenceDate)
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid reference_date: use YYYY-MM-DD or RFC3339",
			})
			return
		}
		referenceDate = t
	}

	for listingID, rating := range req.Ratings {
		if rating < 1 || rating > 5 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("Invalid rating %g for listing %s: must be between 1 and 5", rating, listingID),
			})
			return
		}
	}

	result, err := h.intelService.AssessAdhoc(c.Request.Context(), req.Reviews, req.Ratings, referenceDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Assessment failed: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
