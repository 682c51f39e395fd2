package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"reviewintel/internal/service"
)

// ListingHandler handles listing-level analysis endpoints.
type ListingHandler struct {
	intelService *service.IntelligenceService
	defaultLimit int
	maxLimit     int
}

func NewListingHandler(intelService *service.IntelligenceService, defaultLimit, maxLimit int) *ListingHandler {
	return &ListingHandler{
		intelService: intelService,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// List handles GET /api/v1/listings
func (h *ListingHandler) List(c *gin.Context) {
	limit := h.defaultLimit
	if l, err := strconv.Atoi(c.DefaultQuery("limit", "")); err == nil && l > 0 {
		limit = l
	}
	if limit > h.maxLimit {
		limit = h.maxLimit
	}

	offset := 0
	if o, err := strconv.Atoi(c.DefaultQuery("offset", "")); err == nil && o > 0 {
		offset = o
	}

	listings, total, err := h.intelService.ListListings(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list listings: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"listings": listings,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

// Intelligence handles GET /api/v1/listings/:id/intelligence
func (h *ListingHandler) Intelligence(c *gin.Context) {
	listingID := c.Param("id")

	referenceDate, ok := parseReferenceDate(c)
	if !ok {
		return
	}

	intelligence, err := h.intelService.GetIntelligence(c.Request.Context(), listingID, referenceDate)
	if err != nil {
		if errors.Is(err, service.ErrListingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Analysis failed: " + err.Error(),
		})
		return
	}

	// Display labels for the UI alongside the raw numbers.
	labels := make(map[string]gin.H, len(intelligence.AspectAggregations))
	for aspect, agg := range intelligence.AspectAggregations {
		labels[string(aspect)] = gin.H{
			"sentiment":  service.SentimentCategory(agg.WeightedSentiment),
			"confidence": service.ConfidenceLevel(agg.ConfidenceScore),
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"intelligence": intelligence,
		"labels":       labels,
	})
}

// Assessment handles GET /api/v1/listings/:id/assessment
func (h *ListingHandler) Assessment(c *gin.Context) {
	listingID := c.Param("id")

	referenceDate, ok := parseReferenceDate(c)
	if !ok {
		return
	}

	var ratingOverride *float64
	if raw := c.Query("rating"); raw != "" {
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil || rating < 1 || rating > 5 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid rating: must be a number between 1 and 5",
			})
			return
		}
		ratingOverride = &rating
	}

	assessment, err := h.intelService.AssessListing(c.Request.Context(), listingID, ratingOverride, referenceDate)
	if err != nil {
		if errors.Is(err, service.ErrListingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Assessment failed: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, assessment)
}

// RatingRequest is the request body for PUT /api/v1/listings/:id/rating
type RatingRequest struct {
	Rating float64 `json:"rating" binding:"required"`
}

// SetRating handles PUT /api/v1/listings/:id/rating
func (h *ListingHandler) SetRating(c *gin.Context) {
	listingID := c.Param("id")

	var req RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	if err := h.intelService.SetRating(c.Request.Context(), listingID, req.Rating); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Failed to set rating: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"listing_id": listingID,
		"rating":     req.Rating,
	})
}

// History handles GET /api/v1/listings/:id/assessments
func (h *ListingHandler) History(c *gin.Context) {
	listingID := c.Param("id")

	limit := h.defaultLimit
	if l, err := strconv.Atoi(c.DefaultQuery("limit", "")); err == nil && l > 0 {
		limit = l
	}
	if limit > h.maxLimit {
		limit = h.maxLimit
	}

	assessments, err := h.intelService.AssessmentHistory(c.Request.Context(), listingID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch assessments: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"listing_id":  listingID,
		"assessments": assessments,
	})
}

// parseReferenceDate reads the optional reference_date query parameter,
// defaulting to now. Writes the 400 response itself on bad input.
func parseReferenceDate(c *gin.Context) (time.Time, bool) {
	raw := c.Query("reference_date")
	if raw == "" {
		return time.Now().UTC(), true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		t, err = time.Parse(time.RFC3339, raw)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid reference_date: use YYYY-MM-DD or RFC3339",
		})
		return time.Time{}, false
	}
	return t, true
}
