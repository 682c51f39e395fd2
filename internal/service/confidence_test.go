package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"reviewintel/internal/model"
)

func TestVariance(t *testing.T) {
	assert.Zero(t, Variance(nil))
	assert.Zero(t, Variance([]float64{0.5}))
	assert.InDelta(t, 1.0, Variance([]float64{1, -1}), 1e-9)
	assert.InDelta(t, 0.0, Variance([]float64{0.3, 0.3, 0.3}), 1e-9)
}

func TestDisagreement(t *testing.T) {
	t.Run("uniform positive stays low", func(t *testing.T) {
		d := Disagreement([]float64{0.8, 0.7, 0.75, 0.85, 0.72})
		assert.Less(t, d, 0.3)
	})

	t.Run("polarized split scores high", func(t *testing.T) {
		d := Disagreement([]float64{0.9, 0.8, -0.8, -0.9, 0.85, -0.75})
		assert.Greater(t, d, 0.4)
	})

	t.Run("all neutral is zero", func(t *testing.T) {
		assert.Zero(t, Disagreement([]float64{0.1, -0.05, 0.15}))
	})

	t.Run("consensus is zero", func(t *testing.T) {
		assert.Zero(t, Disagreement([]float64{0.5, 0.6, 0.7}))
	})

	t.Run("fewer than two scores is zero", func(t *testing.T) {
		assert.Zero(t, Disagreement([]float64{0.9}))
	})

	t.Run("bounded", func(t *testing.T) {
		d := Disagreement([]float64{1, -1, 1, -1, 1, -1})
		assert.LessOrEqual(t, d, 1.0)
		assert.GreaterOrEqual(t, d, 0.0)
	})
}

func TestDetectPolarizationPattern(t *testing.T) {
	tests := []struct {
		name     string
		scores   []float64
		expected string
	}{
		{"no data", nil, "no_data"},
		{"unanimous positive", []float64{0.8, 0.9, 0.7, 0.85, 0.75}, "unanimous_positive"},
		{"unanimous negative", []float64{-0.8, -0.9, -0.7, -0.85, -0.75}, "unanimous_negative"},
		{"neutral", []float64{0.1, -0.1, 0.05, 0.0, -0.15}, "neutral"},
		{"polarized", []float64{0.9, 0.8, -0.8, -0.9, 0.85, -0.75}, "polarized"},
		{"mixed", []float64{0.9, 0.8, 0.7, -0.8, 0.1, 0.05, 0.0, -0.1}, "mixed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectPolarizationPattern(tt.scores).Pattern)
		})
	}
}

func TestConfidence(t *testing.T) {
	t.Run("no mentions is zero", func(t *testing.T) {
		assert.Zero(t, Confidence(0, 0, 10))
	})

	t.Run("more mentions raise confidence", func(t *testing.T) {
		low := Confidence(2, 0.05, 20)
		high := Confidence(15, 0.05, 20)
		assert.Greater(t, high, low)
	})

	t.Run("low variance raises confidence", func(t *testing.T) {
		consistent := Confidence(10, 0.05, 20)
		scattered := Confidence(10, 0.5, 20)
		assert.Greater(t, consistent, scattered)
	})

	t.Run("bounded", func(t *testing.T) {
		c := Confidence(100, 0, 100)
		assert.LessOrEqual(t, c, 1.0)
		assert.GreaterOrEqual(t, c, 0.0)
	})

	t.Run("zero total reviews uses neutral coverage", func(t *testing.T) {
		c := Confidence(5, 0.05, 0)
		assert.Greater(t, c, 0.0)
	})
}

func TestConfidenceLevel(t *testing.T) {
	tests := []struct {
		confidence float64
		expected   string
	}{
		{0.1, "very_low"},
		{0.3, "low"},
		{0.5, "medium"},
		{0.7, "high"},
		{0.9, "very_high"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ConfidenceLevel(tt.confidence))
	}
}

func TestEnhanceIntelligence(t *testing.T) {
	intelligence := model.ListingIntelligence{
		ListingID:    "lst-1",
		TotalReviews: 10,
		AspectAggregations: map[model.Aspect]model.AspectAggregation{
			model.AspectCleanliness: {
				Aspect:            model.AspectCleanliness,
				MentionCount:      6,
				SentimentVariance: 0.7,
			},
		},
	}
	scores := map[model.Aspect][]float64{
		model.AspectCleanliness: {0.9, 0.8, -0.8, -0.9, 0.85, -0.75},
	}

	enhanced := EnhanceIntelligence(intelligence, scores)

	agg := enhanced.AspectAggregations[model.AspectCleanliness]
	assert.Greater(t, agg.DisagreementScore, 0.4)
	assert.Greater(t, agg.ConfidenceScore, 0.0)
}
