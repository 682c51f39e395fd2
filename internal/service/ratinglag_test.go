package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewintel/internal/model"
)

func TestExpectedRating(t *testing.T) {
	tests := []struct {
		sentiment float64
		rating    float64
	}{
		{-1.0, 1.0},
		{-0.6, 2.0},
		{-0.2, 3.0},
		{0.0, 3.25}, // midway between the -0.2 and 0.2 anchors
		{0.2, 3.5},
		{0.5, 4.0},
		{0.8, 4.5},
		{1.0, 5.0},
		{-2.0, 1.0}, // clamps below
		{2.0, 5.0},  // clamps above
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.rating, ExpectedRating(tt.sentiment), 1e-9,
			"sentiment %v", tt.sentiment)
	}
}

func TestExpectedSentiment(t *testing.T) {
	tests := []struct {
		rating    float64
		sentiment float64
	}{
		{1.0, -1.0},
		{2.0, -0.6},
		{3.0, -0.2},
		{4.0, 0.5},
		{5.0, 1.0},
		{0.5, -1.0}, // clamps below
		{6.0, 1.0},  // clamps above
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.sentiment, ExpectedSentiment(tt.rating), 1e-9,
			"rating %v", tt.rating)
	}
}

func TestOverallSentiment(t *testing.T) {
	li := model.ListingIntelligence{
		AspectAggregations: map[model.Aspect]model.AspectAggregation{
			model.AspectSafety: {
				Aspect: model.AspectSafety, WeightedSentiment: -0.4, MentionCount: 5,
			},
			model.AspectLocation: {
				Aspect: model.AspectLocation, WeightedSentiment: 0.8, MentionCount: 5,
			},
			model.AspectNoise: {
				Aspect: model.AspectNoise, WeightedSentiment: 0.9, MentionCount: 0, // ignored
			},
		},
	}

	// (-0.4*1.5 + 0.8*0.7) / (1.5 + 0.7)
	assert.InDelta(t, -0.01818, OverallSentiment(li), 0.0001)
}

func TestRatingLagDetect(t *testing.T) {
	d := NewRatingLagDetector()

	positiveIntel := model.ListingIntelligence{
		AspectAggregations: map[model.Aspect]model.AspectAggregation{
			model.AspectCleanliness: {
				Aspect: model.AspectCleanliness, WeightedSentiment: 0.8, MentionCount: 10,
			},
		},
	}

	t.Run("no rating available", func(t *testing.T) {
		flag, driver, meta := d.Detect(positiveIntel, nil)
		assert.Nil(t, flag)
		assert.Nil(t, driver)
		assert.Equal(t, false, meta["rating_available"])
		assert.Equal(t, 0.8, meta["computed_overall_sentiment"])
		assert.Equal(t, 4.5, meta["expected_rating"])
	})

	t.Run("rating far below sentiment", func(t *testing.T) {
		rating := 3.0
		flag, driver, meta := d.Detect(positiveIntel, &rating)

		require.NotNil(t, flag)
		assert.Equal(t, model.FlagRatingLag, *flag)
		require.NotNil(t, driver)
		assert.Equal(t, "rating_sentiment_mismatch", driver.DriverType)
		assert.Equal(t, model.SeverityLow, driver.Severity)
		assert.Contains(t, driver.Description, "lower than sentiment suggests")
		assert.Equal(t, -1.5, meta["rating_mismatch"])
	})

	t.Run("rating far above sentiment", func(t *testing.T) {
		negativeIntel := model.ListingIntelligence{
			AspectAggregations: map[model.Aspect]model.AspectAggregation{
				model.AspectCleanliness: {
					Aspect: model.AspectCleanliness, WeightedSentiment: -0.6, MentionCount: 10,
				},
			},
		}
		rating := 4.8
		flag, driver, _ := d.Detect(negativeIntel, &rating)

		require.NotNil(t, flag)
		require.NotNil(t, driver)
		assert.Equal(t, model.SeverityMedium, driver.Severity)
		assert.Contains(t, driver.Description, "higher than sentiment suggests")
	})

	t.Run("small mismatch below threshold", func(t *testing.T) {
		rating := 4.2
		flag, driver, meta := d.Detect(positiveIntel, &rating)

		assert.Nil(t, flag)
		assert.Nil(t, driver)
		assert.Equal(t, true, meta["rating_available"])
		assert.Equal(t, 4.2, meta["actual_rating"])
	})
}

func TestAnalyzeRatingPattern(t *testing.T) {
	t.Run("insufficient pairs", func(t *testing.T) {
		result := AnalyzeRatingPattern([][2]float64{{4, 0.5}, {3, 0.1}})
		assert.False(t, result.SufficientData)
	})

	t.Run("strong positive correlation", func(t *testing.T) {
		result := AnalyzeRatingPattern([][2]float64{
			{1, -0.9}, {2, -0.5}, {3, 0.0}, {4, 0.5}, {5, 0.9},
		})
		require.True(t, result.SufficientData)
		assert.Greater(t, result.Correlation, 0.95)
		assert.Equal(t, 5, result.SampleSize)
		assert.InDelta(t, 3.0, result.AvgRating, 1e-9)
	})

	t.Run("no spread in ratings", func(t *testing.T) {
		result := AnalyzeRatingPattern([][2]float64{
			{4, -0.9}, {4, 0.0}, {4, 0.9},
		})
		require.True(t, result.SufficientData)
		assert.Zero(t, result.Correlation)
	})
}
