package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewintel/internal/model"
)

func TestTemporalWeight(t *testing.T) {
	a := NewAggregator(DefaultHalfLifeDays)
	ref := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("today weighs one", func(t *testing.T) {
		assert.InDelta(t, 1.0, a.TemporalWeight(ref, ref), 1e-9)
	})

	t.Run("half life weighs half", func(t *testing.T) {
		old := ref.AddDate(0, 0, -DefaultHalfLifeDays)
		assert.InDelta(t, 0.5, a.TemporalWeight(old, ref), 1e-9)
	})

	t.Run("two half lives weigh a quarter", func(t *testing.T) {
		old := ref.AddDate(0, 0, -2*DefaultHalfLifeDays)
		assert.InDelta(t, 0.25, a.TemporalWeight(old, ref), 1e-9)
	})

	t.Run("future dates clamp to one", func(t *testing.T) {
		future := ref.AddDate(0, 0, 30)
		assert.InDelta(t, 1.0, a.TemporalWeight(future, ref), 1e-9)
	})

	t.Run("custom half life", func(t *testing.T) {
		short := NewAggregator(90)
		old := ref.AddDate(0, 0, -90)
		assert.InDelta(t, 0.5, short.TemporalWeight(old, ref), 1e-9)
	})

	t.Run("non positive half life falls back to default", func(t *testing.T) {
		fallback := NewAggregator(0)
		old := ref.AddDate(0, 0, -DefaultHalfLifeDays)
		assert.InDelta(t, 0.5, fallback.TemporalWeight(old, ref), 1e-9)
	})
}

// buildAspectHistory creates one review and one single-mention sentence
// per (date, score) pair, all for the same aspect.
func buildAspectHistory(listingID string, aspect model.Aspect, points []struct {
	date  time.Time
	score float64
}) ([]model.ProcessedSentence, []model.RawReview) {
	var sentences []model.ProcessedSentence
	var reviews []model.RawReview

	for i, p := range points {
		reviewID := fmt.Sprintf("r%03d", i)
		reviews = append(reviews, model.RawReview{
			ReviewID:  reviewID,
			ListingID: listingID,
			Text:      "placeholder",
			Date:      p.date,
		})
		sentences = append(sentences, model.ProcessedSentence{
			ReviewID:   reviewID,
			ListingID:  listingID,
			ReviewDate: p.date,
			Mentions: []model.AspectMention{
				{Aspect: aspect, SentimentScore: p.score, Confidence: 0.5},
			},
		})
	}
	return sentences, reviews
}

func TestAggregateListing_RecencyBias(t *testing.T) {
	a := NewAggregator(DefaultHalfLifeDays)
	ref := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	var points []struct {
		date  time.Time
		score float64
	}
	// Seven old negative mentions, three recent positive ones.
	for i := 0; i < 7; i++ {
		points = append(points, struct {
			date  time.Time
			score float64
		}{ref.AddDate(0, 0, -500+i*10), -0.5})
	}
	for i := 0; i < 3; i++ {
		points = append(points, struct {
			date  time.Time
			score float64
		}{ref.AddDate(0, 0, -30+i*10), 0.8})
	}

	sentences, reviews := buildAspectHistory("lst-1", model.AspectCleanliness, points)
	intelligence, scores := a.AggregateListing(sentences, reviews, "lst-1", ref)

	agg := intelligence.AspectAggregations[model.AspectCleanliness]
	assert.Equal(t, 10, agg.MentionCount)
	assert.Greater(t, agg.WeightedSentiment, agg.RawSentimentMean,
		"recent positives should outweigh old negatives")
	assert.Equal(t, model.TrendImproving, agg.RecentTrend)
	assert.Len(t, scores[model.AspectCleanliness], 10)

	assert.Equal(t, 10, intelligence.TotalReviews)
	assert.Equal(t, reviews[0].Date, intelligence.DateRangeStart)
	assert.Equal(t, reviews[9].Date, intelligence.DateRangeEnd)
}

func TestAggregateListing_DecliningTrend(t *testing.T) {
	a := NewAggregator(DefaultHalfLifeDays)
	ref := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	var points []struct {
		date  time.Time
		score float64
	}
	for i := 0; i < 7; i++ {
		points = append(points, struct {
			date  time.Time
			score float64
		}{ref.AddDate(0, 0, -400+i*10), 0.7})
	}
	for i := 0; i < 3; i++ {
		points = append(points, struct {
			date  time.Time
			score float64
		}{ref.AddDate(0, 0, -20+i*5), -0.4})
	}

	sentences, reviews := buildAspectHistory("lst-2", model.AspectSafety, points)
	intelligence, _ := a.AggregateListing(sentences, reviews, "lst-2", ref)

	assert.Equal(t, model.TrendDeclining, intelligence.AspectAggregations[model.AspectSafety].RecentTrend)
}

func TestAggregateListing_InsufficientData(t *testing.T) {
	a := NewAggregator(DefaultHalfLifeDays)
	ref := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("too few points", func(t *testing.T) {
		sentences, reviews := buildAspectHistory("lst-3", model.AspectNoise, []struct {
			date  time.Time
			score float64
		}{
			{ref.AddDate(0, 0, -200), 0.5},
			{ref.AddDate(0, 0, -100), -0.5},
		})
		intelligence, _ := a.AggregateListing(sentences, reviews, "lst-3", ref)
		assert.Equal(t, model.TrendInsufficientData, intelligence.AspectAggregations[model.AspectNoise].RecentTrend)
	})

	t.Run("date span too narrow", func(t *testing.T) {
		sentences, reviews := buildAspectHistory("lst-4", model.AspectNoise, []struct {
			date  time.Time
			score float64
		}{
			{ref.AddDate(0, 0, -10), 0.5},
			{ref.AddDate(0, 0, -5), 0.1},
			{ref.AddDate(0, 0, -2), -0.5},
			{ref.AddDate(0, 0, -1), -0.5},
		})
		intelligence, _ := a.AggregateListing(sentences, reviews, "lst-4", ref)
		assert.Equal(t, model.TrendInsufficientData, intelligence.AspectAggregations[model.AspectNoise].RecentTrend)
	})
}

func TestAggregateListing_PopulationVariance(t *testing.T) {
	a := NewAggregator(DefaultHalfLifeDays)
	ref := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	sentences, reviews := buildAspectHistory("lst-5", model.AspectAmenities, []struct {
		date  time.Time
		score float64
	}{
		{ref.AddDate(0, 0, -3), 1.0},
		{ref.AddDate(0, 0, -2), -1.0},
	})
	intelligence, _ := a.AggregateListing(sentences, reviews, "lst-5", ref)

	agg := intelligence.AspectAggregations[model.AspectAmenities]
	assert.InDelta(t, 0.0, agg.RawSentimentMean, 1e-9)
	assert.InDelta(t, 1.0, agg.SentimentVariance, 1e-9)
}

func TestAggregateListing_Empty(t *testing.T) {
	a := NewAggregator(DefaultHalfLifeDays)
	ref := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	intelligence, scores := a.AggregateListing(nil, nil, "lst-6", ref)

	require.NotNil(t, intelligence.AspectAggregations)
	assert.Empty(t, intelligence.AspectAggregations)
	assert.Nil(t, scores)
	assert.Equal(t, ref, intelligence.DateRangeStart)
	assert.Equal(t, ref, intelligence.DateRangeEnd)
}

func TestAggregateListing_UnmentionedAspectsPresent(t *testing.T) {
	a := NewAggregator(DefaultHalfLifeDays)
	ref := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	sentences, reviews := buildAspectHistory("lst-7", model.AspectCleanliness, []struct {
		date  time.Time
		score float64
	}{
		{ref.AddDate(0, 0, -3), 0.5},
	})
	intelligence, _ := a.AggregateListing(sentences, reviews, "lst-7", ref)

	require.Len(t, intelligence.AspectAggregations, len(model.Aspects()))
	safety := intelligence.AspectAggregations[model.AspectSafety]
	assert.Zero(t, safety.MentionCount)
	assert.Equal(t, model.TrendInsufficientData, safety.RecentTrend)
}
