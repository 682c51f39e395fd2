package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"reviewintel/internal/model"
)

func testReview(id, listingID, text string, daysAgo int, ref time.Time) model.RawReview {
	return model.RawReview{
		ReviewID:  id,
		ListingID: listingID,
		Text:      text,
		Date:      ref.AddDate(0, 0, -daysAgo),
	}
}

func TestPipeline_ProcessReview(t *testing.T) {
	p := NewPipeline(0, zap.NewNop())
	ref := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	review := testReview("r1", "l1", "The apartment was spotless. Great location near the metro!", 10, ref)
	sentences := p.ProcessReview(review)

	require.Len(t, sentences, 2)
	assert.Equal(t, "r1", sentences[0].ReviewID)
	assert.Equal(t, 0, sentences[0].SentenceIndex)
	assert.Equal(t, 1, sentences[1].SentenceIndex)

	require.Len(t, sentences[0].Mentions, 1)
	assert.Equal(t, model.AspectCleanliness, sentences[0].Mentions[0].Aspect)
	assert.Positive(t, sentences[0].Mentions[0].SentimentScore)

	require.NotEmpty(t, sentences[1].Mentions)
	assert.Equal(t, model.AspectLocation, sentences[1].Mentions[0].Aspect)
}

func TestPipeline_RecencyShiftsSentiment(t *testing.T) {
	p := NewPipeline(0, zap.NewNop())
	ref := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	// Old complaints, recent praise. Recency weighting should pull the
	// weighted sentiment above the raw mean and the trend should read
	// as improving.
	var reviews []model.RawReview
	for i := 0; i < 6; i++ {
		reviews = append(reviews, testReview(
			"old"+string(rune('a'+i)), "l1",
			"The room was dirty and the host was rude.",
			500+i*10, ref))
	}
	for i := 0; i < 4; i++ {
		reviews = append(reviews, testReview(
			"new"+string(rune('a'+i)), "l1",
			"Spotless apartment and the host was wonderful.",
			5+i*10, ref))
	}

	results, err := p.Run(context.Background(), reviews, ref)
	require.NoError(t, err)
	require.Contains(t, results, "l1")

	li := results["l1"]
	assert.Equal(t, 10, li.TotalReviews)

	clean, ok := li.AspectAggregations[model.AspectCleanliness]
	require.True(t, ok)
	assert.Greater(t, clean.WeightedSentiment, clean.RawSentimentMean)
	assert.Equal(t, model.TrendImproving, clean.RecentTrend)

	host, ok := li.AspectAggregations[model.AspectHostBehavior]
	require.True(t, ok)
	assert.Greater(t, host.WeightedSentiment, host.RawSentimentMean)
}

func TestPipeline_Deterministic(t *testing.T) {
	p := NewPipeline(0, zap.NewNop())
	ref := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	reviews := []model.RawReview{
		testReview("r1", "l1", "Very clean and quiet, great location.", 30, ref),
		testReview("r2", "l1", "The host was rude and the wifi was broken.", 60, ref),
		testReview("r3", "l2", "Felt unsafe at night, sketchy neighborhood.", 15, ref),
	}

	first, err := p.Run(context.Background(), reviews, ref)
	require.NoError(t, err)
	second, err := p.Run(context.Background(), reviews, ref)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPipeline_InvalidReview(t *testing.T) {
	p := NewPipeline(0, zap.NewNop())
	ref := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	reviews := []model.RawReview{
		{ReviewID: "r1", ListingID: "", Text: "fine", Date: ref},
	}

	_, err := p.Run(context.Background(), reviews, ref)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid review "r1"`)
	assert.Contains(t, err.Error(), "listing_id is required")
}

func TestPipeline_ContextCancelled(t *testing.T) {
	p := NewPipeline(0, zap.NewNop())
	ref := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Run(ctx, []model.RawReview{
		testReview("r1", "l1", "Lovely and clean.", 5, ref),
	}, ref)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPipeline_RunWithDetails(t *testing.T) {
	p := NewPipeline(0, zap.NewNop())
	ref := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	reviews := []model.RawReview{
		testReview("r1", "l1", "Spotless place. Would definitely book again.", 10, ref),
		testReview("r2", "l2", "Terrible noise from the street all night.", 20, ref),
	}

	details, err := p.RunWithDetails(context.Background(), reviews, ref)
	require.NoError(t, err)

	assert.Equal(t, 2, details.Stats.TotalReviews)
	assert.Equal(t, 2, details.Stats.ListingsAnalyzed)
	assert.Equal(t, 3, details.Stats.TotalSentences)
	assert.Equal(t, 2, details.Stats.SentencesWithAspects)
	assert.InDelta(t, 66.7, details.Stats.AspectCoveragePct, 1e-9)
	assert.Equal(t, 1, details.Stats.AspectMentionCounts["cleanliness"])
	assert.Equal(t, 1, details.Stats.AspectMentionCounts["noise"])
	assert.Len(t, details.Sentences, 3)

	assert.Equal(t, "unanimous_positive", details.Polarization["cleanliness"].Pattern)
	assert.Equal(t, "unanimous_negative", details.Polarization["noise"].Pattern)
}

func TestRiskPipeline_Assess(t *testing.T) {
	p := NewPipeline(0, zap.NewNop())
	rp := NewRiskPipeline(zap.NewNop())
	ref := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	var reviews []model.RawReview
	for i := 0; i < 5; i++ {
		reviews = append(reviews, testReview(
			"r"+string(rune('a'+i)), "l1",
			"The room was filthy and smelled awful. The host ignored our messages.",
			20+i*30, ref))
	}

	li, err := p.AnalyzeListing(reviews, "l1", ref)
	require.NoError(t, err)

	assessment := rp.Assess(li, nil, now)

	assert.Equal(t, "l1", assessment.ListingID)
	assert.Equal(t, now, assessment.AssessmentTimestamp)
	assert.GreaterOrEqual(t, assessment.OverallRiskScore, 0.0)
	assert.LessOrEqual(t, assessment.OverallRiskScore, 100.0)
	assert.Positive(t, assessment.OverallRiskScore)
	assert.Equal(t, model.ScoreToRiskLevel(assessment.OverallRiskScore), assessment.RiskLevel)
	assert.NotEmpty(t, assessment.RiskDrivers)

	assert.Equal(t, 5, assessment.Metadata["total_reviews"])
	assert.Contains(t, assessment.Metadata, "total_sentences")
	assert.Contains(t, assessment.Metadata, "date_range_start")
	assert.Contains(t, assessment.Metadata, "date_range_end")
}

func TestRiskPipeline_AssessWithoutRating(t *testing.T) {
	rp := NewRiskPipeline(zap.NewNop())
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	li := intelligenceWith(10, map[model.Aspect]model.AspectAggregation{
		model.AspectCleanliness: {
			Aspect:            model.AspectCleanliness,
			MentionCount:      8,
			WeightedSentiment: 0.8,
			RecentTrend:       model.TrendStable,
			ConfidenceScore:   0.9,
		},
	})

	assessment := rp.Assess(li, nil, now)

	// The expected rating is recorded even when no actual rating is
	// known; only the flag and driver require one.
	assert.Equal(t, 4.5, assessment.Metadata["expected_rating"])
	assert.Equal(t, 0.8, assessment.Metadata["computed_overall_sentiment"])
	assert.Equal(t, false, assessment.Metadata["rating_available"])
	assert.NotContains(t, assessment.Metadata, "rating_mismatch")
	assert.NotContains(t, assessment.Flags, model.FlagRatingLag)
	for _, d := range assessment.RiskDrivers {
		assert.NotEqual(t, "rating_sentiment_mismatch", d.DriverType)
	}
}

func TestRiskPipeline_AssessWithRating(t *testing.T) {
	p := NewPipeline(0, zap.NewNop())
	rp := NewRiskPipeline(zap.NewNop())
	ref := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	var reviews []model.RawReview
	for i := 0; i < 6; i++ {
		reviews = append(reviews, testReview(
			"r"+string(rune('a'+i)), "l1",
			"Dirty room, rude host, terrible stay overall.",
			10+i*20, ref))
	}

	li, err := p.AnalyzeListing(reviews, "l1", ref)
	require.NoError(t, err)

	rating := 4.9
	assessment := rp.Assess(li, &rating, ref)

	// Strongly negative reviews against a near-perfect rating must
	// surface the mismatch.
	assert.Contains(t, assessment.Flags, model.FlagRatingLag)
	assert.Contains(t, assessment.Metadata, "expected_rating")
	assert.Contains(t, assessment.Metadata, "rating_mismatch")
}

func TestRiskPipeline_AssessBatchAndSorting(t *testing.T) {
	rp := NewRiskPipeline(zap.NewNop())
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	healthy := model.ListingIntelligence{
		ListingID:    "good",
		TotalReviews: 12,
		AspectAggregations: map[model.Aspect]model.AspectAggregation{
			model.AspectCleanliness: {
				Aspect:            model.AspectCleanliness,
				MentionCount:      10,
				WeightedSentiment: 0.8,
				SentimentVariance: 0.05,
				RecentTrend:       model.TrendStable,
				ConfidenceScore:   0.9,
			},
		},
	}
	risky := model.ListingIntelligence{
		ListingID:    "bad",
		TotalReviews: 12,
		AspectAggregations: map[model.Aspect]model.AspectAggregation{
			model.AspectSafety: {
				Aspect:            model.AspectSafety,
				MentionCount:      10,
				WeightedSentiment: -0.9,
				SentimentVariance: 0.4,
				RecentTrend:       model.TrendDeclining,
				ConfidenceScore:   0.9,
			},
		},
	}

	results := rp.AssessBatch(map[string]model.ListingIntelligence{
		"good": healthy,
		"bad":  risky,
	}, nil, now)

	require.Len(t, results, 2)
	assert.Greater(t, results["bad"].OverallRiskScore, results["good"].OverallRiskScore)

	byRisk := SortByRisk(results)
	require.Len(t, byRisk, 2)
	assert.Equal(t, "bad", byRisk[0].ListingID)

	byAction := SortByActionPriority(results)
	assert.Equal(t, "bad", byAction[0].ListingID)

	urgent := UrgentListings(results)
	for _, id := range urgent {
		assert.Equal(t, model.ActionUrgent, results[id].RecommendedAction)
	}
}

func TestSummarize(t *testing.T) {
	assessment := model.ListingRiskAssessment{
		ListingID:        "l1",
		OverallRiskScore: 64.28,
		RiskLevel:        model.RiskHigh,
		AspectRisks: map[model.Aspect]model.AspectRisk{
			model.AspectSafety:      {Aspect: model.AspectSafety, RiskScore: 81.5},
			model.AspectCleanliness: {Aspect: model.AspectCleanliness, RiskScore: 44.44},
			model.AspectNoise:       {Aspect: model.AspectNoise, RiskScore: 12},
			model.AspectLocation:    {Aspect: model.AspectLocation, RiskScore: 9},
		},
		RiskDrivers: []model.RiskDriver{
			{DriverType: "safety_concern", Severity: model.SeverityHigh, Description: "Safety issues reported"},
			{DriverType: "high_variance", Severity: model.SeverityMedium, Description: "Opinions vary"},
		},
	}

	summary := Summarize(assessment)

	assert.Equal(t, "l1", summary.ListingID)
	assert.Equal(t, 64.3, summary.RiskScore)
	require.Len(t, summary.TopRisks, 3)
	assert.Equal(t, model.AspectSafety, summary.TopRisks[0].Aspect)
	assert.Equal(t, 81.5, summary.TopRisks[0].Score)
	assert.Equal(t, 44.4, summary.TopRisks[1].Score)
	assert.Equal(t, []string{"Safety issues reported"}, summary.CriticalDrivers)
	assert.NotNil(t, summary.Flags)
	assert.Empty(t, summary.Flags)
}
