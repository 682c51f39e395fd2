package service

import (
	"math"

	"reviewintel/internal/model"
)

const (
	// minMentionsForConfidence penalizes aspects mentioned fewer
	// times than this.
	minMentionsForConfidence = 3

	// optimalMentions is where the log-scaled volume factor reaches 1.
	optimalMentions = 20

	lowVarianceThreshold  = 0.1
	highVarianceThreshold = 0.4
)

// Variance is the population variance of the scores. Fewer than two
// scores yields 0.
func Variance(scores []float64) float64 {
	if len(scores) < 2 {
		return 0
	}
	mean := 0.0
	for _, s := range scores {
		mean += s
	}
	mean /= float64(len(scores))

	variance := 0.0
	for _, s := range scores {
		variance += (s - mean) * (s - mean)
	}
	return variance / float64(len(scores))
}

// Disagreement measures polarization: it is high only when opinions
// split both ways AND the scores spread widely. Geometric mean of the
// two factors requires both.
func Disagreement(scores []float64) float64 {
	if len(scores) < 2 {
		return 0
	}

	positive, negative := 0, 0
	for _, s := range scores {
		if s > 0.2 {
			positive++
		} else if s < -0.2 {
			negative++
		}
	}
	opinionated := positive + negative
	if opinionated == 0 {
		return 0
	}

	minSide := positive
	if negative < minSide {
		minSide = negative
	}
	balance := float64(2*minSide) / float64(opinionated)
	spread := math.Min(1, Variance(scores)/highVarianceThreshold)

	return math.Min(1, math.Sqrt(balance*spread))
}

// PolarizationPattern classifies the score distribution for
// explainability output.
type PolarizationPattern struct {
	Pattern     string  `json:"pattern"`
	PositivePct float64 `json:"positive_pct"`
	NegativePct float64 `json:"negative_pct"`
	NeutralPct  float64 `json:"neutral_pct"`
}

// DetectPolarizationPattern labels how opinions distribute: unanimous
// one way, polarized both ways, mostly neutral, or mixed.
func DetectPolarizationPattern(scores []float64) PolarizationPattern {
	if len(scores) == 0 {
		return PolarizationPattern{Pattern: "no_data"}
	}

	n := float64(len(scores))
	positive, negative := 0, 0
	for _, s := range scores {
		if s > 0.2 {
			positive++
		} else if s < -0.2 {
			negative++
		}
	}
	neutral := len(scores) - positive - negative

	posPct := math.Round(1000*float64(positive)/n) / 10
	negPct := math.Round(1000*float64(negative)/n) / 10
	neuPct := math.Round(1000*float64(neutral)/n) / 10

	var pattern string
	switch {
	case posPct >= 80:
		pattern = "unanimous_positive"
	case negPct >= 80:
		pattern = "unanimous_negative"
	case neuPct >= 60:
		pattern = "neutral"
	case posPct >= 30 && negPct >= 30:
		pattern = "polarized"
	default:
		pattern = "mixed"
	}

	return PolarizationPattern{
		Pattern:     pattern,
		PositivePct: posPct,
		NegativePct: negPct,
		NeutralPct:  neuPct,
	}
}

// Confidence combines volume, consistency and coverage into one 0-1
// score. Volume dominates, then consistency, then coverage.
func Confidence(mentionCount int, variance float64, totalReviews int) float64 {
	if mentionCount == 0 {
		return 0
	}

	volume := math.Min(1, math.Log(float64(mentionCount)+1)/math.Log(optimalMentions+1))
	if mentionCount < minMentionsForConfidence {
		volume *= float64(mentionCount) / minMentionsForConfidence
	}

	var consistency float64
	switch {
	case variance <= lowVarianceThreshold:
		consistency = 1.0
	case variance >= highVarianceThreshold:
		consistency = 0.5
	default:
		normalized := (variance - lowVarianceThreshold) / (highVarianceThreshold - lowVarianceThreshold)
		consistency = 1.0 - 0.5*normalized
	}

	coverage := 0.5
	if totalReviews > 0 {
		rate := float64(mentionCount) / float64(totalReviews)
		coverage = math.Min(1, rate/0.3)
	}

	confidence := 0.45*volume + 0.35*consistency + 0.20*coverage
	return clamp(confidence, 0, 1)
}

// ConfidenceLevel buckets a confidence score into a coarse label.
func ConfidenceLevel(confidence float64) string {
	switch {
	case confidence < 0.2:
		return "very_low"
	case confidence < 0.4:
		return "low"
	case confidence < 0.6:
		return "medium"
	case confidence < 0.8:
		return "high"
	default:
		return "very_high"
	}
}

// EnhanceIntelligence fills disagreement and confidence into every
// aggregation of the intelligence record.
func EnhanceIntelligence(
	intelligence model.ListingIntelligence,
	aspectScores map[model.Aspect][]float64,
) model.ListingIntelligence {
	enhanced := make(map[model.Aspect]model.AspectAggregation, len(intelligence.AspectAggregations))
	for aspect, agg := range intelligence.AspectAggregations {
		scores := aspectScores[aspect]
		agg.DisagreementScore = Disagreement(scores)
		agg.ConfidenceScore = Confidence(agg.MentionCount, agg.SentimentVariance, intelligence.TotalReviews)
		enhanced[aspect] = agg
	}
	intelligence.AspectAggregations = enhanced
	return intelligence
}
