package service

import (
	"fmt"
	"sort"

	"reviewintel/internal/model"
)

// aspectWeights prioritize aspects when combining risks. Safety issues
// dominate; location is hard to change and usually known upfront.
var aspectWeights = map[model.Aspect]float64{
	model.AspectSafety:       1.5,
	model.AspectCleanliness:  1.2,
	model.AspectHostBehavior: 1.1,
	model.AspectNoise:        1.0,
	model.AspectAmenities:    0.9,
	model.AspectLocation:     0.7,
}

const (
	sentimentWeight = 50
	varianceWeight  = 25

	riskHighVarianceThreshold     = 0.25
	riskHighDisagreementThreshold = 0.4
	negativeSentimentThreshold    = 0.0
	veryNegativeThreshold         = -0.3

	confidenceFloor = 0.3
)

var trendPenalties = map[model.TrendDirection]float64{
	model.TrendDeclining:        25,
	model.TrendInsufficientData: 10,
	model.TrendStable:           0,
	model.TrendImproving:        -5,
}

// RiskScorer turns phase-one aggregations into 0-100 risk scores with
// explanatory drivers.
type RiskScorer struct{}

func NewRiskScorer() *RiskScorer {
	return &RiskScorer{}
}

// sentimentToRisk inverts sentiment into a 0-1 risk contribution:
// sentiment 1 is risk 0, sentiment -1 is risk 1.
func sentimentToRisk(sentiment float64) float64 {
	return (1 - sentiment) / 2
}

// ScoreAspect computes the risk for one aspect. The score combines
// inverted sentiment (50 points), capped variance (25 points) and a
// trend penalty (25 points, improving earns a small bonus), then gets
// discounted by confidence floored at 0.3.
func (r *RiskScorer) ScoreAspect(aspect model.Aspect, agg model.AspectAggregation) (model.AspectRisk, []model.RiskDriver) {
	var drivers []model.RiskDriver
	a := aspect

	sentimentContribution := sentimentToRisk(agg.WeightedSentiment) * sentimentWeight

	if agg.WeightedSentiment < veryNegativeThreshold {
		v := agg.WeightedSentiment
		drivers = append(drivers, model.RiskDriver{
			Aspect:      &a,
			DriverType:  "very_negative_sentiment",
			Severity:    model.SeverityHigh,
			Description: fmt.Sprintf("Strongly negative sentiment (%.2f)", agg.WeightedSentiment),
			Value:       &v,
		})
	} else if agg.WeightedSentiment < negativeSentimentThreshold {
		v := agg.WeightedSentiment
		drivers = append(drivers, model.RiskDriver{
			Aspect:      &a,
			DriverType:  "negative_sentiment",
			Severity:    model.SeverityMedium,
			Description: fmt.Sprintf("Negative sentiment (%.2f)", agg.WeightedSentiment),
			Value:       &v,
		})
	}

	varianceContribution := agg.SentimentVariance * 100
	if varianceContribution > varianceWeight {
		varianceContribution = varianceWeight
	}
	if agg.SentimentVariance > riskHighVarianceThreshold {
		v := agg.SentimentVariance
		drivers = append(drivers, model.RiskDriver{
			Aspect:      &a,
			DriverType:  "high_variance",
			Severity:    model.SeverityMedium,
			Description: fmt.Sprintf("Inconsistent guest experiences (variance: %.2f)", agg.SentimentVariance),
			Value:       &v,
		})
	}

	trendPenalty := trendPenalties[agg.RecentTrend]
	trendContribution := trendPenalty
	if trendContribution < 0 {
		trendContribution = 0
	}
	if agg.RecentTrend == model.TrendDeclining {
		drivers = append(drivers, model.RiskDriver{
			Aspect:      &a,
			DriverType:  "declining_trend",
			Severity:    model.SeverityHigh,
			Description: "Sentiment is declining over time",
		})
	}

	if agg.DisagreementScore > riskHighDisagreementThreshold {
		v := agg.DisagreementScore
		drivers = append(drivers, model.RiskDriver{
			Aspect:      &a,
			DriverType:  "polarized_opinions",
			Severity:    model.SeverityMedium,
			Description: fmt.Sprintf("Highly polarized reviews (disagreement: %.2f)", agg.DisagreementScore),
			Value:       &v,
		})
	}

	baseRisk := clamp(sentimentContribution+varianceContribution+trendPenalty, 0, 100)

	confidenceFactor := agg.ConfidenceScore
	if confidenceFactor < confidenceFloor {
		confidenceFactor = confidenceFloor
		v := agg.ConfidenceScore
		drivers = append(drivers, model.RiskDriver{
			Aspect:      &a,
			DriverType:  "low_confidence",
			Severity:    model.SeverityLow,
			Description: "Limited data, risk score may be unreliable",
			Value:       &v,
		})
	}

	finalRisk := clamp(baseRisk*confidenceFactor, 0, 100)

	driverTypes := make([]string, len(drivers))
	for i, d := range drivers {
		driverTypes[i] = d.DriverType
	}

	return model.AspectRisk{
		Aspect:    aspect,
		RiskScore: finalRisk,
		RiskLevel: model.ScoreToRiskLevel(finalRisk),
		Drivers:   driverTypes,
		Contributions: model.RiskContributions{
			Sentiment: sentimentContribution,
			Variance:  varianceContribution,
			Trend:     trendContribution,
		},
	}, drivers
}

// ScoreAll scores every aspect of the intelligence record in canonical
// order and returns the per-aspect risks with their drivers.
func (r *RiskScorer) ScoreAll(intelligence model.ListingIntelligence) (map[model.Aspect]model.AspectRisk, []model.RiskDriver) {
	risks := make(map[model.Aspect]model.AspectRisk, len(intelligence.AspectAggregations))
	var allDrivers []model.RiskDriver

	for _, aspect := range model.Aspects() {
		agg, ok := intelligence.AspectAggregations[aspect]
		if !ok {
			continue
		}
		risk, drivers := r.ScoreAspect(aspect, agg)
		risks[aspect] = risk
		allDrivers = append(allDrivers, drivers...)
	}
	return risks, allDrivers
}

// OverallRisk is the aspect-weighted average over aspects that carry
// any risk; zero when none do.
func (r *RiskScorer) OverallRisk(risks map[model.Aspect]model.AspectRisk) float64 {
	var weightedSum, totalWeight float64
	for _, aspect := range model.Aspects() {
		risk, ok := risks[aspect]
		if !ok || risk.RiskScore <= 0 {
			continue
		}
		weight := aspectWeights[aspect]
		weightedSum += risk.RiskScore * weight
		totalWeight += weight
	}
	if totalWeight == 0 {
		return 0
	}
	return weightedSum / totalWeight
}

// HighestRiskAspects returns the top n aspects by risk score.
func HighestRiskAspects(risks map[model.Aspect]model.AspectRisk, n int) []model.AspectRisk {
	ordered := make([]model.AspectRisk, 0, len(risks))
	for _, aspect := range model.Aspects() {
		if risk, ok := risks[aspect]; ok {
			ordered = append(ordered, risk)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].RiskScore > ordered[j].RiskScore
	})
	if n < len(ordered) {
		ordered = ordered[:n]
	}
	return ordered
}
