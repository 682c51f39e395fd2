package service

import (
	"fmt"
	"strings"

	"reviewintel/internal/model"
)

const (
	contradictionVarianceThreshold     = 0.30
	contradictionDisagreementThreshold = 0.50
	minMentionsForVarianceFlag         = 5
	multiDeclineThreshold              = 2
)

// ContradictionDetector runs a fixed sequence of anomaly checks over a
// listing's intelligence: inconsistent experiences, polarization,
// multi-aspect decline, conflicting trends, thin data and safety
// signals.
type ContradictionDetector struct{}

func NewContradictionDetector() *ContradictionDetector {
	return &ContradictionDetector{}
}

type detectorResult struct {
	flags   []model.FlagType
	drivers []model.RiskDriver
}

func (c *ContradictionDetector) detectHighVariance(li model.ListingIntelligence) detectorResult {
	var res detectorResult
	for _, aspect := range model.Aspects() {
		agg, ok := li.AspectAggregations[aspect]
		if !ok || agg.MentionCount < minMentionsForVarianceFlag {
			continue
		}
		if agg.SentimentVariance > contradictionVarianceThreshold {
			a, v := aspect, agg.SentimentVariance
			res.drivers = append(res.drivers, model.RiskDriver{
				Aspect:      &a,
				DriverType:  "inconsistent_experience",
				Severity:    model.SeverityMedium,
				Description: fmt.Sprintf("High sentiment variance in %s (%.2f)", aspect, agg.SentimentVariance),
				Value:       &v,
			})
		}
	}
	if len(res.drivers) > 0 {
		res.flags = append(res.flags, model.FlagHighVariance)
	}
	return res
}

func (c *ContradictionDetector) detectPolarization(li model.ListingIntelligence) detectorResult {
	var res detectorResult
	for _, aspect := range model.Aspects() {
		agg, ok := li.AspectAggregations[aspect]
		if !ok || agg.MentionCount < minMentionsForVarianceFlag {
			continue
		}
		if agg.DisagreementScore > contradictionDisagreementThreshold {
			a, v := aspect, agg.DisagreementScore
			res.drivers = append(res.drivers, model.RiskDriver{
				Aspect:      &a,
				DriverType:  "polarized_reviews",
				Severity:    model.SeverityHigh,
				Description: fmt.Sprintf("Reviews strongly disagree on %s (disagreement: %.2f)", aspect, agg.DisagreementScore),
				Value:       &v,
			})
		}
	}
	if len(res.drivers) > 0 {
		res.flags = append(res.flags, model.FlagPolarized)
	}
	return res
}

func (c *ContradictionDetector) detectMultiAspectDecline(li model.ListingIntelligence) detectorResult {
	var res detectorResult
	var declining []model.Aspect
	for _, aspect := range model.Aspects() {
		if agg, ok := li.AspectAggregations[aspect]; ok && agg.RecentTrend == model.TrendDeclining {
			declining = append(declining, aspect)
		}
	}

	if len(declining) >= multiDeclineThreshold {
		res.flags = append(res.flags, model.FlagMultiAspectDecline, model.FlagDecliningTrend)
		v := float64(len(declining))
		res.drivers = append(res.drivers, model.RiskDriver{
			DriverType:  "multi_aspect_decline",
			Severity:    model.SeverityHigh,
			Description: "Multiple aspects declining: " + joinAspects(declining),
			Value:       &v,
		})
	} else if len(declining) == 1 {
		res.flags = append(res.flags, model.FlagDecliningTrend)
		a := declining[0]
		res.drivers = append(res.drivers, model.RiskDriver{
			Aspect:      &a,
			DriverType:  "declining_trend",
			Severity:    model.SeverityMedium,
			Description: fmt.Sprintf("Declining sentiment in %s", a),
		})
	}
	return res
}

func (c *ContradictionDetector) detectTrendConflicts(li model.ListingIntelligence) detectorResult {
	var res detectorResult
	var improving, declining []model.Aspect
	for _, aspect := range model.Aspects() {
		agg, ok := li.AspectAggregations[aspect]
		if !ok {
			continue
		}
		switch agg.RecentTrend {
		case model.TrendImproving:
			improving = append(improving, aspect)
		case model.TrendDeclining:
			declining = append(declining, aspect)
		}
	}

	// Mixed signals are worth surfacing but not a flag on their own.
	if len(improving) > 0 && len(declining) > 0 {
		res.drivers = append(res.drivers, model.RiskDriver{
			DriverType: "trend_conflict",
			Severity:   model.SeverityLow,
			Description: fmt.Sprintf("Mixed trends: %s improving while %s declining",
				joinAspects(improving), joinAspects(declining)),
		})
	}
	return res
}

func (c *ContradictionDetector) detectLowConfidence(li model.ListingIntelligence) detectorResult {
	var res detectorResult

	if li.TotalReviews < 5 {
		res.flags = append(res.flags, model.FlagLowConfidence)
		v := float64(li.TotalReviews)
		res.drivers = append(res.drivers, model.RiskDriver{
			DriverType:  "insufficient_reviews",
			Severity:    model.SeverityLow,
			Description: fmt.Sprintf("Only %d reviews - risk assessment may be unreliable", li.TotalReviews),
			Value:       &v,
		})
		return res
	}

	for _, aspect := range model.Aspects() {
		agg, ok := li.AspectAggregations[aspect]
		if ok && agg.MentionCount >= 3 && agg.ConfidenceScore < 0.3 {
			res.flags = append(res.flags, model.FlagLowConfidence)
			break
		}
	}
	return res
}

func (c *ContradictionDetector) detectSafetyConcerns(li model.ListingIntelligence) detectorResult {
	var res detectorResult
	agg, ok := li.AspectAggregations[model.AspectSafety]
	if !ok || agg.MentionCount == 0 {
		return res
	}

	safety := model.AspectSafety
	if agg.WeightedSentiment < -0.2 {
		res.flags = append(res.flags, model.FlagSafetyConcern)
		v := agg.WeightedSentiment
		res.drivers = append(res.drivers, model.RiskDriver{
			Aspect:      &safety,
			DriverType:  "safety_concern",
			Severity:    model.SeverityHigh,
			Description: fmt.Sprintf("Negative safety feedback detected (sentiment: %.2f)", agg.WeightedSentiment),
			Value:       &v,
		})
	} else if agg.RecentTrend == model.TrendDeclining {
		res.flags = append(res.flags, model.FlagSafetyConcern)
		res.drivers = append(res.drivers, model.RiskDriver{
			Aspect:      &safety,
			DriverType:  "declining_safety",
			Severity:    model.SeverityHigh,
			Description: "Safety sentiment is declining over time",
		})
	}
	return res
}

// Detect runs every check in its fixed order and returns deduplicated
// flags (first occurrence wins) plus the concatenated drivers.
func (c *ContradictionDetector) Detect(li model.ListingIntelligence) ([]model.FlagType, []model.RiskDriver) {
	results := []detectorResult{
		c.detectHighVariance(li),
		c.detectPolarization(li),
		c.detectMultiAspectDecline(li),
		c.detectTrendConflicts(li),
		c.detectLowConfidence(li),
		c.detectSafetyConcerns(li),
	}

	seen := make(map[model.FlagType]bool)
	var flags []model.FlagType
	var drivers []model.RiskDriver
	for _, res := range results {
		for _, f := range res.flags {
			if !seen[f] {
				seen[f] = true
				flags = append(flags, f)
			}
		}
		drivers = append(drivers, res.drivers...)
	}
	return flags, drivers
}

func joinAspects(aspects []model.Aspect) string {
	names := make([]string, len(aspects))
	for i, a := range aspects {
		names[i] = string(a)
	}
	return strings.Join(names, ", ")
}
