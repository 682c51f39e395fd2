package model

import (
	"encoding/json"
	"math"
	"time"
)

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// AspectAggregation is the rolled-up sentiment picture for one aspect
// of one listing.
type AspectAggregation struct {
	Aspect            Aspect         `json:"aspect"`
	WeightedSentiment float64        `json:"weighted_sentiment"`
	RawSentimentMean  float64        `json:"raw_sentiment_mean"`
	SentimentVariance float64        `json:"sentiment_variance"`
	DisagreementScore float64        `json:"disagreement_score"`
	ConfidenceScore   float64        `json:"confidence_score"`
	MentionCount      int            `json:"mention_count"`
	RecentTrend       TrendDirection `json:"recent_trend"`
}

// MarshalJSON rounds the continuous fields so serialized output is
// stable across runs.
func (a AspectAggregation) MarshalJSON() ([]byte, error) {
	type alias AspectAggregation
	out := alias(a)
	out.WeightedSentiment = round3(a.WeightedSentiment)
	out.RawSentimentMean = round3(a.RawSentimentMean)
	out.SentimentVariance = round3(a.SentimentVariance)
	out.DisagreementScore = round3(a.DisagreementScore)
	out.ConfidenceScore = round3(a.ConfidenceScore)
	return json.Marshal(out)
}

// ListingIntelligence is the phase-one output: the full per-aspect
// aggregation for a listing plus corpus metadata.
type ListingIntelligence struct {
	ListingID          string                       `json:"listing_id"`
	AnalysisTimestamp  time.Time                    `json:"analysis_timestamp"`
	AspectAggregations map[Aspect]AspectAggregation `json:"aspect_aggregations"`
	TotalReviews       int                          `json:"total_reviews"`
	TotalSentences     int                          `json:"total_sentences"`
	DateRangeStart     time.Time                    `json:"date_range_start"`
	DateRangeEnd       time.Time                    `json:"date_range_end"`
}

// UnmarshalJSON drops aggregations under aspect keys this version does
// not know, so snapshots written by newer builds still load.
func (li *ListingIntelligence) UnmarshalJSON(data []byte) error {
	type alias ListingIntelligence
	var raw struct {
		alias
		AspectAggregations map[string]AspectAggregation `json:"aspect_aggregations"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*li = ListingIntelligence(raw.alias)
	li.AspectAggregations = make(map[Aspect]AspectAggregation, len(raw.AspectAggregations))
	for key, agg := range raw.AspectAggregations {
		aspect, err := ParseAspect(key)
		if err != nil {
			continue
		}
		li.AspectAggregations[aspect] = agg
	}
	return nil
}

// Aggregation returns the aggregation for one aspect, zero-valued with
// an insufficient-data trend when the aspect was never aggregated.
func (li *ListingIntelligence) Aggregation(aspect Aspect) AspectAggregation {
	if agg, ok := li.AspectAggregations[aspect]; ok {
		return agg
	}
	return AspectAggregation{Aspect: aspect, RecentTrend: TrendInsufficientData}
}
