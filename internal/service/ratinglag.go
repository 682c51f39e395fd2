package service

import (
	"fmt"
	"math"

	"reviewintel/internal/model"
)

// ratingLagThreshold is the star-rating mismatch that counts as
// significant.
const ratingLagThreshold = 0.75

// sentimentRatingAnchors map sentiment to expected star rating; values
// between anchors interpolate linearly.
var sentimentRatingAnchors = []struct {
	sentiment float64
	rating    float64
}{
	{-1.0, 1.0},
	{-0.6, 2.0},
	{-0.2, 3.0},
	{0.2, 3.5},
	{0.5, 4.0},
	{0.8, 4.5},
	{1.0, 5.0},
}

// RatingLagDetector spots listings whose star rating disagrees with
// what the review text says.
type RatingLagDetector struct{}

func NewRatingLagDetector() *RatingLagDetector {
	return &RatingLagDetector{}
}

// ExpectedRating converts sentiment to the star rating it implies.
func ExpectedRating(sentiment float64) float64 {
	sentiment = clamp(sentiment, -1, 1)
	for i := 0; i < len(sentimentRatingAnchors)-1; i++ {
		a, b := sentimentRatingAnchors[i], sentimentRatingAnchors[i+1]
		if sentiment >= a.sentiment && sentiment <= b.sentiment {
			ratio := 0.0
			if b.sentiment != a.sentiment {
				ratio = (sentiment - a.sentiment) / (b.sentiment - a.sentiment)
			}
			return a.rating + ratio*(b.rating-a.rating)
		}
	}
	if sentiment < sentimentRatingAnchors[0].sentiment {
		return sentimentRatingAnchors[0].rating
	}
	return sentimentRatingAnchors[len(sentimentRatingAnchors)-1].rating
}

// ExpectedSentiment is the inverse mapping, star rating to sentiment.
func ExpectedSentiment(rating float64) float64 {
	rating = clamp(rating, 1, 5)
	for i := 0; i < len(sentimentRatingAnchors)-1; i++ {
		a, b := sentimentRatingAnchors[i], sentimentRatingAnchors[i+1]
		if rating >= a.rating && rating <= b.rating {
			ratio := 0.0
			if b.rating != a.rating {
				ratio = (rating - a.rating) / (b.rating - a.rating)
			}
			return a.sentiment + ratio*(b.sentiment-a.sentiment)
		}
	}
	if rating < sentimentRatingAnchors[0].rating {
		return sentimentRatingAnchors[0].sentiment
	}
	return sentimentRatingAnchors[len(sentimentRatingAnchors)-1].sentiment
}

// OverallSentiment is the aspect-weighted average sentiment across
// aspects that were actually mentioned, using the risk weights.
func OverallSentiment(li model.ListingIntelligence) float64 {
	var weightedSum, totalWeight float64
	for _, aspect := range model.Aspects() {
		agg, ok := li.AspectAggregations[aspect]
		if !ok || agg.MentionCount == 0 {
			continue
		}
		weight := aspectWeights[aspect]
		weightedSum += agg.WeightedSentiment * weight
		totalWeight += weight
	}
	if totalWeight == 0 {
		return 0
	}
	return weightedSum / totalWeight
}

// Detect compares the actual rating (nil when unknown) against the
// rating implied by sentiment. Metadata always carries the computed
// expectation; the flag and driver appear only on a significant
// mismatch.
func (d *RatingLagDetector) Detect(li model.ListingIntelligence, actualRating *float64) (*model.FlagType, *model.RiskDriver, map[string]any) {
	metadata := make(map[string]any)

	overall := OverallSentiment(li)
	expected := ExpectedRating(overall)

	metadata["computed_overall_sentiment"] = math.Round(overall*1000) / 1000
	metadata["expected_rating"] = math.Round(expected*100) / 100

	if actualRating == nil {
		metadata["rating_available"] = false
		return nil, nil, metadata
	}

	metadata["rating_available"] = true
	metadata["actual_rating"] = *actualRating

	mismatch := *actualRating - expected
	metadata["rating_mismatch"] = math.Round(mismatch*100) / 100

	if math.Abs(mismatch) < ratingLagThreshold {
		return nil, nil, metadata
	}

	flag := model.FlagRatingLag
	var description string
	severity := model.SeverityLow
	if mismatch > 0 {
		description = fmt.Sprintf(
			"Rating (%.1f) is higher than sentiment suggests (expected %.1f). Guests may rate positively despite issues.",
			*actualRating, expected)
		severity = model.SeverityMedium
	} else {
		description = fmt.Sprintf(
			"Rating (%.1f) is lower than sentiment suggests (expected %.1f). Reviews are more positive than scores indicate.",
			*actualRating, expected)
	}

	v := mismatch
	driver := model.RiskDriver{
		DriverType:  "rating_sentiment_mismatch",
		Severity:    severity,
		Description: description,
		Value:       &v,
	}
	return &flag, &driver, metadata
}

// RatingCorrelation summarizes how ratings track sentiment over a
// sample of (rating, sentiment) pairs.
type RatingCorrelation struct {
	SufficientData bool    `json:"sufficient_data"`
	Correlation    float64 `json:"correlation,omitempty"`
	AvgRating      float64 `json:"avg_rating,omitempty"`
	AvgSentiment   float64 `json:"avg_sentiment,omitempty"`
	SampleSize     int     `json:"sample_size,omitempty"`
}

// AnalyzeRatingPattern computes a Pearson correlation between actual
// ratings and computed sentiments. Fewer than three pairs is not
// enough signal.
func AnalyzeRatingPattern(pairs [][2]float64) RatingCorrelation {
	if len(pairs) < 3 {
		return RatingCorrelation{SufficientData: false}
	}

	n := float64(len(pairs))
	var meanR, meanS float64
	for _, p := range pairs {
		meanR += p[0]
		meanS += p[1]
	}
	meanR /= n
	meanS /= n

	var numerator, denomR, denomS float64
	for _, p := range pairs {
		numerator += (p[0] - meanR) * (p[1] - meanS)
		denomR += (p[0] - meanR) * (p[0] - meanR)
		denomS += (p[1] - meanS) * (p[1] - meanS)
	}

	correlation := 0.0
	if denom := math.Sqrt(denomR) * math.Sqrt(denomS); denom != 0 {
		correlation = numerator / denom
	}

	return RatingCorrelation{
		SufficientData: true,
		Correlation:    math.Round(correlation*1000) / 1000,
		AvgRating:      math.Round(meanR*100) / 100,
		AvgSentiment:   math.Round(meanS*1000) / 1000,
		SampleSize:     len(pairs),
	}
}
