package service

import (
	"math"
	"sort"
	"time"

	"reviewintel/internal/model"
)

const (
	// DefaultHalfLifeDays is the temporal decay half-life. A review
	// this old carries half the weight of one posted today.
	DefaultHalfLifeDays = 180

	// trendMinimumDays is the smallest date span that supports a
	// trend call.
	trendMinimumDays = 30

	// recentProportion is the share of time-ordered data points
	// treated as "recent" when detecting a trend.
	recentProportion = 0.3

	trendThreshold = 0.15
)

// Aggregator rolls sentence-level aspect mentions up to listing-level
// statistics with exponential temporal weighting.
type Aggregator struct {
	halfLifeDays int
}

func NewAggregator(halfLifeDays int) *Aggregator {
	if halfLifeDays <= 0 {
		halfLifeDays = DefaultHalfLifeDays
	}
	return &Aggregator{halfLifeDays: halfLifeDays}
}

// TemporalWeight is 2^(-daysAgo/halfLife), clamped so future-dated
// reviews weigh 1.
func (a *Aggregator) TemporalWeight(reviewDate, referenceDate time.Time) float64 {
	days := int(referenceDate.Sub(reviewDate).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return math.Exp2(-float64(days) / float64(a.halfLifeDays))
}

type aspectDataPoint struct {
	reviewID       string
	reviewDate     time.Time
	sentimentScore float64
	temporalWeight float64
}

func (a *Aggregator) reviewWeights(reviews []model.RawReview, referenceDate time.Time) map[string]float64 {
	weights := make(map[string]float64, len(reviews))
	for _, r := range reviews {
		weights[r.ReviewID] = a.TemporalWeight(r.Date, referenceDate)
	}
	return weights
}

func collectDataPoints(
	sentences []model.ProcessedSentence,
	reviews []model.RawReview,
	weights map[string]float64,
) map[model.Aspect][]aspectDataPoint {
	dates := make(map[string]time.Time, len(reviews))
	for _, r := range reviews {
		dates[r.ReviewID] = r.Date
	}

	data := make(map[model.Aspect][]aspectDataPoint)
	for _, sentence := range sentences {
		date, ok := dates[sentence.ReviewID]
		if !ok {
			continue
		}
		weight, ok := weights[sentence.ReviewID]
		if !ok {
			weight = 1.0
		}
		for _, mention := range sentence.Mentions {
			data[mention.Aspect] = append(data[mention.Aspect], aspectDataPoint{
				reviewID:       sentence.ReviewID,
				reviewDate:     date,
				sentimentScore: mention.SentimentScore,
				temporalWeight: weight,
			})
		}
	}
	return data
}

// detectTrend compares the most recent third of time-ordered points
// against the rest.
func detectTrend(points []aspectDataPoint, dateRangeDays int) model.TrendDirection {
	if len(points) < 3 || dateRangeDays < trendMinimumDays {
		return model.TrendInsufficientData
	}

	sorted := make([]aspectDataPoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].reviewDate.Before(sorted[j].reviewDate)
	})

	splitIndex := int(float64(len(sorted)) * (1 - recentProportion))
	if splitIndex < 1 {
		splitIndex = 1
	}
	historical := sorted[:splitIndex]
	recent := sorted[splitIndex:]
	if len(recent) == 0 {
		return model.TrendInsufficientData
	}

	diff := meanSentiment(recent) - meanSentiment(historical)
	switch {
	case diff > trendThreshold:
		return model.TrendImproving
	case diff < -trendThreshold:
		return model.TrendDeclining
	default:
		return model.TrendStable
	}
}

func meanSentiment(points []aspectDataPoint) float64 {
	total := 0.0
	for _, p := range points {
		total += p.sentimentScore
	}
	return total / float64(len(points))
}

func aggregateAspect(aspect model.Aspect, points []aspectDataPoint, dateRangeDays int) model.AspectAggregation {
	if len(points) == 0 {
		return model.AspectAggregation{
			Aspect:      aspect,
			RecentTrend: model.TrendInsufficientData,
		}
	}

	scores := make([]float64, len(points))
	rawSum := 0.0
	totalWeight := 0.0
	weightedSum := 0.0
	for i, p := range points {
		scores[i] = p.sentimentScore
		rawSum += p.sentimentScore
		totalWeight += p.temporalWeight
		weightedSum += p.sentimentScore * p.temporalWeight
	}

	rawMean := rawSum / float64(len(points))
	weightedMean := rawMean
	if totalWeight > 0 {
		weightedMean = weightedSum / totalWeight
	}

	variance := 0.0
	for _, s := range scores {
		variance += (s - rawMean) * (s - rawMean)
	}
	variance /= float64(len(scores))

	return model.AspectAggregation{
		Aspect:            aspect,
		WeightedSentiment: weightedMean,
		RawSentimentMean:  rawMean,
		SentimentVariance: variance,
		MentionCount:      len(points),
		RecentTrend:       detectTrend(points, dateRangeDays),
	}
}

// AggregateListing builds the full intelligence record for one
// listing. Disagreement and confidence are filled afterwards by
// EnhanceIntelligence. Every aspect is present in the output even
// when it was never mentioned.
func (a *Aggregator) AggregateListing(
	sentences []model.ProcessedSentence,
	reviews []model.RawReview,
	listingID string,
	referenceDate time.Time,
) (model.ListingIntelligence, map[model.Aspect][]float64) {
	if len(reviews) == 0 {
		return model.ListingIntelligence{
			ListingID:          listingID,
			AnalysisTimestamp:  referenceDate,
			AspectAggregations: map[model.Aspect]model.AspectAggregation{},
			DateRangeStart:     referenceDate,
			DateRangeEnd:       referenceDate,
		}, nil
	}

	weights := a.reviewWeights(reviews, referenceDate)
	data := collectDataPoints(sentences, reviews, weights)

	start, end := reviews[0].Date, reviews[0].Date
	for _, r := range reviews[1:] {
		if r.Date.Before(start) {
			start = r.Date
		}
		if r.Date.After(end) {
			end = r.Date
		}
	}
	rangeDays := int(end.Sub(start).Hours() / 24)

	aggregations := make(map[model.Aspect]model.AspectAggregation, len(model.Aspects()))
	aspectScores := make(map[model.Aspect][]float64)
	for _, aspect := range model.Aspects() {
		points := data[aspect]
		aggregations[aspect] = aggregateAspect(aspect, points, rangeDays)
		scores := make([]float64, len(points))
		for i, p := range points {
			scores[i] = p.sentimentScore
		}
		aspectScores[aspect] = scores
	}

	return model.ListingIntelligence{
		ListingID:          listingID,
		AnalysisTimestamp:  referenceDate,
		AspectAggregations: aggregations,
		TotalReviews:       len(reviews),
		TotalSentences:     len(sentences),
		DateRangeStart:     start,
		DateRangeEnd:       end,
	}, aspectScores
}
