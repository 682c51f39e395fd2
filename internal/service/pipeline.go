package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"reviewintel/internal/model"
	"reviewintel/internal/textutil"
)

// batchWorkers bounds how many listings are analyzed concurrently.
const batchWorkers = 8

// Pipeline runs the phase-one analysis: normalize text, detect
// aspects, score sentiment and aggregate per listing.
type Pipeline struct {
	detector   *AspectDetector
	scorer     *SentimentScorer
	aggregator *Aggregator
	logger     *zap.Logger
}

func NewPipeline(halfLifeDays int, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		detector:   NewAspectDetector(),
		scorer:     NewSentimentScorer(),
		aggregator: NewAggregator(halfLifeDays),
		logger:     logger,
	}
}

// ProcessReview normalizes one review and returns its sentences with
// scored aspect mentions.
func (p *Pipeline) ProcessReview(review model.RawReview) []model.ProcessedSentence {
	pre := textutil.PreprocessReview(review.Text)

	sentences := make([]model.ProcessedSentence, 0, len(pre.Sentences))
	for i, sentence := range pre.Sentences {
		mentions := p.detector.Detect(sentence)
		if len(mentions) > 0 {
			mentions = p.scorer.ScoreAspects(sentence, mentions)
		}
		for j := range mentions {
			mentions[j].SentenceIndex = i
		}
		sentiment, _ := p.scorer.ScoreSentence(sentence)

		sentences = append(sentences, model.ProcessedSentence{
			ReviewID:      review.ReviewID,
			ListingID:     review.ListingID,
			SentenceIndex: i,
			RawText:       review.Text,
			CleanText:     sentence,
			ReviewDate:    review.Date,
			Mentions:      mentions,
			Sentiment:     sentiment,
		})
	}
	return sentences
}

// Run executes the full phase-one pipeline over a review batch.
// Listings are processed concurrently; per-listing output is fully
// deterministic for a fixed reference date.
func (p *Pipeline) Run(
	ctx context.Context,
	reviews []model.RawReview,
	referenceDate time.Time,
) (map[string]model.ListingIntelligence, error) {
	for i := range reviews {
		if err := reviews[i].Validate(); err != nil {
			return nil, fmt.Errorf("invalid review %q: %w", reviews[i].ReviewID, err)
		}
	}

	p.logger.Info("pipeline started",
		zap.Int("reviews", len(reviews)),
		zap.Time("reference_date", referenceDate))

	byListing := make(map[string][]model.RawReview)
	var listingIDs []string
	for _, r := range reviews {
		if _, ok := byListing[r.ListingID]; !ok {
			listingIDs = append(listingIDs, r.ListingID)
		}
		byListing[r.ListingID] = append(byListing[r.ListingID], r)
	}
	sort.Strings(listingIDs)

	results := make(map[string]model.ListingIntelligence, len(listingIDs))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(batchWorkers)
	for _, listingID := range listingIDs {
		listingID := listingID
		listingReviews := byListing[listingID]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			intelligence := p.analyzeListing(listingID, listingReviews, referenceDate)
			mu.Lock()
			results[listingID] = intelligence
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	p.logger.Info("pipeline finished", zap.Int("listings", len(results)))
	return results, nil
}

// AnalyzeListing runs phase one for a single listing's reviews.
func (p *Pipeline) AnalyzeListing(
	reviews []model.RawReview,
	listingID string,
	referenceDate time.Time,
) (model.ListingIntelligence, error) {
	for i := range reviews {
		if err := reviews[i].Validate(); err != nil {
			return model.ListingIntelligence{}, fmt.Errorf("invalid review %q: %w", reviews[i].ReviewID, err)
		}
	}
	return p.analyzeListing(listingID, reviews, referenceDate), nil
}

func (p *Pipeline) analyzeListing(
	listingID string,
	reviews []model.RawReview,
	referenceDate time.Time,
) model.ListingIntelligence {
	var sentences []model.ProcessedSentence
	for _, review := range reviews {
		sentences = append(sentences, p.ProcessReview(review)...)
	}

	intelligence, aspectScores := p.aggregator.AggregateListing(sentences, reviews, listingID, referenceDate)
	intelligence = EnhanceIntelligence(intelligence, aspectScores)

	p.logger.Debug("listing analyzed",
		zap.String("listing_id", listingID),
		zap.Int("reviews", len(reviews)),
		zap.Int("sentences", len(sentences)))

	return intelligence
}

// PipelineStats summarizes one pipeline run for reporting.
type PipelineStats struct {
	TotalReviews         int            `json:"total_reviews"`
	TotalSentences       int            `json:"total_sentences"`
	SentencesWithAspects int            `json:"sentences_with_aspects"`
	TotalAspectMentions  int            `json:"total_aspect_mentions"`
	AspectCoveragePct    float64        `json:"aspect_coverage_pct"`
	AspectMentionCounts  map[string]int `json:"aspect_mention_counts"`
	ListingsAnalyzed     int            `json:"listings_analyzed"`
}

// PipelineDetails carries intermediate results alongside the final
// intelligence for debugging and reporting.
type PipelineDetails struct {
	Listings     map[string]model.ListingIntelligence `json:"listings"`
	Sentences    []model.ProcessedSentence            `json:"sentences"`
	Stats        PipelineStats                        `json:"stats"`
	Polarization map[string]PolarizationPattern       `json:"polarization"`
}

// RunWithDetails is Run plus the sentence-level intermediates and
// aggregate statistics.
func (p *Pipeline) RunWithDetails(
	ctx context.Context,
	reviews []model.RawReview,
	referenceDate time.Time,
) (*PipelineDetails, error) {
	results, err := p.Run(ctx, reviews, referenceDate)
	if err != nil {
		return nil, err
	}

	var sentences []model.ProcessedSentence
	for _, review := range reviews {
		sentences = append(sentences, p.ProcessReview(review)...)
	}

	withAspects := 0
	totalMentions := 0
	mentionCounts := make(map[string]int)
	aspectScores := make(map[string][]float64)
	for _, s := range sentences {
		if len(s.Mentions) > 0 {
			withAspects++
		}
		totalMentions += len(s.Mentions)
		for _, m := range s.Mentions {
			mentionCounts[string(m.Aspect)]++
			aspectScores[string(m.Aspect)] = append(aspectScores[string(m.Aspect)], m.SentimentScore)
		}
	}

	polarization := make(map[string]PolarizationPattern, len(aspectScores))
	for aspect, scores := range aspectScores {
		polarization[aspect] = DetectPolarizationPattern(scores)
	}

	denom := len(sentences)
	if denom == 0 {
		denom = 1
	}
	coverage := math.Round(1000*float64(withAspects)/float64(denom)) / 10

	return &PipelineDetails{
		Listings:     results,
		Sentences:    sentences,
		Polarization: polarization,
		Stats: PipelineStats{
			TotalReviews:         len(reviews),
			TotalSentences:       len(sentences),
			SentencesWithAspects: withAspects,
			TotalAspectMentions:  totalMentions,
			AspectCoveragePct:    coverage,
			AspectMentionCounts:  mentionCounts,
			ListingsAnalyzed:     len(results),
		},
	}, nil
}
