package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"reviewintel/internal/model"
	"reviewintel/internal/repository"
)

// ErrListingNotFound is returned when a listing has no reviews at all.
var ErrListingNotFound = errors.New("listing not found")

// Store is the persistence surface the intelligence service needs.
// *repository.PostgresRepository satisfies it.
type Store interface {
	InsertReviews(ctx context.Context, reviews []model.RawReview) (int, []string)
	GetReviewsByListing(ctx context.Context, listingID string) ([]model.RawReview, error)
	ListListings(ctx context.Context, limit, offset int) ([]repository.ListingRow, int, error)
	GetListingRating(ctx context.Context, listingID string) (*float64, error)
	UpsertListingRating(ctx context.Context, listingID string, rating float64) error
	SaveIntelligence(ctx context.Context, intelligence model.ListingIntelligence) error
	GetLatestIntelligence(ctx context.Context, listingID string) (*model.ListingIntelligence, error)
	LogAssessment(ctx context.Context, assessment model.ListingRiskAssessment) error
	RecentAssessments(ctx context.Context, listingID string, limit int) ([]model.ListingRiskAssessment, error)
}

// IntelligenceService ties storage to the two analysis pipelines.
type IntelligenceService struct {
	store    Store
	pipeline *Pipeline
	risk     *RiskPipeline
	persist  bool
	logger   *zap.Logger
}

func NewIntelligenceService(store Store, pipeline *Pipeline, risk *RiskPipeline, persist bool, logger *zap.Logger) *IntelligenceService {
	return &IntelligenceService{
		store:    store,
		pipeline: pipeline,
		risk:     risk,
		persist:  persist,
		logger:   logger,
	}
}

// IngestResult reports the outcome of a review batch ingestion.
type IngestResult struct {
	Accepted int      `json:"accepted"`
	Rejected int      `json:"rejected"`
	Errors   []string `json:"errors,omitempty"`
}

// IngestReviews validates and stores a batch of reviews. Invalid
// records are rejected individually; valid ones still go through.
func (s *IntelligenceService) IngestReviews(ctx context.Context, reviews []model.RawReview) (*IngestResult, error) {
	valid := make([]model.RawReview, 0, len(reviews))
	var errs []string
	for i := range reviews {
		if err := reviews[i].Validate(); err != nil {
			errs = append(errs, fmt.Sprintf("review %d: %v", i, err))
			continue
		}
		valid = append(valid, reviews[i])
	}

	inserted := 0
	if len(valid) > 0 {
		var insertErrs []string
		inserted, insertErrs = s.store.InsertReviews(ctx, valid)
		errs = append(errs, insertErrs...)
	}

	s.logger.Info("reviews ingested",
		zap.Int("accepted", inserted),
		zap.Int("rejected", len(reviews)-inserted))

	return &IngestResult{
		Accepted: inserted,
		Rejected: len(reviews) - inserted,
		Errors:   errs,
	}, nil
}

// ListListings pages through listings that have reviews.
func (s *IntelligenceService) ListListings(ctx context.Context, limit, offset int) ([]repository.ListingRow, int, error) {
	return s.store.ListListings(ctx, limit, offset)
}

// GetIntelligence computes fresh intelligence from the listing's
// stored reviews. When no reviews exist it falls back to the latest
// persisted snapshot; ErrListingNotFound means neither is available.
func (s *IntelligenceService) GetIntelligence(ctx context.Context, listingID string, referenceDate time.Time) (*model.ListingIntelligence, error) {
	reviews, err := s.store.GetReviewsByListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if len(reviews) == 0 {
		snapshot, err := s.store.GetLatestIntelligence(ctx, listingID)
		if err != nil {
			return nil, err
		}
		if snapshot != nil {
			s.logger.Info("serving cached intelligence snapshot",
				zap.String("listing_id", listingID),
				zap.Time("analyzed_at", snapshot.AnalysisTimestamp))
			return snapshot, nil
		}
		return nil, ErrListingNotFound
	}

	intelligence, err := s.pipeline.AnalyzeListing(reviews, listingID, referenceDate)
	if err != nil {
		return nil, err
	}

	if s.persist {
		if err := s.store.SaveIntelligence(ctx, intelligence); err != nil {
			s.logger.Warn("failed to persist intelligence snapshot",
				zap.String("listing_id", listingID), zap.Error(err))
		}
	}

	return &intelligence, nil
}

// AssessListing runs both phases for one listing. When ratingOverride
// is nil the stored listing rating, if any, feeds rating-lag
// detection.
func (s *IntelligenceService) AssessListing(ctx context.Context, listingID string, ratingOverride *float64, referenceDate time.Time) (*model.ListingRiskAssessment, error) {
	intelligence, err := s.GetIntelligence(ctx, listingID, referenceDate)
	if err != nil {
		return nil, err
	}

	rating := ratingOverride
	if rating == nil {
		rating, err = s.store.GetListingRating(ctx, listingID)
		if err != nil {
			return nil, err
		}
	}

	assessment := s.risk.Assess(*intelligence, rating, referenceDate)

	if s.persist {
		if err := s.store.LogAssessment(ctx, assessment); err != nil {
			s.logger.Warn("failed to log assessment",
				zap.String("listing_id", listingID), zap.Error(err))
		}
	}

	return &assessment, nil
}

// AdhocResult bundles both phases' outputs for one-shot assessment
// requests that bypass storage. Ranked is ordered most urgent first.
type AdhocResult struct {
	Intelligence map[string]model.ListingIntelligence   `json:"intelligence"`
	Assessments  map[string]model.ListingRiskAssessment `json:"assessments"`
	Ranked       []AssessmentSummary                    `json:"ranked"`
	Urgent       []string                               `json:"urgent"`
	Flagged      []string                               `json:"flagged"`
	Polarization map[string]PolarizationPattern         `json:"polarization"`
	Stats        PipelineStats                          `json:"stats"`
}

// AssessAdhoc analyzes an in-request review batch without touching
// storage. Ratings map listing IDs to actual star ratings.
func (s *IntelligenceService) AssessAdhoc(ctx context.Context, reviews []model.RawReview, ratings map[string]float64, referenceDate time.Time) (*AdhocResult, error) {
	details, err := s.pipeline.RunWithDetails(ctx, reviews, referenceDate)
	if err != nil {
		return nil, err
	}

	assessments := s.risk.AssessBatch(details.Listings, ratings, referenceDate)

	ranked := make([]AssessmentSummary, 0, len(assessments))
	for _, assessment := range SortByActionPriority(assessments) {
		ranked = append(ranked, Summarize(assessment))
	}

	return &AdhocResult{
		Intelligence: details.Listings,
		Assessments:  assessments,
		Ranked:       ranked,
		Urgent:       UrgentListings(assessments),
		Flagged:      FlaggedListings(assessments),
		Polarization: details.Polarization,
		Stats:        details.Stats,
	}, nil
}

// SetRating stores the actual star rating for a listing.
func (s *IntelligenceService) SetRating(ctx context.Context, listingID string, rating float64) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5, got %g", rating)
	}
	return s.store.UpsertListingRating(ctx, listingID, rating)
}

// AssessmentHistory returns recent stored assessments for a listing.
func (s *IntelligenceService) AssessmentHistory(ctx context.Context, listingID string, limit int) ([]model.ListingRiskAssessment, error) {
	return s.store.RecentAssessments(ctx, listingID, limit)
}
