package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"reviewintel/internal/model"
)

// PostgresRepository handles database operations
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	// Disable prepared statement caching to avoid "unnamed prepared statement does not exist" errors
	if !strings.Contains(dsn, "?") {
		dsn += "?prefer_simple_protocol=true"
	} else {
		dsn += "&prefer_simple_protocol=true"
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// InsertReviews stores a batch of reviews in one transaction.
// Re-submitted review IDs update the stored text, date and rating.
// Returns the number inserted and per-review error strings.
func (r *PostgresRepository) InsertReviews(ctx context.Context, reviews []model.RawReview) (int, []string) {
	success := 0
	var errors []string

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		errors = append(errors, fmt.Sprintf("failed to start transaction: %v", err))
		return success, errors
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO reviews (review_id, listing_id, review_text, review_date, rating)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (review_id) DO UPDATE
		SET review_text = EXCLUDED.review_text,
		    review_date = EXCLUDED.review_date,
		    rating = EXCLUDED.rating
	`)
	if err != nil {
		errors = append(errors, fmt.Sprintf("failed to prepare statement: %v", err))
		return success, errors
	}
	defer stmt.Close()

	for _, review := range reviews {
		_, err := stmt.ExecContext(ctx, review.ReviewID, review.ListingID, review.Text, review.Date, review.Rating)
		if err != nil {
			errors = append(errors, fmt.Sprintf("review_id %s: %v", review.ReviewID, err))
			continue
		}
		success++
	}

	if err := tx.Commit(); err != nil {
		errors = append(errors, fmt.Sprintf("failed to commit transaction: %v", err))
		return 0, errors
	}

	return success, errors
}

// GetReviewsByListing retrieves all reviews for one listing, oldest first.
func (r *PostgresRepository) GetReviewsByListing(ctx context.Context, listingID string) ([]model.RawReview, error) {
	var reviews []model.RawReview
	query := `
		SELECT review_id, listing_id, review_text, review_date, rating
		FROM reviews
		WHERE listing_id = $1
		ORDER BY review_date ASC, review_id ASC
	`
	if err := r.db.SelectContext(ctx, &reviews, query, listingID); err != nil {
		return nil, fmt.Errorf("failed to fetch reviews: %w", err)
	}
	return reviews, nil
}

// ListListings returns listing IDs with review counts, paginated.
func (r *PostgresRepository) ListListings(ctx context.Context, limit, offset int) ([]ListingRow, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(DISTINCT listing_id) FROM reviews`); err != nil {
		return nil, 0, fmt.Errorf("failed to count listings: %w", err)
	}

	var rows []ListingRow
	query := `
		SELECT listing_id, COUNT(*) AS review_count,
		       MIN(review_date) AS first_review, MAX(review_date) AS last_review
		FROM reviews
		GROUP BY listing_id
		ORDER BY listing_id
		LIMIT $1 OFFSET $2
	`
	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to fetch listings: %w", err)
	}
	return rows, total, nil
}

// ListingRow is one row of the listing index.
type ListingRow struct {
	ListingID   string    `db:"listing_id" json:"listing_id"`
	ReviewCount int       `db:"review_count" json:"review_count"`
	FirstReview time.Time `db:"first_review" json:"first_review"`
	LastReview  time.Time `db:"last_review" json:"last_review"`
}

// GetListingRating returns the stored star rating, or nil when the
// listing has none.
func (r *PostgresRepository) GetListingRating(ctx context.Context, listingID string) (*float64, error) {
	var rating float64
	query := `SELECT rating FROM listing_ratings WHERE listing_id = $1`
	err := r.db.GetContext(ctx, &rating, query, listingID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get listing rating: %w", err)
	}
	return &rating, nil
}

// UpsertListingRating stores or replaces the star rating for a listing.
func (r *PostgresRepository) UpsertListingRating(ctx context.Context, listingID string, rating float64) error {
	query := `
		INSERT INTO listing_ratings (listing_id, rating, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (listing_id) DO UPDATE
		SET rating = EXCLUDED.rating, updated_at = NOW()
	`
	if _, err := r.db.ExecContext(ctx, query, listingID, rating); err != nil {
		return fmt.Errorf("failed to upsert listing rating: %w", err)
	}
	return nil
}

// SaveIntelligence persists one intelligence snapshot as JSONB.
func (r *PostgresRepository) SaveIntelligence(ctx context.Context, intelligence model.ListingIntelligence) error {
	payload, err := json.Marshal(intelligence)
	if err != nil {
		return fmt.Errorf("failed to marshal intelligence: %w", err)
	}

	query := `
		INSERT INTO intelligence_snapshots (listing_id, analysis_timestamp, payload)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, query, intelligence.ListingID, intelligence.AnalysisTimestamp, payload); err != nil {
		return fmt.Errorf("failed to save intelligence: %w", err)
	}
	return nil
}

// GetLatestIntelligence loads the most recent snapshot for a listing,
// or nil when none exists. Aggregations stored under aspect labels
// this build does not know are dropped during decode.
func (r *PostgresRepository) GetLatestIntelligence(ctx context.Context, listingID string) (*model.ListingIntelligence, error) {
	var payload []byte
	query := `
		SELECT payload FROM intelligence_snapshots
		WHERE listing_id = $1
		ORDER BY analysis_timestamp DESC
		LIMIT 1
	`
	err := r.db.GetContext(ctx, &payload, query, listingID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get intelligence: %w", err)
	}

	var intelligence model.ListingIntelligence
	if err := json.Unmarshal(payload, &intelligence); err != nil {
		return nil, fmt.Errorf("failed to decode intelligence: %w", err)
	}
	return &intelligence, nil
}

// LogAssessment records a completed risk assessment.
func (r *PostgresRepository) LogAssessment(ctx context.Context, assessment model.ListingRiskAssessment) error {
	payload, err := json.Marshal(assessment)
	if err != nil {
		return fmt.Errorf("failed to marshal assessment: %w", err)
	}

	query := `
		INSERT INTO assessment_log (listing_id, assessed_at, risk_score, risk_level, recommended_action, payload)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = r.db.ExecContext(ctx, query,
		assessment.ListingID,
		assessment.AssessmentTimestamp,
		assessment.OverallRiskScore,
		string(assessment.RiskLevel),
		string(assessment.RecommendedAction),
		payload,
	)
	if err != nil {
		return fmt.Errorf("failed to log assessment: %w", err)
	}
	return nil
}

// RecentAssessments returns the latest logged assessments for a
// listing, newest first.
func (r *PostgresRepository) RecentAssessments(ctx context.Context, listingID string, limit int) ([]model.ListingRiskAssessment, error) {
	var payloads [][]byte
	query := `
		SELECT payload FROM assessment_log
		WHERE listing_id = $1
		ORDER BY assessed_at DESC
		LIMIT $2
	`
	if err := r.db.SelectContext(ctx, &payloads, query, listingID, limit); err != nil {
		return nil, fmt.Errorf("failed to fetch assessments: %w", err)
	}

	assessments := make([]model.ListingRiskAssessment, 0, len(payloads))
	for _, p := range payloads {
		var a model.ListingRiskAssessment
		if err := json.Unmarshal(p, &a); err != nil {
			return nil, fmt.Errorf("failed to decode assessment: %w", err)
		}
		assessments = append(assessments, a)
	}
	return assessments, nil
}
