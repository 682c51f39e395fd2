// Command seed creates the database schema and optionally fills it
// with synthetic review data for development.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"reviewintel/internal/config"
	"reviewintel/internal/repository"
	"reviewintel/internal/synthetic"
)

const schema = `
CREATE TABLE IF NOT EXISTS reviews (
    review_id   TEXT PRIMARY KEY,
    listing_id  TEXT NOT NULL,
    review_text TEXT NOT NULL,
    review_date TIMESTAMPTZ NOT NULL,
    rating      DOUBLE PRECISION,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_reviews_listing ON reviews (listing_id, review_date);

CREATE TABLE IF NOT EXISTS listing_ratings (
    listing_id TEXT PRIMARY KEY,
    rating     DOUBLE PRECISION NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS intelligence_snapshots (
    id                 BIGSERIAL PRIMARY KEY,
    listing_id         TEXT NOT NULL,
    analysis_timestamp TIMESTAMPTZ NOT NULL,
    payload            JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_listing ON intelligence_snapshots (listing_id, analysis_timestamp DESC);

CREATE TABLE IF NOT EXISTS assessment_log (
    id                 BIGSERIAL PRIMARY KEY,
    listing_id         TEXT NOT NULL,
    assessed_at        TIMESTAMPTZ NOT NULL,
    risk_score         DOUBLE PRECISION NOT NULL,
    risk_level         TEXT NOT NULL,
    recommended_action TEXT NOT NULL,
    payload            JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_assessment_listing ON assessment_log (listing_id, assessed_at DESC);
`

func main() {
	var (
		listings       = flag.Int("listings", 10, "number of synthetic listings to generate")
		reviewsPerList = flag.Int("reviews", 20, "approximate reviews per listing")
		seed           = flag.Int64("seed", 42, "random seed for reproducible data")
		schemaOnly     = flag.Bool("schema-only", false, "create tables without inserting data")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.GetPostgreSQLDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}
	log.Println("✅ Schema created")

	if *schemaOnly {
		return
	}

	repo, err := repository.NewPostgresRepository(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		log.Fatalf("Failed to connect repository: %v", err)
	}
	defer repo.Close()

	gen := synthetic.NewGenerator(*seed)
	reviews := gen.Dataset(*listings, *reviewsPerList, time.Now().UTC())

	ctx := context.Background()
	inserted, errs := repo.InsertReviews(ctx, reviews)
	for _, e := range errs {
		log.Printf("⚠️  %s", e)
	}
	log.Printf("✅ Inserted %d of %d synthetic reviews across %d listings", inserted, len(reviews), *listings)
}
