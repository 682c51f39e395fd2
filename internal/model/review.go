package model

import (
	"errors"
	"strings"
	"time"
)

// RawReview is a guest review as submitted, before any processing.
type RawReview struct {
	ReviewID  string    `json:"review_id" db:"review_id"`
	ListingID string    `json:"listing_id" db:"listing_id"`
	Text      string    `json:"text" db:"review_text"`
	Date      time.Time `json:"date" db:"review_date"`
	Rating    *float64  `json:"rating,omitempty" db:"rating"`
}

// Validate checks the fields that processing depends on.
func (r *RawReview) Validate() error {
	if strings.TrimSpace(r.ReviewID) == "" {
		return errors.New("review_id is required")
	}
	if strings.TrimSpace(r.ListingID) == "" {
		return errors.New("listing_id is required")
	}
	if strings.TrimSpace(r.Text) == "" {
		return errors.New("text is required")
	}
	if r.Date.IsZero() {
		return errors.New("date is required")
	}
	if r.Rating != nil && (*r.Rating < 1 || *r.Rating > 5) {
		return errors.New("rating must be between 1 and 5")
	}
	return nil
}

// AspectMention records one aspect being referenced inside a sentence.
type AspectMention struct {
	Aspect         Aspect   `json:"aspect"`
	SentenceIndex  int      `json:"sentence_index"`
	MatchedPhrases []string `json:"matched_phrases"`
	SentimentScore float64  `json:"sentiment_score"`
	Confidence     float64  `json:"confidence"`
	HasNegation    bool     `json:"has_negation"`
}

// ProcessedSentence is one normalized sentence with its aspect mentions.
type ProcessedSentence struct {
	ReviewID      string          `json:"review_id"`
	ListingID     string          `json:"listing_id"`
	SentenceIndex int             `json:"sentence_index"`
	RawText       string          `json:"raw_text"`
	CleanText     string          `json:"clean_text"`
	ReviewDate    time.Time       `json:"review_date"`
	Mentions      []AspectMention `json:"mentions"`
	Sentiment     float64         `json:"sentiment"`
}
