package service

import (
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"reviewintel/internal/model"
)

// RiskPipeline is the phase-two orchestrator: it turns one listing's
// intelligence into an explainable risk assessment.
type RiskPipeline struct {
	scorer         *RiskScorer
	contradictions *ContradictionDetector
	ratingLag      *RatingLagDetector
	actions        *ActionMapper
	logger         *zap.Logger
}

func NewRiskPipeline(logger *zap.Logger) *RiskPipeline {
	return &RiskPipeline{
		scorer:         NewRiskScorer(),
		contradictions: NewContradictionDetector(),
		ratingLag:      NewRatingLagDetector(),
		actions:        NewActionMapper(),
		logger:         logger,
	}
}

// Assess runs the full phase-two sequence: aspect risks, overall risk,
// contradiction checks, optional rating lag and action mapping.
func (rp *RiskPipeline) Assess(
	intelligence model.ListingIntelligence,
	actualRating *float64,
	assessmentTime time.Time,
) model.ListingRiskAssessment {
	aspectRisks, aspectDrivers := rp.scorer.ScoreAll(intelligence)
	overallRisk := rp.scorer.OverallRisk(aspectRisks)

	flags, contradictionDrivers := rp.contradictions.Detect(intelligence)
	allDrivers := append(aspectDrivers, contradictionDrivers...)

	metadata := map[string]any{
		"total_reviews":    intelligence.TotalReviews,
		"total_sentences":  intelligence.TotalSentences,
		"date_range_start": intelligence.DateRangeStart.Format(time.RFC3339),
		"date_range_end":   intelligence.DateRangeEnd.Format(time.RFC3339),
	}

	// Rating lag always runs: with no actual rating it cannot flag,
	// but the expected rating still lands in the metadata.
	ratingFlag, ratingDriver, ratingMeta := rp.ratingLag.Detect(intelligence, actualRating)
	for k, v := range ratingMeta {
		metadata[k] = v
	}
	if ratingFlag != nil {
		flags = append(flags, *ratingFlag)
	}
	if ratingDriver != nil {
		allDrivers = append(allDrivers, *ratingDriver)
	}

	action, overrideReasons := rp.actions.Map(overallRisk, aspectRisks, flags, intelligence)
	if len(overrideReasons) > 0 {
		metadata["action_overrides"] = overrideReasons
	}

	assessment := model.ListingRiskAssessment{
		ListingID:           intelligence.ListingID,
		AssessmentTimestamp: assessmentTime,
		OverallRiskScore:    overallRisk,
		RiskLevel:           model.ScoreToRiskLevel(overallRisk),
		RecommendedAction:   action,
		AspectRisks:         aspectRisks,
		Flags:               flags,
		RiskDrivers:         allDrivers,
		Metadata:            metadata,
	}

	rp.logger.Debug("listing assessed",
		zap.String("listing_id", intelligence.ListingID),
		zap.Float64("risk_score", overallRisk),
		zap.String("action", string(action)))

	return assessment
}

// AssessBatch assesses several listings with one shared timestamp.
func (rp *RiskPipeline) AssessBatch(
	intelligences map[string]model.ListingIntelligence,
	ratings map[string]float64,
	assessmentTime time.Time,
) map[string]model.ListingRiskAssessment {
	results := make(map[string]model.ListingRiskAssessment, len(intelligences))
	for listingID, intelligence := range intelligences {
		var rating *float64
		if r, ok := ratings[listingID]; ok {
			rating = &r
		}
		results[listingID] = rp.Assess(intelligence, rating, assessmentTime)
	}
	return results
}

// SortByRisk orders assessments highest risk first.
func SortByRisk(assessments map[string]model.ListingRiskAssessment) []model.ListingRiskAssessment {
	out := make([]model.ListingRiskAssessment, 0, len(assessments))
	for _, a := range assessments {
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].OverallRiskScore != out[j].OverallRiskScore {
			return out[i].OverallRiskScore > out[j].OverallRiskScore
		}
		return out[i].ListingID < out[j].ListingID
	})
	return out
}

// SortByActionPriority orders assessments most urgent action first,
// breaking ties by risk score.
func SortByActionPriority(assessments map[string]model.ListingRiskAssessment) []model.ListingRiskAssessment {
	out := make([]model.ListingRiskAssessment, 0, len(assessments))
	for _, a := range assessments {
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].RecommendedAction.Rank(), out[j].RecommendedAction.Rank()
		if pi != pj {
			return pi > pj
		}
		if out[i].OverallRiskScore != out[j].OverallRiskScore {
			return out[i].OverallRiskScore > out[j].OverallRiskScore
		}
		return out[i].ListingID < out[j].ListingID
	})
	return out
}

// UrgentListings returns the IDs that need immediate review.
func UrgentListings(assessments map[string]model.ListingRiskAssessment) []string {
	return listingsWithAction(assessments, model.ActionUrgent)
}

// FlaggedListings returns the IDs needing attention but not urgent.
func FlaggedListings(assessments map[string]model.ListingRiskAssessment) []string {
	return listingsWithAction(assessments, model.ActionFlag)
}

func listingsWithAction(assessments map[string]model.ListingRiskAssessment, action model.ActionType) []string {
	var ids []string
	for id, a := range assessments {
		if a.RecommendedAction == action {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// AssessmentSummary is a compact view of one assessment for list
// endpoints and dashboards.
type AssessmentSummary struct {
	ListingID       string            `json:"listing_id"`
	RiskScore       float64           `json:"risk_score"`
	Action          model.ActionType  `json:"action"`
	Flags           []model.FlagType  `json:"flags"`
	TopRisks        []TopAspectRisk   `json:"top_risks"`
	CriticalDrivers []string          `json:"critical_drivers"`
}

// TopAspectRisk is one entry of a summary's highest-risk list.
type TopAspectRisk struct {
	Aspect model.Aspect `json:"aspect"`
	Score  float64      `json:"score"`
}

// Summarize condenses an assessment to its risk score, flags, top
// three risky aspects and up to three high-severity drivers.
func Summarize(assessment model.ListingRiskAssessment) AssessmentSummary {
	top := HighestRiskAspects(assessment.AspectRisks, 3)
	topRisks := make([]TopAspectRisk, len(top))
	for i, r := range top {
		topRisks[i] = TopAspectRisk{Aspect: r.Aspect, Score: math.Round(r.RiskScore*10) / 10}
	}

	var critical []string
	for _, d := range assessment.RiskDrivers {
		if d.Severity == model.SeverityHigh {
			critical = append(critical, d.Description)
			if len(critical) == 3 {
				break
			}
		}
	}

	flags := assessment.Flags
	if flags == nil {
		flags = []model.FlagType{}
	}

	return AssessmentSummary{
		ListingID:       assessment.ListingID,
		RiskScore:       math.Round(assessment.OverallRiskScore*10) / 10,
		Action:          assessment.RecommendedAction,
		Flags:           flags,
		TopRisks:        topRisks,
		CriticalDrivers: critical,
	}
}
