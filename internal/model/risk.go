package model

import (
	"encoding/json"
	"time"
)

// RiskLevel is the categorical band a risk score falls into.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// ScoreToRiskLevel maps a 0-100 risk score to its band. Boundaries are
// inclusive on the upper edge: 30 is still low, 50 moderate, 70 high.
func ScoreToRiskLevel(score float64) RiskLevel {
	switch {
	case score <= 30:
		return RiskLow
	case score <= 50:
		return RiskModerate
	case score <= 70:
		return RiskHigh
	default:
		return RiskCritical
	}
}

// ActionType is the recommended operational response for a listing.
type ActionType string

const (
	ActionIgnore  ActionType = "ignore"
	ActionMonitor ActionType = "monitor"
	ActionFlag    ActionType = "flag"
	ActionUrgent  ActionType = "urgent"
)

var actionRanks = map[ActionType]int{
	ActionIgnore:  0,
	ActionMonitor: 1,
	ActionFlag:    2,
	ActionUrgent:  3,
}

var actionsByRank = []ActionType{ActionIgnore, ActionMonitor, ActionFlag, ActionUrgent}

// Rank returns the escalation position of the action, ignore lowest.
func (a ActionType) Rank() int {
	return actionRanks[a]
}

// Escalate moves the action up by steps, clamped at urgent.
func (a ActionType) Escalate(steps int) ActionType {
	rank := a.Rank() + steps
	if rank > len(actionsByRank)-1 {
		rank = len(actionsByRank) - 1
	}
	return actionsByRank[rank]
}

// Downgrade moves the action down by steps, clamped at ignore.
func (a ActionType) Downgrade(steps int) ActionType {
	rank := a.Rank() - steps
	if rank < 0 {
		rank = 0
	}
	return actionsByRank[rank]
}

// DriverSeverity grades an individual risk driver.
type DriverSeverity string

const (
	SeverityLow    DriverSeverity = "low"
	SeverityMedium DriverSeverity = "medium"
	SeverityHigh   DriverSeverity = "high"
)

// FlagType marks a special condition found during assessment.
type FlagType string

const (
	FlagHighVariance       FlagType = "high_variance"
	FlagPolarized          FlagType = "polarized"
	FlagDecliningTrend     FlagType = "declining_trend"
	FlagMultiAspectDecline FlagType = "multi_aspect_decline"
	FlagRatingLag          FlagType = "rating_lag"
	FlagLowConfidence      FlagType = "low_confidence"
	FlagSafetyConcern      FlagType = "safety_concern"
)

// RiskDriver explains one signal that contributed to a risk score.
// Aspect is nil for listing-level drivers.
type RiskDriver struct {
	Aspect      *Aspect        `json:"aspect"`
	DriverType  string         `json:"driver_type"`
	Severity    DriverSeverity `json:"severity"`
	Description string         `json:"description"`
	Value       *float64       `json:"value"`
}

func (d RiskDriver) MarshalJSON() ([]byte, error) {
	type alias RiskDriver
	out := alias(d)
	if d.Value != nil {
		v := round3(*d.Value)
		out.Value = &v
	}
	return json.Marshal(out)
}

// RiskContributions breaks an aspect risk score into its components.
type RiskContributions struct {
	Sentiment float64 `json:"sentiment"`
	Variance  float64 `json:"variance"`
	Trend     float64 `json:"trend"`
}

func (c RiskContributions) MarshalJSON() ([]byte, error) {
	type alias RiskContributions
	out := alias(c)
	out.Sentiment = round1(c.Sentiment)
	out.Variance = round1(c.Variance)
	out.Trend = round1(c.Trend)
	return json.Marshal(out)
}

// AspectRisk is the risk assessment of a single aspect.
type AspectRisk struct {
	Aspect        Aspect            `json:"aspect"`
	RiskScore     float64           `json:"risk_score"`
	RiskLevel     RiskLevel         `json:"risk_level"`
	Drivers       []string          `json:"drivers"`
	Contributions RiskContributions `json:"contributions"`
}

func (r AspectRisk) MarshalJSON() ([]byte, error) {
	type alias AspectRisk
	out := alias(r)
	out.RiskScore = round1(r.RiskScore)
	if out.Drivers == nil {
		out.Drivers = []string{}
	}
	return json.Marshal(out)
}

// ListingRiskAssessment is the phase-two output for one listing.
type ListingRiskAssessment struct {
	ListingID           string                `json:"listing_id"`
	AssessmentTimestamp time.Time             `json:"assessment_timestamp"`
	OverallRiskScore    float64               `json:"overall_risk_score"`
	RiskLevel           RiskLevel             `json:"risk_level"`
	RecommendedAction   ActionType            `json:"recommended_action"`
	AspectRisks         map[Aspect]AspectRisk `json:"aspect_risks"`
	Flags               []FlagType            `json:"flags"`
	RiskDrivers         []RiskDriver          `json:"risk_drivers"`
	Metadata            map[string]any        `json:"metadata"`
}

func (a ListingRiskAssessment) MarshalJSON() ([]byte, error) {
	type alias ListingRiskAssessment
	out := alias(a)
	out.OverallRiskScore = round1(a.OverallRiskScore)
	if out.Flags == nil {
		out.Flags = []FlagType{}
	}
	if out.RiskDrivers == nil {
		out.RiskDrivers = []RiskDriver{}
	}
	if out.Metadata == nil {
		out.Metadata = map[string]any{}
	}
	return json.Marshal(out)
}
