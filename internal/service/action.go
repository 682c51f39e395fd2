package service

import (
	"fmt"
	"strings"

	"reviewintel/internal/model"
)

const (
	// safetyUrgentThreshold forces URGENT when safety risk exceeds it.
	safetyUrgentThreshold = 60

	// minReviewsForAction is the review count below which severe
	// actions get softened.
	minReviewsForAction = 3
)

// upgradingFlags map a flag to how many levels it escalates the action.
var upgradingFlags = []struct {
	flag   model.FlagType
	levels int
}{
	{model.FlagSafetyConcern, 2},
	{model.FlagMultiAspectDecline, 1},
	{model.FlagPolarized, 1},
}

// ActionMapper converts a risk assessment into a recommended action,
// applying override rules in a fixed order so critical issues are
// never missed.
type ActionMapper struct{}

func NewActionMapper() *ActionMapper {
	return &ActionMapper{}
}

// ScoreToAction maps an overall risk score to its base action.
func ScoreToAction(score float64) model.ActionType {
	switch {
	case score <= 30:
		return model.ActionIgnore
	case score <= 50:
		return model.ActionMonitor
	case score <= 70:
		return model.ActionFlag
	default:
		return model.ActionUrgent
	}
}

func (m *ActionMapper) applySafetyOverride(risks map[model.Aspect]model.AspectRisk, action model.ActionType) (model.ActionType, []string) {
	safety, ok := risks[model.AspectSafety]
	if ok && safety.RiskScore > safetyUrgentThreshold && action != model.ActionUrgent {
		return model.ActionUrgent, []string{
			fmt.Sprintf("Safety risk (%.0f) exceeds threshold", safety.RiskScore),
		}
	}
	return action, nil
}

func (m *ActionMapper) applyFlagOverrides(flags []model.FlagType, action model.ActionType) (model.ActionType, []string) {
	var reasons []string
	for _, uf := range upgradingFlags {
		if !containsFlag(flags, uf.flag) {
			continue
		}
		next := action.Escalate(uf.levels)
		if next != action {
			reasons = append(reasons, string(uf.flag)+" flag triggered upgrade")
			action = next
		}
	}
	return action, reasons
}

func (m *ActionMapper) applyConfidenceDiscount(li model.ListingIntelligence, action model.ActionType) (model.ActionType, []string) {
	if li.TotalReviews < minReviewsForAction &&
		(action == model.ActionFlag || action == model.ActionUrgent) {
		return action.Downgrade(1), []string{
			fmt.Sprintf("Low confidence (%d reviews)", li.TotalReviews),
		}
	}
	return action, nil
}

// Map derives the final action: base mapping from the score, then
// safety override, flag-driven upgrades and the low-data discount, in
// that order. The returned reasons record every override applied.
func (m *ActionMapper) Map(
	overallRiskScore float64,
	risks map[model.Aspect]model.AspectRisk,
	flags []model.FlagType,
	li model.ListingIntelligence,
) (model.ActionType, []string) {
	action := ScoreToAction(overallRiskScore)
	var overrideReasons []string

	action, reasons := m.applySafetyOverride(risks, action)
	overrideReasons = append(overrideReasons, reasons...)

	action, reasons = m.applyFlagOverrides(flags, action)
	overrideReasons = append(overrideReasons, reasons...)

	action, reasons = m.applyConfidenceDiscount(li, action)
	overrideReasons = append(overrideReasons, reasons...)

	return action, overrideReasons
}

// ExplainAction renders a one-line human explanation of the decision.
func ExplainAction(action model.ActionType, riskScore float64, flags []model.FlagType, overrideReasons []string) string {
	explanations := map[model.ActionType]string{
		model.ActionIgnore:  "No action needed. Listing is performing well.",
		model.ActionMonitor: "Monitor for changes. Some areas could improve.",
		model.ActionFlag:    "Attention needed. Significant issues detected.",
		model.ActionUrgent:  "Immediate review required. Critical issues present.",
	}

	details := []string{fmt.Sprintf("Risk score: %.0f/100", riskScore)}
	if len(flags) > 0 {
		names := make([]string, len(flags))
		for i, f := range flags {
			names[i] = string(f)
		}
		details = append(details, "Flags: "+strings.Join(names, ", "))
	}
	if len(overrideReasons) > 0 {
		details = append(details, "Overrides: "+strings.Join(overrideReasons, "; "))
	}

	return fmt.Sprintf("%s (%s)", explanations[action], strings.Join(details, "; "))
}

func containsFlag(flags []model.FlagType, target model.FlagType) bool {
	for _, f := range flags {
		if f == target {
			return true
		}
	}
	return false
}
