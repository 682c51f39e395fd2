package model

import "fmt"

// Aspect is a property dimension that reviews get scored against.
type Aspect string

const (
	AspectCleanliness  Aspect = "cleanliness"
	AspectNoise        Aspect = "noise"
	AspectLocation     Aspect = "location"
	AspectHostBehavior Aspect = "host_behavior"
	AspectAmenities    Aspect = "amenities"
	AspectSafety       Aspect = "safety"
)

// Aspects returns every aspect in canonical order. All per-aspect
// iteration in the pipeline follows this order so output is stable.
func Aspects() []Aspect {
	return []Aspect{
		AspectCleanliness,
		AspectNoise,
		AspectLocation,
		AspectHostBehavior,
		AspectAmenities,
		AspectSafety,
	}
}

// ParseAspect maps a wire string to an Aspect.
func ParseAspect(s string) (Aspect, error) {
	for _, a := range Aspects() {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown aspect %q", s)
}

// TrendDirection describes how recent sentiment compares to historical.
type TrendDirection string

const (
	TrendImproving        TrendDirection = "improving"
	TrendStable           TrendDirection = "stable"
	TrendDeclining        TrendDirection = "declining"
	TrendInsufficientData TrendDirection = "insufficient_data"
)
