package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewintel/internal/model"
)

func findMention(mentions []model.AspectMention, aspect model.Aspect) *model.AspectMention {
	for i := range mentions {
		if mentions[i].Aspect == aspect {
			return &mentions[i]
		}
	}
	return nil
}

func TestDetect_SingleAspect(t *testing.T) {
	d := NewAspectDetector()

	mentions := d.Detect("the apartment was spotless and clean")

	require.Len(t, mentions, 1)
	m := mentions[0]
	assert.Equal(t, model.AspectCleanliness, m.Aspect)
	assert.Equal(t, []string{"spotless", "clean"}, m.MatchedPhrases)
	assert.InDelta(t, 0.9, m.Confidence, 1e-9) // (1.0 + 0.8) / 2
	assert.False(t, m.HasNegation)
}

func TestDetect_MultipleAspects(t *testing.T) {
	d := NewAspectDetector()

	mentions := d.Detect("great location and the host was friendly")

	require.Len(t, mentions, 2)
	// Results come back in canonical aspect order.
	assert.Equal(t, model.AspectLocation, mentions[0].Aspect)
	assert.Equal(t, model.AspectHostBehavior, mentions[1].Aspect)
	assert.Equal(t, []string{"host", "friendly"}, mentions[1].MatchedPhrases)
}

func TestDetect_NegationMarker(t *testing.T) {
	d := NewAspectDetector()

	mentions := d.Detect("the room was not clean_NEG at all")

	m := findMention(mentions, model.AspectCleanliness)
	require.NotNil(t, m)
	assert.Equal(t, []string{"clean"}, m.MatchedPhrases)
	assert.True(t, m.HasNegation)
}

func TestDetect_MultiWordPhrase(t *testing.T) {
	d := NewAspectDetector()

	mentions := d.Detect("great location within walking distance of the metro")

	m := findMention(mentions, model.AspectLocation)
	require.NotNil(t, m)
	// The phrase absorbs its component keywords.
	assert.Equal(t, []string{"walking distance", "location", "metro"}, m.MatchedPhrases)
	assert.NotContains(t, m.MatchedPhrases, "walking")
	assert.NotContains(t, m.MatchedPhrases, "distance")
	assert.InDelta(t, 1.0, m.Confidence, 1e-9)
}

func TestDetect_ExclusionContext(t *testing.T) {
	d := NewAspectDetector()

	tests := []struct {
		name     string
		sentence string
		excluded model.Aspect
	}{
		{
			name:     "bathroom suppresses location",
			sentence: "the location of the bathroom was strange",
			excluded: model.AspectLocation,
		},
		{
			name:     "make suppresses noise",
			sentence: "please do not make noise after ten",
			excluded: model.AspectNoise,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mentions := d.Detect(tt.sentence)
			assert.Nil(t, findMention(mentions, tt.excluded))
		})
	}
}

func TestDetect_ConfidenceCapped(t *testing.T) {
	d := NewAspectDetector()

	// Three strong keywords push the raw weight past 2.0.
	mentions := d.Detect("filthy dirty disgusting mess everywhere")

	m := findMention(mentions, model.AspectCleanliness)
	require.NotNil(t, m)
	assert.Equal(t, 1.0, m.Confidence)
}

func TestDetect_NoAspects(t *testing.T) {
	d := NewAspectDetector()
	assert.Empty(t, d.Detect("we arrived on tuesday"))
}

func TestDetectBatch(t *testing.T) {
	d := NewAspectDetector()

	results := d.DetectBatch([]string{
		"the place was clean",
		"nothing relevant here",
	})

	require.Len(t, results, 2)
	assert.Len(t, results[0], 1)
	assert.Empty(t, results[1])
}
