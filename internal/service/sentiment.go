package service

import (
	"regexp"
	"strings"

	"reviewintel/internal/model"
)

const (
	// negationFlipFactor softens rather than fully inverts sentiment,
	// since "not great" is weaker than "terrible".
	negationFlipFactor = -0.8

	// sentimentContextWindow is the token distance from an aspect
	// keyword within which sentiment words count.
	sentimentContextWindow = 5
)

var modifierCleanRe = regexp.MustCompile(`[^\w\s]`)

// SentimentScorer assigns lexicon-based sentiment to sentences and to
// individual aspect mentions.
type SentimentScorer struct{}

func NewSentimentScorer() *SentimentScorer {
	return &SentimentScorer{}
}

// WordScore is one lexicon hit inside a sentence, kept for
// explainability output.
type WordScore struct {
	Word  string  `json:"word"`
	Score float64 `json:"score"`
}

func wordSentiment(word string) (float64, bool) {
	clean := strings.ReplaceAll(strings.ToLower(word), "_neg", "")
	clean = detectorCleanRe.ReplaceAllString(clean, "")
	score, ok := sentimentLexicon[clean]
	return score, ok
}

func isNegated(word string) bool {
	return strings.Contains(word, "_NEG") || strings.Contains(word, "_neg")
}

// intensityModifier returns the multiplier from a modifier word in the
// one or two positions before the target, or 1.0 when none applies.
func intensityModifier(words []string, position int) float64 {
	if position <= 0 {
		return 1.0
	}

	for _, offset := range []int{1, 2} {
		if position-offset < 0 {
			continue
		}
		prev := modifierCleanRe.ReplaceAllString(strings.ToLower(words[position-offset]), "")
		if m, ok := intensityModifiers[prev]; ok {
			return m
		}
		if offset == 1 && position-2 >= 0 {
			twoWord := strings.ToLower(words[position-2] + " " + prev)
			if m, ok := intensityModifiers[twoWord]; ok {
				return m
			}
		}
	}
	return 1.0
}

// ScoreSentence computes the plain average sentiment of a sentence and
// returns the per-word hits behind it.
func (s *SentimentScorer) ScoreSentence(sentence string) (float64, []WordScore) {
	words := strings.Fields(sentence)
	var hits []WordScore

	for i, word := range words {
		base, ok := wordSentiment(word)
		if !ok {
			continue
		}
		score := base * intensityModifier(words, i)
		if isNegated(word) {
			score *= negationFlipFactor
		}
		score = clamp(score, -1, 1)
		clean := detectorCleanRe.ReplaceAllString(strings.ReplaceAll(word, "_NEG", ""), "")
		hits = append(hits, WordScore{Word: clean, Score: score})
	}

	if len(hits) == 0 {
		return 0, nil
	}
	total := 0.0
	for _, h := range hits {
		total += h.Score
	}
	return total / float64(len(hits)), hits
}

// ScoreAspect fills in the sentiment for one aspect mention. Sentiment
// words are gathered within the context window of the mention's
// keyword positions and weighted by proximity. When no keyword
// position resolves, the whole-sentence average is used; when no
// sentiment word sits near a keyword, the keyword's own lexicon
// sentiment stands in.
func (s *SentimentScorer) ScoreAspect(sentence string, mention model.AspectMention) model.AspectMention {
	words := strings.Fields(strings.ToLower(sentence))

	var keywordPositions []int
	for _, keyword := range mention.MatchedPhrases {
		kw := strings.ToLower(keyword)
		for i, word := range words {
			clean := detectorCleanRe.ReplaceAllString(strings.ReplaceAll(word, "_neg", ""), "")
			if clean == "" {
				continue
			}
			if strings.Contains(clean, kw) || strings.Contains(kw, clean) {
				keywordPositions = append(keywordPositions, i)
			}
		}
	}

	if len(keywordPositions) == 0 {
		overall, _ := s.ScoreSentence(sentence)
		mention.SentimentScore = overall
		return mention
	}

	var weightedSum, totalWeight float64
	scored := false

	for i, word := range words {
		base, ok := wordSentiment(word)
		if !ok {
			continue
		}

		minDist := -1
		for _, pos := range keywordPositions {
			d := i - pos
			if d < 0 {
				d = -d
			}
			if minDist < 0 || d < minDist {
				minDist = d
			}
		}
		if minDist > sentimentContextWindow {
			continue
		}

		distanceWeight := 1.0 / (1.0 + float64(minDist)*0.3)
		score := base * intensityModifier(words, i)
		if isNegated(word) {
			score *= negationFlipFactor
		}

		weightedSum += score * distanceWeight
		totalWeight += distanceWeight
		scored = true
	}

	final := 0.0
	if scored && totalWeight > 0 {
		final = weightedSum / totalWeight
	} else {
		// The keyword itself may carry sentiment ("clean" is both).
		for _, keyword := range mention.MatchedPhrases {
			if ks, ok := wordSentiment(keyword); ok {
				final = ks
				break
			}
		}
	}

	if mention.HasNegation {
		final *= negationFlipFactor
	}

	mention.SentimentScore = clamp(final, -1, 1)
	return mention
}

// ScoreAspects runs ScoreAspect over every mention of a sentence.
func (s *SentimentScorer) ScoreAspects(sentence string, mentions []model.AspectMention) []model.AspectMention {
	out := make([]model.AspectMention, len(mentions))
	for i, m := range mentions {
		out[i] = s.ScoreAspect(sentence, m)
	}
	return out
}

// SentimentCategory buckets a score into a coarse label.
func SentimentCategory(score float64) string {
	switch {
	case score < -0.6:
		return "very_negative"
	case score < -0.2:
		return "negative"
	case score < 0.2:
		return "neutral"
	case score < 0.6:
		return "positive"
	default:
		return "very_positive"
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
