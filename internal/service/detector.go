package service

import (
	"regexp"
	"strings"

	"reviewintel/internal/model"
	"reviewintel/internal/textutil"
)

var detectorCleanRe = regexp.MustCompile(`[^\w]`)

// AspectDetector finds which aspects a processed sentence talks about
// using the keyword lexicons.
type AspectDetector struct{}

func NewAspectDetector() *AspectDetector {
	return &AspectDetector{}
}

type phraseMatch struct {
	phrase string
	weight float64
	start  int
	end    int
}

type keywordMatch struct {
	keyword  string
	weight   float64
	position int
}

// Detect returns one mention per aspect referenced in the sentence, in
// canonical aspect order. Sentiment scores are zero; the sentiment
// stage fills them in.
func (d *AspectDetector) Detect(sentence string) []model.AspectMention {
	var results []model.AspectMention

	for _, aspect := range model.Aspects() {
		var matched []string
		totalWeight := 0.0
		hasNegation := false

		phrases := d.findPhraseMatches(sentence, aspect)
		for _, m := range phrases {
			matched = append(matched, m.phrase)
			totalWeight += m.weight
		}

		for _, m := range d.findKeywordMatches(sentence, aspect) {
			if d.excludedByContext(sentence, aspect, m.position) {
				continue
			}
			if coveredByPhrase(m.keyword, phrases) {
				continue
			}
			matched = append(matched, m.keyword)
			totalWeight += m.weight
			if keywordNegated(sentence, m.keyword) {
				hasNegation = true
			}
		}

		if len(matched) > 0 {
			results = append(results, model.AspectMention{
				Aspect:         aspect,
				MatchedPhrases: matched,
				Confidence:     min1(totalWeight / 2.0),
				HasNegation:    hasNegation,
			})
		}
	}

	return results
}

// DetectBatch runs Detect over a sentence list.
func (d *AspectDetector) DetectBatch(sentences []string) [][]model.AspectMention {
	out := make([][]model.AspectMention, len(sentences))
	for i, s := range sentences {
		out[i] = d.Detect(s)
	}
	return out
}

func (d *AspectDetector) findPhraseMatches(sentence string, aspect model.Aspect) []phraseMatch {
	var matches []phraseMatch
	lower := strings.ToLower(sentence)

	for _, wp := range multiWordPhrases[aspect] {
		start := 0
		for {
			pos := strings.Index(lower[start:], wp.phrase)
			if pos == -1 {
				break
			}
			pos += start
			matches = append(matches, phraseMatch{wp.phrase, wp.weight, pos, pos + len(wp.phrase)})
			start = pos + 1
		}
	}
	return matches
}

func (d *AspectDetector) findKeywordMatches(sentence string, aspect model.Aspect) []keywordMatch {
	lexicon := aspectLexicons[aspect]
	var matches []keywordMatch

	for i, word := range strings.Fields(sentence) {
		clean := strings.ToLower(detectorCleanRe.ReplaceAllString(textutil.StripNegationMarker(word), ""))
		if weight, ok := lexicon[clean]; ok {
			matches = append(matches, keywordMatch{clean, weight, i})
		}
	}
	return matches
}

// excludedByContext checks three words either side of the match for an
// exclusion word.
func (d *AspectDetector) excludedByContext(sentence string, aspect model.Aspect, position int) bool {
	exclusions, ok := exclusionContexts[aspect]
	if !ok {
		return false
	}

	words := strings.Fields(strings.ToLower(sentence))
	start := position - 3
	if start < 0 {
		start = 0
	}
	end := position + 4
	if end > len(words) {
		end = len(words)
	}

	for i := start; i < end; i++ {
		clean := detectorCleanRe.ReplaceAllString(words[i], "")
		if exclusions[clean] {
			return true
		}
	}
	return false
}

func coveredByPhrase(keyword string, phrases []phraseMatch) bool {
	for _, p := range phrases {
		if strings.Contains(p.phrase, keyword) {
			return true
		}
	}
	return false
}

func keywordNegated(sentence, keyword string) bool {
	pattern := `(?i)\b` + regexp.QuoteMeta(keyword) + textutil.NegationMarker + `\b`
	matched, err := regexp.MatchString(pattern, sentence)
	return err == nil && matched
}

func min1(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}
