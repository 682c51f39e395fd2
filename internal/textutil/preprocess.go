package textutil

import (
	"regexp"
	"sort"
	"strings"
)

// NegationMarker is appended to words inside a negation scope so the
// sentiment stage can flip their polarity.
const NegationMarker = "_NEG"

// NegationScope is how many following words a trigger negates.
const NegationScope = 3

// contractions maps contracted forms to expansions. Expansion happens
// before negation marking so "wasn't" becomes "was not" and the "not"
// can open a negation scope.
var contractions = []struct {
	from string
	to   string
}{
	{"n't", " not"},
	{"wasn't", "was not"},
	{"weren't", "were not"},
	{"isn't", "is not"},
	{"aren't", "are not"},
	{"don't", "do not"},
	{"doesn't", "does not"},
	{"didn't", "did not"},
	{"won't", "will not"},
	{"wouldn't", "would not"},
	{"couldn't", "could not"},
	{"shouldn't", "should not"},
	{"haven't", "have not"},
	{"hasn't", "has not"},
	{"hadn't", "had not"},
	{"can't", "cannot"},
	{"cannot", "can not"},
	{"'m", " am"},
	{"'re", " are"},
	{"'s", " is"},
	{"'ll", " will"},
	{"'ve", " have"},
	{"'d", " would"},
	{"gonna", "going to"},
	{"wanna", "want to"},
	{"gotta", "got to"},
}

var negationTriggers = map[string]bool{
	"not": true, "no": true, "never": true, "neither": true,
	"nobody": true, "nothing": true, "nowhere": true,
	"hardly": true, "barely": true, "scarcely": true,
	"seldom": true, "rarely": true,
	"without": true, "lack": true, "lacking": true,
	"lacks": true, "lacked": true,
	"except": true, "but": true,
}

var negationTerminators = map[string]bool{
	"but": true, "however": true, "although": true,
	"though": true, "yet": true, "still": true,
}

// abbreviations whose trailing period must not end a sentence.
var abbreviations = []string{
	"mr", "mrs", "ms", "dr", "prof", "sr", "jr", "vs", "etc", "inc", "ltd",
	"e.g", "i.e", "a.m", "p.m", "no", "nos", "approx", "apt", "dept",
	"est", "min", "max", "misc", "cont", "fig", "vol", "ref",
}

var (
	whitespaceRe    = regexp.MustCompile(`\s+`)
	urlRe           = regexp.MustCompile(`http\S+|www\.\S+`)
	emailRe         = regexp.MustCompile(`\S+@\S+`)
	repeatedPunctRe = regexp.MustCompile(`([!?.]){2,}`)
	specialCharRe   = regexp.MustCompile(`[^\w\s.,!?;:'-]`)
	decimalDotRe    = regexp.MustCompile(`(\d)\.(\d)`)
	nonWordRe       = regexp.MustCompile(`[^\w]`)
	punctStripRe    = regexp.MustCompile(`[^\w_]`)

	sortedContractions = sortContractions()
	abbrevRes          = compileAbbrevs()
	fullWordRes        = compileFullWords()
)

const dotPlaceholder = "<<<DOT>>>"

func sortContractions() []struct{ from, to string } {
	out := make([]struct{ from, to string }, len(contractions))
	copy(out, contractions)
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].from) > len(out[j].from)
	})
	return out
}

func compileAbbrevs() []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(abbreviations))
	for i, a := range abbreviations {
		res[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(a) + `\.`)
	}
	return res
}

func compileFullWords() map[string]*regexp.Regexp {
	res := make(map[string]*regexp.Regexp)
	for _, c := range contractions {
		if !strings.HasPrefix(c.from, "'") {
			res[c.from] = regexp.MustCompile(`\b` + regexp.QuoteMeta(c.from) + `\b`)
		}
	}
	return res
}

// Preprocessed holds review text in its original and processed forms.
type Preprocessed struct {
	Original  string
	Processed string
	Sentences []string
}

// CleanText normalizes whitespace and quotes, strips URLs, email
// addresses, emoji and repeated terminal punctuation.
func CleanText(text string) string {
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = urlRe.ReplaceAllString(text, "")
	text = emailRe.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "“", `"`)
	text = strings.ReplaceAll(text, "”", `"`)
	text = strings.ReplaceAll(text, "‘", "'")
	text = strings.ReplaceAll(text, "’", "'")
	text = repeatedPunctRe.ReplaceAllString(text, "$1")
	text = specialCharRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// SplitSentences breaks cleaned text into sentences. Abbreviation and
// decimal periods are shielded with a placeholder first, then the text
// splits after terminal punctuation followed by whitespace. Fragments
// of two characters or fewer are dropped.
func SplitSentences(text string) []string {
	protected := text
	for i, re := range abbrevRes {
		upper := strings.ToUpper(abbreviations[i])
		protected = re.ReplaceAllString(protected, upper+dotPlaceholder)
	}
	protected = decimalDotRe.ReplaceAllString(protected, "$1"+dotPlaceholder+"$2")

	var sentences []string
	start := 0
	runes := []rune(protected)
	for i := 0; i < len(runes); i++ {
		if !isTerminal(runes[i]) {
			continue
		}
		// Consume a run of terminal punctuation.
		end := i
		for end+1 < len(runes) && isTerminal(runes[end+1]) {
			end++
		}
		if end+1 < len(runes) && isSpace(runes[end+1]) {
			sentences = append(sentences, string(runes[start:end+1]))
			i = end + 1
			for i < len(runes) && isSpace(runes[i]) {
				i++
			}
			start = i
			i--
		} else {
			i = end
		}
	}
	if start < len(runes) {
		sentences = append(sentences, string(runes[start:]))
	}

	var result []string
	for _, s := range sentences {
		s = strings.TrimSpace(strings.ReplaceAll(s, dotPlaceholder, "."))
		if len(s) > 2 {
			result = append(result, s)
		}
	}
	return result
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// ExpandContractions lowercases text and rewrites contracted forms,
// longest first so overlapping patterns resolve consistently.
func ExpandContractions(text string) string {
	result := strings.ToLower(text)
	for _, c := range sortedContractions {
		if strings.HasPrefix(c.from, "'") {
			result = strings.ReplaceAll(result, c.from, c.to)
		} else {
			result = fullWordRes[c.from].ReplaceAllString(result, c.to)
		}
	}
	return result
}

// MarkNegations appends the negation marker to up to NegationScope
// words after each trigger. Scope ends early at terminator words or
// terminal punctuation. Words of two characters or fewer stay
// unmarked, and punctuation attached to a word stays outside the
// marker.
func MarkNegations(text string) string {
	words := strings.Fields(text)
	result := make([]string, 0, len(words))
	remaining := 0

	for _, word := range words {
		clean := nonWordRe.ReplaceAllString(strings.ToLower(word), "")

		if negationTerminators[clean] || strings.ContainsAny(word, ".!?") {
			remaining = 0
		}

		if negationTriggers[clean] {
			result = append(result, word)
			remaining = NegationScope
			continue
		}

		if remaining > 0 {
			if len(clean) > 2 {
				last := word[len(word)-1]
				if strings.ContainsRune(".,!?;:", rune(last)) {
					word = word[:len(word)-1] + NegationMarker + string(last)
				} else {
					word = word + NegationMarker
				}
			}
			remaining--
		}

		result = append(result, word)
	}

	return strings.Join(result, " ")
}

// PreprocessReview runs the full pipeline: clean, split, expand
// contractions and mark negations per sentence.
func PreprocessReview(text string) Preprocessed {
	cleaned := CleanText(text)
	sentences := SplitSentences(cleaned)

	processed := make([]string, 0, len(sentences))
	for _, s := range sentences {
		processed = append(processed, MarkNegations(ExpandContractions(s)))
	}

	return Preprocessed{
		Original:  text,
		Processed: strings.Join(processed, " "),
		Sentences: processed,
	}
}

// HasNegationMarker reports whether the word carries the marker.
func HasNegationMarker(word string) bool {
	return strings.Contains(word, NegationMarker)
}

// StripNegationMarker removes the marker wherever it appears.
func StripNegationMarker(word string) string {
	return strings.ReplaceAll(word, NegationMarker, "")
}

// NegationAwareWord is one token with its negation state resolved.
type NegationAwareWord struct {
	Word    string
	Negated bool
}

// NegationAwareWords tokenizes processed text into lowercased words
// with punctuation stripped and markers folded into a flag.
func NegationAwareWords(text string) []NegationAwareWord {
	words := strings.Fields(text)
	result := make([]NegationAwareWord, 0, len(words))
	for _, word := range words {
		clean := punctStripRe.ReplaceAllString(word, "")
		negated := HasNegationMarker(clean)
		base := strings.ToLower(StripNegationMarker(clean))
		if base != "" {
			result = append(result, NegationAwareWord{Word: base, Negated: negated})
		}
	}
	return result
}
