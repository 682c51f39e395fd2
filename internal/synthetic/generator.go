// Package synthetic generates review datasets with known sentiment
// patterns, used for seeding development databases and exercising the
// pipeline end to end.
package synthetic

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"reviewintel/internal/model"
)

// Quality labels control the sentiment mix of a generated listing.
const (
	QualityExcellent = "excellent"
	QualityGood      = "good"
	QualityAverage   = "average"
	QualityPoor      = "poor"
	QualityMixed     = "mixed"
)

var positivePhrases = map[model.Aspect][]string{
	model.AspectCleanliness: {
		"The apartment was spotless and very clean.",
		"Everything was immaculate, clearly freshly cleaned.",
		"Super tidy place, the bathroom was pristine.",
		"Really clean space, no dust anywhere.",
		"The cleanliness was exceptional, truly spotless.",
	},
	model.AspectNoise: {
		"Very quiet neighborhood, slept like a baby.",
		"Peaceful and silent, no traffic noise at all.",
		"The place was so quiet and relaxing.",
		"Loved how peaceful the area was.",
		"Incredibly quiet, you wouldn't know you're in the city.",
	},
	model.AspectLocation: {
		"Perfect location, walking distance to everything.",
		"The location was amazing, very central.",
		"Great neighborhood with easy access to public transport.",
		"Excellent location near restaurants and shops.",
		"Conveniently located close to the metro station.",
	},
	model.AspectHostBehavior: {
		"The host was extremely responsive and helpful.",
		"Amazing host, great communication throughout.",
		"Very welcoming host, made check-in super easy.",
		"The host was incredibly friendly and accommodating.",
		"Quick responses from the host, very professional.",
	},
	model.AspectAmenities: {
		"Well equipped kitchen with everything you need.",
		"Great amenities, fast wifi and comfortable bed.",
		"Loved the fully stocked kitchen and modern appliances.",
		"Excellent amenities including parking and washer.",
		"The apartment had great facilities, AC worked perfectly.",
	},
	model.AspectSafety: {
		"Felt very safe in this neighborhood.",
		"Secure building with good locks.",
		"The area felt safe even at night.",
		"Very secure apartment, felt comfortable.",
		"Safe neighborhood, no concerns at all.",
	},
}

var negativePhrases = map[model.Aspect][]string{
	model.AspectCleanliness: {
		"The place was dirty and had dust everywhere.",
		"Not clean at all, found stains on the sheets.",
		"The bathroom was disgusting and moldy.",
		"Really messy, clearly not cleaned before arrival.",
		"Disappointing cleanliness, the kitchen was filthy.",
	},
	model.AspectNoise: {
		"Very noisy, couldn't sleep because of traffic.",
		"The neighbors were loud all night.",
		"Not quiet at all, constant noise from the street.",
		"Terrible noise levels, bring earplugs!",
		"The walls are thin, could hear everything.",
	},
	model.AspectLocation: {
		"Bad location, far from everything.",
		"The neighborhood felt sketchy.",
		"Inconvenient location, no public transport nearby.",
		"Remote area, had to take taxis everywhere.",
		"Not a great area, wouldn't walk around at night.",
	},
	model.AspectHostBehavior: {
		"The host was unresponsive and unhelpful.",
		"Poor communication, never replied to messages.",
		"The host was rude and unwelcoming.",
		"Check-in was a nightmare, host wasn't available.",
		"Very unfriendly host, felt unwelcome.",
	},
	model.AspectAmenities: {
		"The wifi was broken and never fixed.",
		"Lacking basic amenities, no hot water.",
		"The bed was so uncomfortable, couldn't sleep.",
		"Kitchen was poorly equipped, missing utensils.",
		"AC didn't work, apartment was unbearably hot.",
	},
	model.AspectSafety: {
		"Didn't feel safe in this area.",
		"The locks on the door were broken.",
		"Sketchy neighborhood, wouldn't recommend.",
		"Felt unsafe walking around at night.",
		"Security concerns, the building wasn't secure.",
	},
}

var neutralPhrases = map[model.Aspect][]string{
	model.AspectCleanliness: {
		"The place was okay, could have been cleaner.",
		"It was clean enough, nothing special.",
		"Cleanliness was acceptable but not great.",
	},
	model.AspectNoise: {
		"Some noise from the street but manageable.",
		"It was quiet most of the time.",
		"Average noise levels for a city apartment.",
	},
	model.AspectLocation: {
		"The location was convenient enough.",
		"Decent location, a bit far from the center.",
		"Location was fine, nothing remarkable.",
	},
	model.AspectHostBehavior: {
		"The host was okay, nothing exceptional.",
		"Communication was adequate.",
		"Host was fine, responded eventually.",
	},
	model.AspectAmenities: {
		"Basic amenities, had what we needed.",
		"The apartment had the essentials.",
		"Amenities were standard, nothing fancy.",
	},
	model.AspectSafety: {
		"The area seemed safe enough.",
		"No safety issues but nothing special.",
		"Felt okay about safety.",
	},
}

var genericPositive = []string{
	"Would definitely recommend!",
	"Great experience overall.",
	"Will definitely come back.",
	"Exceeded our expectations.",
	"Had a wonderful stay.",
	"Perfect for our trip.",
}

var genericNegative = []string{
	"Would not recommend.",
	"Disappointing overall.",
	"Not worth the price.",
	"Expected much better.",
	"Left feeling unsatisfied.",
	"Won't be returning.",
}

// Generator produces synthetic reviews from a seeded random source so
// the same seed reproduces the same dataset.
type Generator struct {
	rng *rand.Rand
}

func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

func (g *Generator) pick(options []string) string {
	return options[g.rng.Intn(len(options))]
}

// weightedChoice picks one of positive/neutral/negative given weights.
func (g *Generator) weightedChoice(weights [3]float64) string {
	total := weights[0] + weights[1] + weights[2]
	r := g.rng.Float64() * total
	if r < weights[0] {
		return "positive"
	}
	if r < weights[0]+weights[1] {
		return "neutral"
	}
	return "negative"
}

// ReviewText builds one review body from a per-aspect sentiment
// profile, mentioning at most numAspects aspects.
func (g *Generator) ReviewText(profile map[model.Aspect]string, numAspects int, includeGeneric bool) string {
	aspects := make([]model.Aspect, 0, len(profile))
	for _, a := range model.Aspects() {
		if _, ok := profile[a]; ok {
			aspects = append(aspects, a)
		}
	}
	if len(aspects) > numAspects {
		g.rng.Shuffle(len(aspects), func(i, j int) {
			aspects[i], aspects[j] = aspects[j], aspects[i]
		})
		aspects = aspects[:numAspects]
	}

	var sentences []string
	for _, aspect := range aspects {
		var bank []string
		switch profile[aspect] {
		case "positive":
			bank = positivePhrases[aspect]
		case "negative":
			bank = negativePhrases[aspect]
		default:
			bank = neutralPhrases[aspect]
		}
		if len(bank) > 0 {
			sentences = append(sentences, g.pick(bank))
		}
	}

	if includeGeneric {
		positive, negative := 0, 0
		for _, s := range profile {
			switch s {
			case "positive":
				positive++
			case "negative":
				negative++
			}
		}
		if positive > negative {
			sentences = append(sentences, g.pick(genericPositive))
		} else if negative > positive {
			sentences = append(sentences, g.pick(genericNegative))
		}
	}

	g.rng.Shuffle(len(sentences), func(i, j int) {
		sentences[i], sentences[j] = sentences[j], sentences[i]
	})

	return strings.Join(sentences, " ")
}

// Review generates one review for a listing on a given date.
func (g *Generator) Review(listingID string, date time.Time, profile map[model.Aspect]string, numAspects int) model.RawReview {
	id := uuid.New()
	return model.RawReview{
		ReviewID:  "review_" + strings.ReplaceAll(id.String(), "-", "")[:12],
		ListingID: listingID,
		Text:      g.ReviewText(profile, numAspects, true),
		Date:      date,
	}
}

// dateSequence spreads n dates over the span, biased toward recent.
func (g *Generator) dateSequence(start, end time.Time, n int) []time.Time {
	totalDays := int(end.Sub(start).Hours() / 24)
	dates := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		factor := math.Pow(g.rng.Float64(), 0.7)
		daysAgo := int(factor * float64(totalDays))
		dates = append(dates, end.AddDate(0, 0, -daysAgo))
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

func qualityWeights(quality string) [3]float64 {
	switch quality {
	case QualityExcellent:
		return [3]float64{0.85, 0.12, 0.03}
	case QualityGood:
		return [3]float64{0.70, 0.22, 0.08}
	case QualityAverage:
		return [3]float64{0.40, 0.35, 0.25}
	case QualityPoor:
		return [3]float64{0.15, 0.20, 0.65}
	default:
		return [3]float64{}
	}
}

// ListingReviews generates n reviews for one listing with a consistent
// quality profile spread over daysSpan days ending at endDate.
func (g *Generator) ListingReviews(listingID string, n int, quality string, endDate time.Time, daysSpan int) []model.RawReview {
	start := endDate.AddDate(0, 0, -daysSpan)
	dates := g.dateSequence(start, endDate, n)
	weights := qualityWeights(quality)

	reviews := make([]model.RawReview, 0, n)
	for _, date := range dates {
		profile := make(map[model.Aspect]string, len(model.Aspects()))
		for _, aspect := range model.Aspects() {
			if quality == QualityMixed {
				if g.rng.Float64() < 0.5 {
					profile[aspect] = "positive"
				} else {
					profile[aspect] = "negative"
				}
			} else {
				profile[aspect] = g.weightedChoice(weights)
			}
		}
		numAspects := 2 + g.rng.Intn(3)
		reviews = append(reviews, g.Review(listingID, date, profile, numAspects))
	}
	return reviews
}

// Dataset generates reviews for several listings across the quality
// spectrum. Listing IDs are listing_0001, listing_0002 and so on.
func (g *Generator) Dataset(nListings, reviewsPerListing int, endDate time.Time) []model.RawReview {
	qualities := []string{QualityExcellent, QualityGood, QualityAverage, QualityPoor, QualityMixed}

	var all []model.RawReview
	for i := 0; i < nListings; i++ {
		listingID := fmt.Sprintf("listing_%04d", i+1)
		quality := qualities[i%len(qualities)]

		n := reviewsPerListing + g.rng.Intn(11) - 5
		if n < 5 {
			n = 5
		}
		all = append(all, g.ListingReviews(listingID, n, quality, endDate, 730)...)
	}
	return all
}

// NegationReviews builds a small fixed set exercising negation
// handling, one review per month going back from endDate.
func (g *Generator) NegationReviews(listingID string, endDate time.Time) []model.RawReview {
	texts := []string{
		"The room was not clean at all. The bathroom wasn't sanitized.",
		"The area wasn't dangerous. The place was not dirty.",
		"I wouldn't say the host wasn't helpful. Not a bad location.",
		"The apartment was definitely not quiet. Really not clean.",
		"The location was excellent and the host was very helpful.",
	}
	reviews := make([]model.RawReview, 0, len(texts))
	for i, text := range texts {
		reviews = append(reviews, model.RawReview{
			ReviewID:  fmt.Sprintf("negation_test_%d", i+1),
			ListingID: listingID,
			Text:      text,
			Date:      endDate.AddDate(0, 0, -i*30),
		})
	}
	return reviews
}

// TemporalReviews builds a listing whose old reviews are negative and
// recent ones positive, so weighted sentiment diverges from the raw
// average.
func (g *Generator) TemporalReviews(listingID string, endDate time.Time) []model.RawReview {
	var reviews []model.RawReview
	for i := 0; i < 10; i++ {
		daysAgo := 365 + g.rng.Intn(366)
		reviews = append(reviews, model.RawReview{
			ReviewID:  fmt.Sprintf("temporal_old_%d", i+1),
			ListingID: listingID,
			Text:      g.pick(negativePhrases[model.AspectCleanliness]) + " " + g.pick(negativePhrases[model.AspectHostBehavior]),
			Date:      endDate.AddDate(0, 0, -daysAgo),
		})
	}
	for i := 0; i < 10; i++ {
		daysAgo := g.rng.Intn(91)
		reviews = append(reviews, model.RawReview{
			ReviewID:  fmt.Sprintf("temporal_recent_%d", i+1),
			ListingID: listingID,
			Text:      g.pick(positivePhrases[model.AspectCleanliness]) + " " + g.pick(positivePhrases[model.AspectHostBehavior]),
			Date:      endDate.AddDate(0, 0, -daysAgo),
		})
	}
	return reviews
}

// PolarizedReviews builds a listing split between glowing and scathing
// reviews, for disagreement detection.
func (g *Generator) PolarizedReviews(listingID string, endDate time.Time) []model.RawReview {
	var reviews []model.RawReview
	for i := 0; i < 10; i++ {
		daysAgo := g.rng.Intn(366)
		reviews = append(reviews, model.RawReview{
			ReviewID:  fmt.Sprintf("polar_positive_%d", i+1),
			ListingID: listingID,
			Text:      "Amazing place! " + g.pick(positivePhrases[model.AspectCleanliness]) + " " + g.pick(positivePhrases[model.AspectLocation]) + " Highly recommend!",
			Date:      endDate.AddDate(0, 0, -daysAgo),
		})
	}
	for i := 0; i < 10; i++ {
		daysAgo := g.rng.Intn(366)
		reviews = append(reviews, model.RawReview{
			ReviewID:  fmt.Sprintf("polar_negative_%d", i+1),
			ListingID: listingID,
			Text:      "Terrible experience! " + g.pick(negativePhrases[model.AspectCleanliness]) + " " + g.pick(negativePhrases[model.AspectLocation]) + " Avoid!",
			Date:      endDate.AddDate(0, 0, -daysAgo),
		})
	}
	return reviews
}
