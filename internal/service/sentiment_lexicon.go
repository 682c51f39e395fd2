package service

// sentimentLexicon maps words to scores in [-1, 1].
var sentimentLexicon = map[string]float64{
	// Extremely positive
	"amazing":     1.0,
	"excellent":   1.0,
	"outstanding": 1.0,
	"exceptional": 1.0,
	"phenomenal":  1.0,
	"incredible":  0.95,
	"fantastic":   0.95,
	"wonderful":   0.95,
	"superb":      0.95,
	"brilliant":   0.9,
	"magnificent": 0.9,
	"marvelous":   0.9,
	"perfect":     1.0,
	"flawless":    1.0,
	"impeccable":  1.0,

	// Very positive
	"great":       0.8,
	"lovely":      0.8,
	"beautiful":   0.8,
	"awesome":     0.85,
	"delightful":  0.8,
	"pleasant":    0.7,
	"comfortable": 0.7,
	"clean":       0.75,
	"spotless":    0.9,
	"immaculate":  0.9,
	"pristine":    0.9,
	"cozy":        0.7,
	"friendly":    0.75,
	"helpful":     0.75,
	"responsive":  0.75,
	"welcoming":   0.7,
	"convenient":  0.7,
	"peaceful":    0.75,
	"quiet":       0.7,
	"safe":        0.75,
	"secure":      0.75,

	// Moderately positive
	"good":         0.6,
	"nice":         0.55,
	"fine":         0.4,
	"decent":       0.45,
	"adequate":     0.4,
	"satisfactory": 0.45,
	"functional":   0.4,
	"reasonable":   0.45,
	"acceptable":   0.4,
	"tidy":         0.5,
	"spacious":     0.6,
	"modern":       0.5,
	"stylish":      0.55,
	"equipped":     0.5,
	"central":      0.5,
	"accessible":   0.5,

	// Slightly positive
	"okay":       0.2,
	"ok":         0.2,
	"alright":    0.2,
	"sufficient": 0.25,
	"basic":      0.15,
	"simple":     0.1,
	"standard":   0.2,
	"average":    0.1,

	// Neutral
	"mixed":   0.0,
	"neutral": 0.0,

	// Slightly negative
	"disappointing": -0.35,
	"underwhelming": -0.3,
	"mediocre":      -0.25,
	"lacking":       -0.3,
	"limited":       -0.2,
	"small":         -0.15,
	"cramped":       -0.35,
	"outdated":      -0.3,
	"old":           -0.15,
	"worn":          -0.25,

	// Moderately negative
	"bad":           -0.6,
	"poor":          -0.55,
	"dirty":         -0.65,
	"unclean":       -0.6,
	"messy":         -0.5,
	"dusty":         -0.45,
	"stained":       -0.5,
	"noisy":         -0.55,
	"loud":          -0.5,
	"uncomfortable": -0.55,
	"inconvenient":  -0.5,
	"unfriendly":    -0.55,
	"unhelpful":     -0.55,
	"unresponsive":  -0.6,
	"rude":          -0.65,
	"slow":          -0.4,
	"broken":        -0.6,
	"faulty":        -0.55,
	"cold":          -0.4,
	"hot":           -0.35,

	// Very negative
	"terrible":   -0.85,
	"horrible":   -0.85,
	"awful":      -0.85,
	"dreadful":   -0.8,
	"disgusting": -0.85,
	"filthy":     -0.85,
	"nasty":      -0.75,
	"smelly":     -0.7,
	"moldy":      -0.8,
	"gross":      -0.75,
	"dangerous":  -0.8,
	"unsafe":     -0.85,
	"sketchy":    -0.7,
	"scary":      -0.7,

	// Extremely negative
	"worst":      -1.0,
	"nightmare":  -1.0,
	"unbearable": -0.95,
	"unacceptable": -0.9,
	"appalling":  -0.95,
	"atrocious":  -0.95,
	"abysmal":    -0.95,
	"horrendous": -0.95,
	"revolting":  -0.9,

	// Recommendation and experience words
	"recommend":   0.7,
	"recommended": 0.7,
	"love":        0.85,
	"loved":       0.85,
	"enjoy":       0.7,
	"enjoyed":     0.7,
	"hate":        -0.85,
	"hated":       -0.85,
	"regret":      -0.7,
	"avoid":       -0.75,
	"waste":       -0.7,
	"worth":       0.6,
	"value":       0.5,
}

// intensityModifiers scale the sentiment of a following word.
// Two-word entries match when the pair directly precedes the word.
var intensityModifiers = map[string]float64{
	"very":          1.3,
	"really":        1.25,
	"extremely":     1.5,
	"incredibly":    1.5,
	"absolutely":    1.4,
	"completely":    1.35,
	"totally":       1.3,
	"super":         1.3,
	"highly":        1.25,
	"exceptionally": 1.4,
	"particularly":  1.2,
	"especially":    1.25,
	"remarkably":    1.3,
	"truly":         1.2,
	"so":            1.2,
	"such":          1.15,

	"somewhat":  0.7,
	"slightly":  0.6,
	"fairly":    0.75,
	"rather":    0.8,
	"quite":     0.9,
	"a bit":     0.6,
	"a little":  0.6,
	"kind of":   0.6,
	"sort of":   0.6,
	"almost":    0.8,
	"mostly":    0.85,
	"generally": 0.8,
	"usually":   0.8,
}
