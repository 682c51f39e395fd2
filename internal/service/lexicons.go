package service

import "reviewintel/internal/model"

// aspectLexicons maps each aspect to keyword weights. Weight reflects
// how strongly the keyword indicates the aspect, 0.3 weak to 1.0
// unambiguous.
var aspectLexicons = map[model.Aspect]map[string]float64{
	model.AspectCleanliness: {
		"spotless":    1.0,
		"immaculate":  1.0,
		"pristine":    1.0,
		"filthy":      1.0,
		"disgusting":  0.9,
		"cleanliness": 0.9,

		"clean":     0.8,
		"dirty":     0.8,
		"dust":      0.7,
		"dusty":     0.7,
		"stain":     0.7,
		"stains":    0.7,
		"stained":   0.7,
		"tidy":      0.7,
		"messy":     0.7,
		"hygiene":   0.7,
		"hygienic":  0.7,
		"sanitized": 0.7,
		"sanitary":  0.7,
		"mold":      0.8,
		"moldy":     0.8,
		"mould":     0.8,
		"smell":     0.6,
		"smelled":   0.6,
		"smells":    0.6,
		"odor":      0.7,
		"odour":     0.7,

		"fresh":       0.4,
		"sheets":      0.4,
		"towels":      0.4,
		"bathroom":    0.3,
		"toilet":      0.4,
		"hair":        0.5,
		"bugs":        0.6,
		"insects":     0.6,
		"cockroach":   0.8,
		"cockroaches": 0.8,
	},

	model.AspectNoise: {
		"quiet":      1.0,
		"noisy":      1.0,
		"noise":      0.9,
		"peaceful":   0.9,
		"silent":     0.8,
		"soundproof": 0.9,

		"loud":         0.8,
		"sound":        0.6,
		"sounds":       0.6,
		"traffic":      0.7,
		"neighbors":    0.7,
		"neighbours":   0.7,
		"party":        0.6,
		"parties":      0.6,
		"music":        0.6,
		"barking":      0.7,
		"dogs":         0.5,
		"construction": 0.7,
		"earplugs":     0.9,
		"sleep":        0.4,
		"sleeping":     0.4,

		"street": 0.4,
		"road":   0.3,
		"hear":   0.5,
		"heard":  0.5,
		"walls":  0.4,
		"thin":   0.3,
	},

	model.AspectLocation: {
		"location":      1.0,
		"located":       0.9,
		"neighborhood":  0.9,
		"neighbourhood": 0.9,
		"central":       0.8,
		"downtown":      0.8,

		"area":           0.7,
		"walking":        0.6,
		"distance":       0.5,
		"accessible":     0.7,
		"transport":      0.7,
		"transportation": 0.7,
		"subway":         0.7,
		"metro":          0.7,
		"bus":            0.5,
		"train":          0.5,
		"station":        0.5,
		"airport":        0.6,
		"beach":          0.5,
		"restaurants":    0.5,
		"shops":          0.5,
		"shopping":       0.5,
		"supermarket":    0.5,
		"grocery":        0.5,
		"convenient":     0.6,
		"conveniently":   0.6,

		"minutes": 0.3,
		"walk":    0.4,
		"close":   0.4,
		"near":    0.4,
		"nearby":  0.5,
		"far":     0.4,
		"remote":  0.5,
	},

	model.AspectHostBehavior: {
		"host":         1.0,
		"hosts":        1.0,
		"owner":        0.9,
		"responsive":   0.9,
		"unresponsive": 0.9,

		"helpful":       0.7,
		"unhelpful":     0.8,
		"communication": 0.8,
		"communicate":   0.7,
		"communicated":  0.7,
		"response":      0.6,
		"responded":     0.6,
		"check-in":      0.8,
		"checkin":       0.8,
		"checkout":      0.7,
		"check-out":     0.7,
		"welcome":       0.6,
		"welcomed":      0.6,
		"welcoming":     0.6,
		"friendly":      0.6,
		"unfriendly":    0.7,
		"rude":          0.8,
		"kind":          0.5,
		"accommodating": 0.7,
		"flexible":      0.5,
		"inflexible":    0.6,

		"message":         0.4,
		"messages":        0.4,
		"reply":           0.5,
		"replied":         0.5,
		"contact":         0.4,
		"instructions":    0.5,
		"tips":            0.4,
		"recommendations": 0.4,
	},

	model.AspectAmenities: {
		"amenities":  1.0,
		"equipped":   0.8,
		"facilities": 0.8,

		"wifi":             0.9,
		"wi-fi":            0.9,
		"internet":         0.8,
		"kitchen":          0.8,
		"bed":              0.7,
		"beds":             0.7,
		"mattress":         0.8,
		"towel":            0.6,
		"towels":           0.6,
		"parking":          0.8,
		"heating":          0.8,
		"heater":           0.7,
		"ac":               0.8,
		"air conditioning": 0.9,
		"aircon":           0.8,
		"bathroom":         0.6,
		"shower":           0.7,
		"bathtub":          0.7,
		"tv":               0.6,
		"television":       0.6,
		"washer":           0.7,
		"washing machine":  0.8,
		"dryer":            0.7,
		"dishwasher":       0.7,
		"fridge":           0.6,
		"refrigerator":     0.6,
		"microwave":        0.6,
		"stove":            0.6,
		"oven":             0.6,
		"coffee":           0.5,
		"kettle":           0.5,
		"utensils":         0.6,
		"cookware":         0.6,
		"linens":           0.6,
		"pillows":          0.6,
		"blanket":          0.5,
		"blankets":         0.5,
		"pool":             0.7,
		"gym":              0.6,
		"elevator":         0.6,
		"lift":             0.5,
		"balcony":          0.6,

		"room":        0.3,
		"space":       0.3,
		"comfortable": 0.4,
		"cozy":        0.4,
	},

	model.AspectSafety: {
		"safe":      0.9,
		"safety":    1.0,
		"secure":    0.9,
		"security":  0.9,
		"unsafe":    1.0,
		"dangerous": 1.0,
		"danger":    0.9,

		"lock":     0.7,
		"locks":    0.7,
		"locked":   0.6,
		"alarm":    0.7,
		"camera":   0.6,
		"cameras":  0.6,
		"sketchy":  0.8,
		"shady":    0.7,
		"crime":    0.8,
		"theft":    0.8,
		"stolen":   0.8,
		"break-in": 0.9,
		"breakin":  0.9,

		"trust":         0.5,
		"trusted":       0.5,
		"worry":         0.5,
		"worried":       0.5,
		"concerns":      0.5,
		"comfortable":   0.4,
		"uncomfortable": 0.5,

		"night":     0.3,
		"dark":      0.4,
		"alone":     0.4,
		"stranger":  0.5,
		"strangers": 0.5,
	},
}

type weightedPhrase struct {
	phrase string
	weight float64
}

// multiWordPhrases are matched as whole units before single keywords.
var multiWordPhrases = map[model.Aspect][]weightedPhrase{
	model.AspectLocation: {
		{"walking distance", 0.8},
		{"public transport", 0.8},
		{"public transportation", 0.8},
		{"city center", 0.8},
		{"city centre", 0.8},
		{"old town", 0.6},
		{"main street", 0.5},
	},
	model.AspectAmenities: {
		{"air conditioning", 0.9},
		{"washing machine", 0.8},
		{"coffee maker", 0.6},
		{"hair dryer", 0.6},
		{"hot water", 0.7},
		{"full kitchen", 0.8},
	},
	model.AspectHostBehavior: {
		{"check in", 0.8},
		{"check out", 0.7},
		{"self check", 0.6},
	},
	model.AspectCleanliness: {
		{"deep clean", 0.9},
		{"freshly cleaned", 0.8},
	},
}

// exclusionContexts suppress a keyword match when any of these words
// appear near it. "Location of the bathroom" is about the bathroom,
// and "don't make noise" is an instruction, not a complaint.
var exclusionContexts = map[model.Aspect]map[string]bool{
	model.AspectLocation: {
		"bathroom": true, "kitchen": true, "bedroom": true,
		"shower": true, "toilet": true,
	},
	model.AspectNoise: {
		"make": true, "making": true,
	},
}
