// Package topic scores a learner's question against the coaching areas to
// pick the coach most likely to help.
package topic

import "strings"

// Decision names the best-fitting coach and how strong the signal was.
type Decision struct {
	CoachID string
	Score   int
}

var keywordBuckets = map[string][]string{
	"drawing": {
		"sketch", "sketching", "line", "lines", "proportion", "proportions", "perspective",
		"anatomy", "gesture", "pencil", "shading", "outline", "contour", "foreshortening",
		"observation", "figure drawing", "hatching",
	},
	"color": {
		"color", "colour", "palette", "hue", "mixing", "complementary", "saturation",
		"warm", "cool", "tone", "tint", "shade", "harmony", "vibrance", "pigment",
	},
	"texture": {
		"texture", "fur", "glass", "cloth", "fabric", "brushwork", "layering", "material",
		"metal", "skin", "hair", "surface", "impasto", "glazing", "wood grain",
	},
	"composition": {
		"composition", "layout", "focal", "focal point", "balance", "contrast",
		"rule of thirds", "framing", "storytelling", "negative space", "leading lines",
		"thumbnail", "cropping", "silhouette",
	},
	"general": {
		"beginner", "start", "learn", "learning", "practice", "improve", "motivation",
		"style", "habit", "course", "exercise", "art school", "portfolio",
	},
}

// fallbackCoach is used when no area scores; the overall advisor covers
// everything.
const fallbackCoach = "overall"

// Analyze scores the question against every coaching area and returns the
// strongest match. Ties and silence both resolve to the overall advisor.
func Analyze(question string) Decision {
	normalized := strings.ToLower(strings.TrimSpace(question))
	if normalized == "" {
		return Decision{CoachID: fallbackCoach, Score: 0}
	}

	scores := make(map[string]int)
	for coachID, keywords := range keywordBuckets {
		for _, word := range keywords {
			if strings.Contains(normalized, word) {
				scores[coachID] += 3
			}
		}
	}

	best := Decision{CoachID: fallbackCoach, Score: 0}
	tied := false
	for coachID, score := range scores {
		switch {
		case score > best.Score:
			best = Decision{CoachID: coachID, Score: score}
			tied = false
		case score == best.Score && best.Score > 0 && coachID != best.CoachID:
			tied = true
		}
	}
	if tied {
		return Decision{CoachID: fallbackCoach, Score: best.Score}
	}
	return best
}

// KnownCoachIDs lists the ids the analyzer can emit, fallback included.
func KnownCoachIDs() []string {
	ids := make([]string, 0, len(keywordBuckets)+1)
	for id := range keywordBuckets {
		ids = append(ids, id)
	}
	return append(ids, fallbackCoach)
}
