// Package ecoscore holds the score normalization and the keyword fallback
// estimation. Both functions are pure.
package ecoscore

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	baseScore       = 10.0
	maxScore        = 50.0
	titleWeight     = 1.5
	ecoCategoryBump = 5.0
)

// keywordWeights maps eco-related keywords to integer weights.
var keywordWeights = map[string]int{
	"organic":        8,
	"sustainable":    8,
	"biodegradable":  7,
	"recycled":       7,
	"eco-friendly":   7,
	"compostable":    7,
	"carbon-neutral": 7,
	"recyclable":     6,
	"bamboo":         6,
	"renewable":      6,
	"solar":          6,
	"reusable":       6,
	"zero-waste":     6,
	"natural":        5,
	"plant-based":    5,
	"hemp":           5,
	"cork":           5,
	"linen":          4,
	"jute":           4,
	"green":          4,
}

var ecoCategories = []string{
	"home & kitchen",
	"grocery & gourmet food",
	"tools & home improvement",
	"patio, lawn & garden",
}

// Normalize converts a raw, possibly absent score value to its canonical
// decimal string. Absent input maps to "0", numeric input to its shortest
// decimal form, string input passes through. Total function, no rounding.
func Normalize(v any) string {
	switch s := v.(type) {
	case nil:
		return "0"
	case string:
		if s == "" {
			return "0"
		}
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	default:
		return fmt.Sprint(v)
	}
}

// Estimate computes the heuristic eco-score for a product without an
// authoritative one. The result is a decimal string in [10, 50].
//
// Each keyword found in the lower-cased title adds weight*1.5, each found
// in the lower-cased body adds weight*1, both may fire for one keyword.
// An eco-friendly category adds a flat 5. The sum is clamped at 50 and
// formatted without rounding, so fractional sums stay fractional.
func Estimate(title, body, category string) string {
	title = strings.ToLower(title)
	body = strings.ToLower(body)
	category = strings.ToLower(category)

	score := baseScore
	for kw, w := range keywordWeights {
		if strings.Contains(title, kw) {
			score += float64(w) * titleWeight
		}
		if strings.Contains(body, kw) {
			score += float64(w)
		}
	}

	for _, c := range ecoCategories {
		if strings.Contains(category, c) {
			score += ecoCategoryBump
			break
		}
	}

	if score > maxScore {
		score = maxScore
	}
	return strconv.FormatFloat(score, 'f', -1, 64)
}

// NeedsFallback reports whether a normalized stored score means "unscored".
func NeedsFallback(normalized string) bool {
	f, err := strconv.ParseFloat(normalized, 64)
	return err != nil || f == 0
}
