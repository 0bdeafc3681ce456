package matcher

import (
	"strings"

	"github.com/ridwaanalimubasheer/Rapid-Volt/internal/domain"
)

// DefaultMinSimilarity is the similarity threshold a candidate must exceed
// to be considered a match.
const DefaultMinSimilarity = 0.4

// Matcher finds the catalog product whose title is closest to a free-text
// query, using normalized Levenshtein similarity.
type Matcher struct {
	minSimilarity float64
}

// New creates a matcher with the given similarity threshold. A threshold of
// 0 or less falls back to DefaultMinSimilarity.
func New(minSimilarity float64) *Matcher {
	if minSimilarity <= 0 {
		minSimilarity = DefaultMinSimilarity
	}
	return &Matcher{minSimilarity: minSimilarity}
}

// FindClosest returns the best-matching product for the query, or false when
// no candidate clears the similarity threshold.
//
// Candidates are accepted when similarity > threshold; among accepted
// candidates the one with the smallest raw edit distance wins. The tie-break
// is deliberately on distance rather than similarity: a short title with a
// worse ratio but smaller absolute distance beats a long title with a better
// ratio. On equal distance the earliest catalog entry wins.
func (m *Matcher) FindClosest(query string, products []domain.Product) (*domain.Product, bool) {
	normQuery := normalize(query)

	var best *domain.Product
	bestDistance := -1

	for i := range products {
		normTitle := normalize(products[i].Title)
		dist := levenshteinDistance(normQuery, normTitle)

		maxLen := len(normQuery)
		if len(normTitle) > maxLen {
			maxLen = len(normTitle)
		}

		// Two empty strings are identical by convention.
		similarity := 1.0
		if maxLen > 0 {
			similarity = 1.0 - float64(dist)/float64(maxLen)
		}

		if similarity <= m.minSimilarity {
			continue
		}

		if best == nil || dist < bestDistance {
			best = &products[i]
			bestDistance = dist
		}
	}

	if best == nil {
		return nil, false
	}
	return best, true
}

// normalize lower-cases the input and strips every character outside [a-z0-9].
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// levenshteinDistance calculates the edit distance between two strings using
// the classic dynamic-programming recurrence with unit costs for insert,
// delete, and substitute.
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)

	// Two rows instead of the full matrix for space efficiency.
	prev := make([]int, n+1)
	curr := make([]int, n+1)

	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}
