package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridwaanalimubasheer/Rapid-Volt/internal/domain"
)

func testProducts() []domain.Product {
	return []domain.Product{
		{ID: "lighting", Title: "Lighting Control System", Price: 45000},
		{ID: "motion", Title: "Motion Sensor Switch", Price: 12500},
		{ID: "dimmer", Title: "Wireless Dimmer Kit", Price: 15750},
	}
}

// ---------------------------------------------------------------------------
// normalize
// ---------------------------------------------------------------------------

func TestNormalize(t *testing.T) {
	assert.Equal(t, "motionsensorswitch", normalize("Motion Sensor Switch"))
	assert.Equal(t, "smartplug16a", normalize("Smart Plug 16A"))
	assert.Equal(t, "", normalize("!!! ??? --- ..."))
	assert.Equal(t, "", normalize(""))
	assert.Equal(t, "abc123", normalize("  A-b C 1.2:3  "))
}

// ---------------------------------------------------------------------------
// levenshteinDistance
// ---------------------------------------------------------------------------

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, levenshteinDistance("kitten", "kitten"))
	assert.Equal(t, 3, levenshteinDistance("kitten", "sitting"))
	assert.Equal(t, 5, levenshteinDistance("", "volts"))
	assert.Equal(t, 5, levenshteinDistance("volts", ""))
	assert.Equal(t, 0, levenshteinDistance("", ""))
	assert.Equal(t, 2, levenshteinDistance("switch", "swtich")) // transposition costs two ops
}

// ---------------------------------------------------------------------------
// FindClosest
// ---------------------------------------------------------------------------

func TestFindClosest_ExactTitle(t *testing.T) {
	m := New(DefaultMinSimilarity)

	p, ok := m.FindClosest("Motion Sensor Switch", testProducts())

	require.True(t, ok)
	assert.Equal(t, "motion", p.ID)
}

func TestFindClosest_IgnoresCaseAndPunctuation(t *testing.T) {
	m := New(DefaultMinSimilarity)

	p, ok := m.FindClosest("  motion-sensor SWITCH!!", testProducts())

	require.True(t, ok)
	assert.Equal(t, "motion", p.ID)
}

func TestFindClosest_Typo(t *testing.T) {
	m := New(DefaultMinSimilarity)

	p, ok := m.FindClosest("moton sensr swich", testProducts())

	require.True(t, ok)
	assert.Equal(t, "motion", p.ID)
}

func TestFindClosest_PartialTitle(t *testing.T) {
	m := New(DefaultMinSimilarity)

	p, ok := m.FindClosest("lighting control", testProducts())

	require.True(t, ok)
	assert.Equal(t, "lighting", p.ID)
}

func TestFindClosest_EmptyQuery(t *testing.T) {
	m := New(DefaultMinSimilarity)

	_, ok := m.FindClosest("", testProducts())

	assert.False(t, ok)
}

func TestFindClosest_AllSymbolsQuery(t *testing.T) {
	m := New(DefaultMinSimilarity)

	_, ok := m.FindClosest("?!?! ... ---", testProducts())

	assert.False(t, ok)
}

func TestFindClosest_EmptyCatalog(t *testing.T) {
	m := New(DefaultMinSimilarity)

	_, ok := m.FindClosest("lighting", nil)

	assert.False(t, ok)
}

func TestFindClosest_NoMatchBelowThreshold(t *testing.T) {
	m := New(DefaultMinSimilarity)

	_, ok := m.FindClosest("totally unrelated query zzz", testProducts())

	assert.False(t, ok)
}

func TestFindClosest_ThresholdIsStrict(t *testing.T) {
	m := New(DefaultMinSimilarity)

	// "abcde" vs "abzzz": distance 3, similarity exactly 0.4. Not accepted.
	products := []domain.Product{{ID: "p1", Title: "Abzzz"}}

	_, ok := m.FindClosest("abcde", products)

	assert.False(t, ok)
}

// Among accepted candidates the winner has the smallest raw edit distance,
// not the best similarity ratio. "Power" sits at distance 5 from the query
// (similarity 0.5) and beats "Power Strip Deluxe" at distance 6 even though
// the longer title has the better ratio (0.625).
func TestFindClosest_SmallestDistanceBeatsBestRatio(t *testing.T) {
	m := New(DefaultMinSimilarity)

	products := []domain.Product{
		{ID: "deluxe", Title: "Power Strip Deluxe"},
		{ID: "power", Title: "Power"},
	}

	p, ok := m.FindClosest("Power Strip", products)

	require.True(t, ok)
	assert.Equal(t, "power", p.ID)
}

func TestFindClosest_EqualDistanceKeepsEarliestEntry(t *testing.T) {
	m := New(DefaultMinSimilarity)

	// Both titles are one substitution away from the query.
	products := []domain.Product{
		{ID: "first", Title: "volta"},
		{ID: "second", Title: "volts"},
	}

	p, ok := m.FindClosest("voltx", products)

	require.True(t, ok)
	assert.Equal(t, "first", p.ID)
}

func TestNew_NonPositiveThresholdUsesDefault(t *testing.T) {
	m := New(0)
	assert.Equal(t, DefaultMinSimilarity, m.minSimilarity)

	m = New(-1)
	assert.Equal(t, DefaultMinSimilarity, m.minSimilarity)
}
