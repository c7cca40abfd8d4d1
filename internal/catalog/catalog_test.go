package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DukeRupert/kebaikan/internal/domain"
)

func ids(cs []domain.Campaign) []int {
	out := make([]int, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	c := NewDefault()

	tests := []struct {
		name     string
		category string
		query    string
		want     []int
	}{
		{"everything", CategoryAll, "", []int{1, 2, 3, 4, 5}},
		{"empty category means all", "", "", []int{1, 2, 3, 4, 5}},
		{"by category", "Emergency", "", []int{2, 5}},
		{"category ignores case", "health", "", []int{3}},
		{"search title", CategoryAll, "flood", []int{2, 5}},
		{"search is case insensitive", CategoryAll, "TAMBORA", []int{1}},
		{"search location", CategoryAll, "surabaya", []int{4}},
		{"category and search", "Emergency", "help", []int{5}},
		{"search trims whitespace", CategoryAll, "  bandung ", []int{3}},
		{"no match", CategoryAll, "mars", []int{}},
		{"unknown category", "Sports", "", []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(c.Filter(tt.category, tt.query)))
		})
	}
}

func TestCategories(t *testing.T) {
	c := NewDefault()
	assert.Equal(t, []string{"All", "Environment", "Emergency", "Health", "Education"}, c.Categories())
}

func TestGetAndDefault(t *testing.T) {
	c := NewDefault()

	cp, ok := c.Get(3)
	require.True(t, ok)
	assert.Equal(t, "Bandung, Indonesia", cp.Location)

	_, ok = c.Get(99)
	assert.False(t, ok)

	assert.Equal(t, "Save Clean Water Access in Tambora", c.Default().Title)
}

func TestAll_ReturnsCopy(t *testing.T) {
	c := NewDefault()
	all := c.All()
	all[0].Title = "changed"
	assert.NotEqual(t, "changed", c.All()[0].Title)
}

func TestProgress(t *testing.T) {
	tests := []struct {
		name   string
		raised int64
		target int64
		want   string
	}{
		{"partial", 2109000, 5000000, "42.18"},
		{"half", 12500000, 25000000, "50"},
		{"capped", 30000000, 25000000, "100"},
		{"no target", 1000, 0, "0"},
		{"thirds round", 1, 3, "33.33"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Progress(domain.Campaign{Raised: tt.raised, Target: tt.target})
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestWithDonation(t *testing.T) {
	cp := domain.Campaign{Raised: 2109000}
	assert.Equal(t, int64(2209000), WithDonation(cp, 100000).Raised)
	assert.Equal(t, int64(2109000), cp.Raised)
}

func TestFormatRupiah(t *testing.T) {
	assert.Equal(t, "Rp 100.000", FormatRupiah(100000))
	assert.Equal(t, "Rp 1,000", FormatRupiahEnglish(1000))
}
