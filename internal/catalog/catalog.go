// Package catalog holds the in-memory campaign list and the browse filter
// used by the home page.
package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/DukeRupert/kebaikan/internal/domain"
)

// CategoryAll matches every campaign.
const CategoryAll = "All"

// Catalog is a read-only campaign list. It is safe for concurrent use.
type Catalog struct {
	campaigns []domain.Campaign
	fallback  domain.Campaign
}

// New creates a catalog over campaigns. fallback is offered to the donation
// flow when no campaign was selected.
func New(campaigns []domain.Campaign, fallback domain.Campaign) *Catalog {
	return &Catalog{
		campaigns: append([]domain.Campaign(nil), campaigns...),
		fallback:  fallback,
	}
}

// NewDefault creates the catalog seeded with the demo campaigns.
func NewDefault() *Catalog {
	return New(seedCampaigns, defaultCampaign)
}

// All returns every campaign in display order.
func (c *Catalog) All() []domain.Campaign {
	return append([]domain.Campaign(nil), c.campaigns...)
}

// Default returns the campaign used when the donation flow is entered
// without a selection.
func (c *Catalog) Default() domain.Campaign {
	return c.fallback
}

// Get finds a campaign by ID.
func (c *Catalog) Get(id int) (domain.Campaign, bool) {
	for _, cp := range c.campaigns {
		if cp.ID == id {
			return cp, true
		}
	}
	if c.fallback.ID == id {
		return c.fallback, true
	}
	return domain.Campaign{}, false
}

// Categories returns the filter tabs: CategoryAll followed by each distinct
// campaign category in first-seen order.
func (c *Catalog) Categories() []string {
	out := []string{CategoryAll}
	seen := map[string]bool{}
	for _, cp := range c.campaigns {
		if !seen[cp.Category] {
			seen[cp.Category] = true
			out = append(out, cp.Category)
		}
	}
	return out
}

// Filter returns the campaigns in category whose title or location contains
// query. An empty category or CategoryAll disables the category filter; an
// empty query disables the search. Matching ignores case.
func (c *Catalog) Filter(category, query string) []domain.Campaign {
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(query))
	allCategories := category == "" || strings.EqualFold(category, CategoryAll)
	wantCategory := fold.String(category)

	out := make([]domain.Campaign, 0, len(c.campaigns))
	for _, cp := range c.campaigns {
		if !allCategories && fold.String(cp.Category) != wantCategory {
			continue
		}
		if q != "" &&
			!strings.Contains(fold.String(cp.Title), q) &&
			!strings.Contains(fold.String(cp.Location), q) {
			continue
		}
		out = append(out, cp)
	}
	return out
}

var hundred = decimal.NewFromInt(100)

// Progress returns raised/target as a percentage capped at 100, rounded to
// two decimals. A campaign without a target reports zero.
func Progress(cp domain.Campaign) decimal.Decimal {
	if cp.Target <= 0 {
		return decimal.Zero
	}
	pct := decimal.NewFromInt(cp.Raised).
		Mul(hundred).
		Div(decimal.NewFromInt(cp.Target))
	if pct.GreaterThan(hundred) {
		pct = hundred
	}
	return pct.Round(2)
}

// WithDonation returns cp with amount added to the raised total.
func WithDonation(cp domain.Campaign, amount int64) domain.Campaign {
	cp.Raised += amount
	return cp
}
