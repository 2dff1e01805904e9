// Package catalog implements listing search and filtering.
package catalog

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"marketplace/internal/api"
)

// Criteria is the set of constraints a listing must satisfy. Price bounds are
// kept as the raw text the user typed; bounds that do not parse as a number
// impose no constraint.
type Criteria struct {
	Query        string
	Category     string
	MinPrice     string
	MaxPrice     string
	VerifiedOnly bool
}

// Filter returns the listings that satisfy every constraint in c, in input
// order. The input slice is never modified.
func Filter(listings []api.Listing, c Criteria) []api.Listing {
	m := c.matcher()
	out := make([]api.Listing, 0, len(listings))
	for _, l := range listings {
		if m.match(l) {
			out = append(out, l)
		}
	}
	return out
}

// Match reports whether a single listing satisfies c.
func Match(l api.Listing, c Criteria) bool {
	return c.matcher().match(l)
}

type matcher struct {
	query        string
	category     string
	min          *decimal.Decimal
	max          *decimal.Decimal
	verifiedOnly bool
}

func (c Criteria) matcher() matcher {
	return matcher{
		query:        strings.ToLower(c.Query),
		category:     c.Category,
		min:          parseBound(c.MinPrice),
		max:          parseBound(c.MaxPrice),
		verifiedOnly: c.VerifiedOnly,
	}
}

func (m matcher) match(l api.Listing) bool {
	if m.query != "" &&
		!strings.Contains(strings.ToLower(l.Title), m.query) &&
		!strings.Contains(strings.ToLower(l.Description), m.query) {
		return false
	}
	if m.category != "" && m.category != api.CategoryAll && m.category != l.Category {
		return false
	}
	price := decimal.NewFromInt(l.Price)
	if m.min != nil && m.min.GreaterThan(price) {
		return false
	}
	if m.max != nil && m.max.LessThan(price) {
		return false
	}
	if m.verifiedOnly && !l.Verified {
		return false
	}
	return true
}

// parseBound returns nil for empty or non-numeric input.
func parseBound(s string) *decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

// CriteriaFromQuery reads criteria from URL query parameters q, category,
// min_price, max_price and verified_only.
func CriteriaFromQuery(v url.Values) Criteria {
	verified, _ := strconv.ParseBool(v.Get("verified_only"))
	category := v.Get("category")
	if category == "" {
		category = api.CategoryAll
	}
	return Criteria{
		Query:        v.Get("q"),
		Category:     category,
		MinPrice:     v.Get("min_price"),
		MaxPrice:     v.Get("max_price"),
		VerifiedOnly: verified,
	}
}

// Values is the inverse of CriteriaFromQuery. Unconstrained fields are omitted.
func (c Criteria) Values() url.Values {
	v := url.Values{}
	if c.Query != "" {
		v.Set("q", c.Query)
	}
	if c.Category != "" && c.Category != api.CategoryAll {
		v.Set("category", c.Category)
	}
	if c.MinPrice != "" {
		v.Set("min_price", c.MinPrice)
	}
	if c.MaxPrice != "" {
		v.Set("max_price", c.MaxPrice)
	}
	if c.VerifiedOnly {
		v.Set("verified_only", "true")
	}
	return v
}

// IsEmpty reports whether c constrains nothing.
func (c Criteria) IsEmpty() bool {
	return c.Query == "" &&
		(c.Category == "" || c.Category == api.CategoryAll) &&
		parseBound(c.MinPrice) == nil &&
		parseBound(c.MaxPrice) == nil &&
		!c.VerifiedOnly
}
