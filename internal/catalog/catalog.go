// Package catalog holds the set of hiring companies and their pay terms.
// The catalog is pure data with no I/O; matching is deterministic.
package catalog

import (
	"encoding/json"
	"fmt"
)

// Company describes one hiring company and its public terms.
type Company struct {
	Slug         string  `json:"slug"`
	Name         string  `json:"name"`
	HourlyRate   float64 `json:"hourly_rate"`
	SigningBonus float64 `json:"signing_bonus"`
	Available    bool    `json:"available"`
}

// Catalog is an ordered list of companies. Order matters: MatchFor picks the
// first available entry.
type Catalog struct {
	companies []Company
}

// defaultCompanies is the compiled-in catalog used when no override is
// configured.
var defaultCompanies = []Company{
	{Slug: "meridian-build", Name: "Meridian Build Co", HourlyRate: 48.50, SigningBonus: 500, Available: true},
	{Slug: "northpoint-crews", Name: "Northpoint Crews", HourlyRate: 44.00, SigningBonus: 250, Available: true},
	{Slug: "harbor-works", Name: "Harbor Works LLC", HourlyRate: 52.75, SigningBonus: 750, Available: false},
}

// Default returns the compiled-in catalog.
func Default() *Catalog {
	return New(defaultCompanies)
}

// FromJSON builds a catalog from a configured JSON array, preserving order.
func FromJSON(data []byte) (*Catalog, error) {
	var companies []Company
	if err := json.Unmarshal(data, &companies); err != nil {
		return nil, fmt.Errorf("invalid company catalog: %w", err)
	}
	if len(companies) == 0 {
		return nil, fmt.Errorf("company catalog is empty")
	}
	for _, company := range companies {
		if company.Slug == "" || company.Name == "" {
			return nil, fmt.Errorf("company catalog entries require slug and name")
		}
	}
	return New(companies), nil
}

// New builds a catalog from an ordered company list. The slice is copied so
// callers cannot mutate the catalog afterwards.
func New(companies []Company) *Catalog {
	c := &Catalog{companies: make([]Company, len(companies))}
	copy(c.companies, companies)
	return c
}

// Companies returns the ordered company list.
func (c *Catalog) Companies() []Company {
	out := make([]Company, len(c.companies))
	copy(out, c.companies)
	return out
}

// BySlug returns the company with the given slug, or nil if unknown.
func (c *Catalog) BySlug(slug string) *Company {
	for i := range c.companies {
		if c.companies[i].Slug == slug {
			company := c.companies[i]
			return &company
		}
	}
	return nil
}

// MatchFor returns the first available company, or nil when none has
// capacity. A nil result is not an error; the caller decides what a missing
// match means.
func (c *Catalog) MatchFor() *Company {
	for i := range c.companies {
		if c.companies[i].Available {
			company := c.companies[i]
			return &company
		}
	}
	return nil
}
