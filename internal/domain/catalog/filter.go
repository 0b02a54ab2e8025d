package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ClauseKind identifies a product filter clause
type ClauseKind string

const (
	ClauseText     ClauseKind = "text"
	ClauseCompany  ClauseKind = "company"
	ClauseCategory ClauseKind = "category"
	ClauseMinPrice ClauseKind = "min_price"
	ClauseMaxPrice ClauseKind = "max_price"
)

// Clause is one condition of a ProductFilter. Only the field matching
// Kind is meaningful: Text for text, ID for company and category,
// Price for the price bounds.
type Clause struct {
	Kind  ClauseKind
	Text  string
	ID    int64
	Price decimal.Decimal
}

// ProductFilter is an immutable conjunction of clauses.
// The zero value matches every product.
type ProductFilter struct {
	clauses []Clause
}

// MatchAll returns a filter without clauses
func MatchAll() ProductFilter {
	return ProductFilter{}
}

// Clauses returns a copy of the clauses in insertion order
func (f ProductFilter) Clauses() []Clause {
	out := make([]Clause, len(f.clauses))
	copy(out, f.clauses)
	return out
}

// IsEmpty returns true if the filter has no clauses
func (f ProductFilter) IsEmpty() bool {
	return len(f.clauses) == 0
}

// IsUnsatisfiable reports whether the price bounds exclude every value,
// as with a minimum above the maximum.
func (f ProductFilter) IsUnsatisfiable() bool {
	var lo, hi *decimal.Decimal
	for i := range f.clauses {
		c := f.clauses[i]
		switch c.Kind {
		case ClauseMinPrice:
			if lo == nil || c.Price.GreaterThan(*lo) {
				lo = &c.Price
			}
		case ClauseMaxPrice:
			if hi == nil || c.Price.LessThan(*hi) {
				hi = &c.Price
			}
		}
	}
	return lo != nil && hi != nil && lo.GreaterThan(*hi)
}

// CategoryNamer resolves an id category reference to the category name
type CategoryNamer func(id int64) string

// Matches evaluates the filter against a product in memory
func (f ProductFilter) Matches(p *Product, categoryName CategoryNamer) bool {
	for _, c := range f.clauses {
		if !c.matches(p, categoryName) {
			return false
		}
	}
	return true
}

func (c Clause) matches(p *Product, categoryName CategoryNamer) bool {
	switch c.Kind {
	case ClauseText:
		if containsFold(p.Name, c.Text) || containsFold(p.Description, c.Text) {
			return true
		}
		if label, ok := p.Category.Label(); ok {
			return containsFold(label, c.Text)
		}
		if id, ok := p.Category.ID(); ok && categoryName != nil {
			return containsFold(categoryName(id), c.Text)
		}
		return false
	case ClauseCompany:
		return p.CompanyID == c.ID
	case ClauseCategory:
		id, ok := p.Category.ID()
		return ok && id == c.ID
	case ClauseMinPrice:
		return p.Price.GreaterThanOrEqual(c.Price)
	case ClauseMaxPrice:
		return p.Price.LessThanOrEqual(c.Price)
	default:
		return false
	}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}

// FilterBuilder accumulates clauses for a ProductFilter
type FilterBuilder struct {
	clauses []Clause
}

// NewFilterBuilder creates an empty builder
func NewFilterBuilder() *FilterBuilder {
	return &FilterBuilder{}
}

// Text adds a case-insensitive substring match over name, category and
// description. Blank text adds nothing.
func (b *FilterBuilder) Text(q string) *FilterBuilder {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return b
	}
	b.clauses = append(b.clauses, Clause{Kind: ClauseText, Text: q})
	return b
}

// Company adds an exact company match
func (b *FilterBuilder) Company(id int64) *FilterBuilder {
	b.clauses = append(b.clauses, Clause{Kind: ClauseCompany, ID: id})
	return b
}

// Category adds an exact match on an id category reference
func (b *FilterBuilder) Category(id int64) *FilterBuilder {
	b.clauses = append(b.clauses, Clause{Kind: ClauseCategory, ID: id})
	return b
}

// MinPrice adds an inclusive lower price bound
func (b *FilterBuilder) MinPrice(price decimal.Decimal) *FilterBuilder {
	b.clauses = append(b.clauses, Clause{Kind: ClauseMinPrice, Price: price})
	return b
}

// MaxPrice adds an inclusive upper price bound
func (b *FilterBuilder) MaxPrice(price decimal.Decimal) *FilterBuilder {
	b.clauses = append(b.clauses, Clause{Kind: ClauseMaxPrice, Price: price})
	return b
}

// Build returns the filter. The builder may be reused afterwards.
func (b *FilterBuilder) Build() ProductFilter {
	return ProductFilter{clauses: append([]Clause(nil), b.clauses...)}
}
