package search

import (
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// CategoryAll is the sentinel clients send to mean "no category restriction".
const CategoryAll = "All"

// Filter is a backend-agnostic search predicate over the sweet catalog.
// Zero value matches everything.
type Filter struct {
	Query    string
	Category string
	MinPrice *float64
	MaxPrice *float64
}

// FromParams builds a Filter from raw query parameters. Unparseable price
// bounds are treated as absent, the "All" category as no restriction.
func FromParams(q, category, minPrice, maxPrice string) Filter {
	f := Filter{Query: q}
	if category != "" && category != CategoryAll {
		f.Category = category
	}
	if v, err := strconv.ParseFloat(minPrice, 64); err == nil {
		f.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(maxPrice, 64); err == nil {
		f.MaxPrice = &v
	}
	return f
}

// ApplyGorm translates the filter into WHERE clauses. The free-text clause
// matches name OR description, case-insensitively; all other clauses are
// AND-ed. LOWER+LIKE keeps the query portable between postgres and sqlite.
func (f Filter) ApplyGorm(db *gorm.DB) *gorm.DB {
	if f.Query != "" {
		pattern := "%" + strings.ToLower(f.Query) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if f.Category != "" {
		db = db.Where("category = ?", f.Category)
	}
	if f.MinPrice != nil {
		db = db.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		db = db.Where("price <= ?", *f.MaxPrice)
	}
	return db
}
