// Package catalog holds the immutable product catalog and its query engine.
//
// The catalog is fixed at construction: products are never mutated, reordered
// or deleted afterwards, so queries can hand out copies without locking.
package catalog

import (
	"sort"
	"strings"
)

// Product is a single catalog entry. Price is an integer in minor currency
// units (e.g. paise), never a float.
type Product struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Price       int64  `json:"price"`
	Category    string `json:"category"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

// SortMode selects the ordering of query results.
type SortMode int

const (
	// SortDefault preserves catalog declaration order.
	SortDefault SortMode = iota
	// SortPriceAsc orders by price non-decreasing, stable on ties.
	SortPriceAsc
	// SortPriceDesc orders by price non-increasing, stable on ties.
	SortPriceDesc
)

// CategoryAll matches every category in a query.
const CategoryAll = "all"

// ParseSortMode maps a wire value to a SortMode. Unknown values fall back to
// declaration order; parsing is total on purpose.
func ParseSortMode(s string) SortMode {
	switch s {
	case "price-asc":
		return SortPriceAsc
	case "price-desc":
		return SortPriceDesc
	default:
		return SortDefault
	}
}

// Catalog is an immutable, ordered product list with an index by ID.
type Catalog struct {
	products   []Product
	byID       map[string]int
	categories []string
}

// New builds a Catalog from the given products. Declaration order is
// preserved; the first product wins on duplicate IDs. Distinct categories are
// collected once, in insertion order.
func New(products []Product) *Catalog {
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	seenCategory := make(map[string]struct{})
	for _, p := range products {
		if _, dup := c.byID[p.ID]; dup {
			continue
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
		if _, ok := seenCategory[p.Category]; !ok {
			seenCategory[p.Category] = struct{}{}
			c.categories = append(c.categories, p.Category)
		}
	}
	return c
}

// FindByID returns the product with the given ID, if present.
func (c *Catalog) FindByID(id string) (Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

// Query returns the products matching the search text and category, ordered
// according to the sort mode. A product matches when the search text is empty
// or is a case-insensitive substring of its title or description, and the
// category is CategoryAll or equals the product's category. Unknown
// categories simply match nothing. The result is always a fresh slice.
func (c *Catalog) Query(searchText, category string, mode SortMode) []Product {
	q := strings.ToLower(strings.TrimSpace(searchText))

	matches := make([]Product, 0, len(c.products))
	for _, p := range c.products {
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Title), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) {
			continue
		}
		if category != CategoryAll && category != p.Category {
			continue
		}
		matches = append(matches, p)
	}

	// Stable sorts keep catalog order within equal prices, so repeated
	// queries are deterministic.
	switch mode {
	case SortPriceAsc:
		sort.SliceStable(matches, func(i, j int) bool { return matches[i].Price < matches[j].Price })
	case SortPriceDesc:
		sort.SliceStable(matches, func(i, j int) bool { return matches[i].Price > matches[j].Price })
	}
	return matches
}

// Categories returns the distinct product categories in insertion order.
func (c *Catalog) Categories() []string {
	out := make([]string, len(c.categories))
	copy(out, c.categories)
	return out
}

// Len reports the number of products in the catalog.
func (c *Catalog) Len() int {
	return len(c.products)
}
