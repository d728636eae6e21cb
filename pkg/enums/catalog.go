package enums

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// PriceRange buckets catalog prices. Lower bounds are inclusive, upper bounds exclusive.
type PriceRange string

const (
	PriceRangeAll      PriceRange = "all"
	PriceRangeUnder50  PriceRange = "0-50"
	PriceRange50To100  PriceRange = "50-100"
	PriceRange100To200 PriceRange = "100-200"
	PriceRangeOver200  PriceRange = "200+"
)

var validPriceRanges = []PriceRange{
	PriceRangeAll,
	PriceRangeUnder50,
	PriceRange50To100,
	PriceRange100To200,
	PriceRangeOver200,
}

// String implements fmt.Stringer.
func (p PriceRange) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PriceRange.
func (p PriceRange) IsValid() bool {
	for _, candidate := range validPriceRanges {
		if candidate == p {
			return true
		}
	}
	return false
}

// Contains reports whether price falls inside the range.
func (p PriceRange) Contains(price decimal.Decimal) bool {
	lower, upper, bounded := p.Bounds()
	if !bounded {
		return p == PriceRangeAll || p == ""
	}
	if price.LessThan(lower) {
		return false
	}
	if upper != nil && !price.LessThan(*upper) {
		return false
	}
	return true
}

// Bounds returns the inclusive lower bound and optional exclusive upper bound.
// bounded is false for PriceRangeAll.
func (p PriceRange) Bounds() (lower decimal.Decimal, upper *decimal.Decimal, bounded bool) {
	at := func(v int64) *decimal.Decimal {
		d := decimal.NewFromInt(v)
		return &d
	}
	switch p {
	case PriceRangeUnder50:
		return decimal.Zero, at(50), true
	case PriceRange50To100:
		return decimal.NewFromInt(50), at(100), true
	case PriceRange100To200:
		return decimal.NewFromInt(100), at(200), true
	case PriceRangeOver200:
		return decimal.NewFromInt(200), nil, true
	default:
		return decimal.Zero, nil, false
	}
}

// ParsePriceRange converts raw input into a PriceRange. Empty input means all.
func ParsePriceRange(value string) (PriceRange, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return PriceRangeAll, nil
	}
	for _, candidate := range validPriceRanges {
		if string(candidate) == trimmed {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid price range %q", value)
}

// CatalogSort orders the public catalog.
type CatalogSort string

const (
	CatalogSortName      CatalogSort = "name"
	CatalogSortPriceLow  CatalogSort = "price-low"
	CatalogSortPriceHigh CatalogSort = "price-high"
	CatalogSortCategory  CatalogSort = "category"
)

var validCatalogSorts = []CatalogSort{
	CatalogSortName,
	CatalogSortPriceLow,
	CatalogSortPriceHigh,
	CatalogSortCategory,
}

// String implements fmt.Stringer.
func (s CatalogSort) String() string {
	return string(s)
}

// IsValid reports whether the value is a known CatalogSort.
func (s CatalogSort) IsValid() bool {
	for _, candidate := range validCatalogSorts {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseCatalogSort converts raw input into a CatalogSort. Empty input sorts by name.
func ParseCatalogSort(value string) (CatalogSort, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return CatalogSortName, nil
	}
	for _, candidate := range validCatalogSorts {
		if string(candidate) == trimmed {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid catalog sort %q", value)
}
