package listings

import (
	"net/url"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/farmfresh-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/farmfresh-backend/pkg/errors"
)

// CatalogFilter narrows and orders the public catalog.
type CatalogFilter struct {
	Category   *enums.ProductCategory
	PriceRange enums.PriceRange
	Sort       enums.CatalogSort
	Search     string
	FarmerID   *uuid.UUID
}

// ParseCatalogQuery reads category, price_range, sort, search and farmer_id.
// category=all (or empty) disables the category filter.
func ParseCatalogQuery(values url.Values) (CatalogFilter, error) {
	filter := CatalogFilter{}
	details := map[string]string{}

	if raw := strings.TrimSpace(values.Get("category")); raw != "" && !strings.EqualFold(raw, "all") {
		category, err := enums.ParseProductCategory(raw)
		if err != nil {
			details["category"] = err.Error()
		} else {
			filter.Category = &category
		}
	}

	priceRange, err := enums.ParsePriceRange(values.Get("price_range"))
	if err != nil {
		details["price_range"] = err.Error()
	}
	filter.PriceRange = priceRange

	sortBy, err := enums.ParseCatalogSort(values.Get("sort"))
	if err != nil {
		details["sort"] = err.Error()
	}
	filter.Sort = sortBy

	filter.Search = strings.TrimSpace(values.Get("search"))

	if raw := strings.TrimSpace(values.Get("farmer_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			details["farmer_id"] = "must be a uuid"
		} else {
			filter.FarmerID = &id
		}
	}

	if len(details) > 0 {
		return CatalogFilter{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid catalog query").WithDetails(details)
	}
	return filter, nil
}

// Unfiltered reports whether the filter selects the whole catalog.
// Ordering does not count as filtering.
func (f CatalogFilter) Unfiltered() bool {
	return f.Category == nil && f.FarmerID == nil && f.Search == "" &&
		(f.PriceRange == "" || f.PriceRange == enums.PriceRangeAll)
}

// Matches reports whether item passes every filter clause.
func (f CatalogFilter) Matches(item CatalogProduct) bool {
	if f.Category != nil && item.Category != *f.Category {
		return false
	}
	if f.FarmerID != nil && item.FarmerID != *f.FarmerID {
		return false
	}
	if !f.PriceRange.Contains(item.Price) {
		return false
	}
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(item.Name), term) &&
			!strings.Contains(strings.ToLower(item.Description), term) {
			return false
		}
	}
	return true
}

// Apply filters and sorts items in memory. The input slice is not modified.
func (f CatalogFilter) Apply(items []CatalogProduct) []CatalogProduct {
	out := make([]CatalogProduct, 0, len(items))
	for _, item := range items {
		if f.Matches(item) {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return f.less(out[i], out[j])
	})
	return out
}

func (f CatalogFilter) less(a, b CatalogProduct) bool {
	nameA, nameB := strings.ToLower(a.Name), strings.ToLower(b.Name)
	switch f.Sort {
	case enums.CatalogSortPriceLow:
		if !a.Price.Equal(b.Price) {
			return a.Price.LessThan(b.Price)
		}
	case enums.CatalogSortPriceHigh:
		if !a.Price.Equal(b.Price) {
			return a.Price.GreaterThan(b.Price)
		}
	case enums.CatalogSortCategory:
		if a.Category != b.Category {
			return a.Category < b.Category
		}
	}
	if nameA != nameB {
		return nameA < nameB
	}
	return a.ID.String() < b.ID.String()
}
