// Package query filters and sorts list snapshots for the list screens.
// Every function returns a new slice and leaves its input untouched.
package query

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"stockdesk/internal/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// FacetAll disables a facet filter.
const FacetAll = "all"

// SortMode names an ordering of a list.
type SortMode string

// Sort modes. Not every list supports every mode.
const (
	SortNone      SortMode = "none"
	SortNameAsc   SortMode = "name-asc"
	SortNameDesc  SortMode = "name-desc"
	SortPriceAsc  SortMode = "price-asc"
	SortPriceDesc SortMode = "price-desc"
	SortRole      SortMode = "role"
)

// ErrUnknownSortMode is returned for a sort mode the list does not support.
var ErrUnknownSortMode = errors.New("unknown sort mode")

var (
	productSorts = []SortMode{SortNone, SortNameAsc, SortNameDesc, SortPriceAsc, SortPriceDesc}
	userSorts    = []SortMode{SortNone, SortNameAsc, SortNameDesc, SortRole}
)

// ParseProductSort validates a product sort mode. Empty means SortNone.
func ParseProductSort(raw string) (SortMode, error) {
	return parseSort(raw, productSorts)
}

// ParseUserSort validates a user sort mode. Empty means SortNone.
func ParseUserSort(raw string) (SortMode, error) {
	return parseSort(raw, userSorts)
}

func parseSort(raw string, allowed []SortMode) (SortMode, error) {
	if raw == "" {
		return SortNone, nil
	}
	for _, m := range allowed {
		if SortMode(raw) == m {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownSortMode, raw)
}

// FilterProducts keeps products whose name or barcode contains search,
// ignoring case, and whose category equals the facet, ignoring case.
// An empty search or a facet of "" or "all" matches everything.
func FilterProducts(items []models.Product, search, category string) []models.Product {
	needle := strings.ToLower(search)
	out := make([]models.Product, 0, len(items))
	for _, p := range items {
		if !contains(p.ProductName, needle) && !contains(p.Barcode, needle) {
			continue
		}
		if !facetMatches(p.Category, category) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// SortProducts orders products by mode. Ties keep their input order.
func SortProducts(items []models.Product, mode SortMode) []models.Product {
	out := append([]models.Product(nil), items...)
	switch mode {
	case SortNameAsc, SortNameDesc:
		names := make([]string, len(out))
		for i, p := range out {
			names[i] = p.ProductName
		}
		sortByName(out, names, newCollator(), mode == SortNameDesc)
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	}
	return out
}

// FilterUsers keeps users whose name or email contains search, ignoring
// case, and whose role equals the facet.
func FilterUsers(items []models.User, search, role string) []models.User {
	needle := strings.ToLower(search)
	out := make([]models.User, 0, len(items))
	for _, u := range items {
		if !contains(u.Name, needle) && !contains(u.Email, needle) {
			continue
		}
		if !facetMatches(u.Role, role) {
			continue
		}
		out = append(out, u)
	}
	return out
}

// SortUsers orders users by mode. SortRole groups by role name. Ties keep
// their input order.
func SortUsers(items []models.User, mode SortMode) []models.User {
	out := append([]models.User(nil), items...)
	switch mode {
	case SortNameAsc, SortNameDesc:
		names := make([]string, len(out))
		for i, u := range out {
			names[i] = u.Name
		}
		sortByName(out, names, newCollator(), mode == SortNameDesc)
	case SortRole:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Role < out[j].Role })
	}
	return out
}

// FilterCategories keeps categories whose name contains search, ignoring case.
func FilterCategories(items []models.Category, search string) []models.Category {
	needle := strings.ToLower(search)
	out := make([]models.Category, 0, len(items))
	for _, c := range items {
		if contains(c.Name, needle) {
			out = append(out, c)
		}
	}
	return out
}

func contains(s, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(s), lowerNeedle)
}

func facetMatches(value, facet string) bool {
	return facet == "" || strings.EqualFold(facet, FacetAll) || strings.EqualFold(value, facet)
}

// newCollator returns a collator for display-name ordering. Collators keep
// internal buffers, so each sort gets its own.
func newCollator() *collate.Collator {
	return collate.New(language.English)
}

// sortByName stable-sorts items by the parallel names slice.
func sortByName[T any](items []T, names []string, c *collate.Collator, desc bool) {
	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		cmp := c.CompareString(names[idx[a]], names[idx[b]])
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})

	sorted := make([]T, len(items))
	for i, j := range idx {
		sorted[i] = items[j]
	}
	copy(items, sorted)
}
