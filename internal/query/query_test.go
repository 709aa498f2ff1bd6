package query_test

import (
	"errors"
	"testing"

	"stockdesk/internal/models"
	"stockdesk/internal/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productNames(items []models.Product) []string {
	names := make([]string, len(items))
	for i, p := range items {
		names[i] = p.ProductName
	}
	return names
}

func userNames(items []models.User) []string {
	names := make([]string, len(items))
	for i, u := range items {
		names[i] = u.Name
	}
	return names
}

var catalog = []models.Product{
	{ID: "1", ProductName: "Milk", Barcode: "111", Category: "dairy", Price: 50},
	{ID: "2", ProductName: "Bread", Barcode: "222", Category: "bakery", Price: 30},
	{ID: "3", ProductName: "Butter", Barcode: "311", Category: "Dairy", Price: 80},
}

func TestFilterProducts(t *testing.T) {
	cases := []struct {
		name     string
		search   string
		category string
		want     []string
	}{
		{"search by name", "mil", "all", []string{"Milk"}},
		{"search is case-insensitive", "BREAD", "", []string{"Bread"}},
		{"search by barcode", "11", "all", []string{"Milk", "Butter"}},
		{"empty search", "", "all", []string{"Milk", "Bread", "Butter"}},
		{"category facet ignores case", "", "dairy", []string{"Milk", "Butter"}},
		{"facet and search", "b", "dairy", []string{"Butter"}},
		{"no match", "cheese", "all", []string{}},
		{"unknown category", "", "frozen", []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := query.FilterProducts(catalog, tc.search, tc.category)
			assert.Equal(t, tc.want, productNames(got))
		})
	}
}

func TestFilterProducts_SingleMatch(t *testing.T) {
	items := []models.Product{
		{ProductName: "Milk", Barcode: "111", Category: "dairy"},
		{ProductName: "Bread", Barcode: "222", Category: "bakery"},
	}

	got := query.FilterProducts(items, "mil", "all")
	require.Len(t, got, 1)
	assert.Equal(t, items[0], got[0])
}

func TestSortProducts(t *testing.T) {
	cases := []struct {
		mode query.SortMode
		want []string
	}{
		{query.SortNone, []string{"Milk", "Bread", "Butter"}},
		{query.SortNameAsc, []string{"Bread", "Butter", "Milk"}},
		{query.SortNameDesc, []string{"Milk", "Butter", "Bread"}},
		{query.SortPriceAsc, []string{"Bread", "Milk", "Butter"}},
		{query.SortPriceDesc, []string{"Butter", "Milk", "Bread"}},
	}

	for _, tc := range cases {
		t.Run(string(tc.mode), func(t *testing.T) {
			got := query.SortProducts(catalog, tc.mode)
			assert.Equal(t, tc.want, productNames(got))
		})
	}
	assert.Equal(t, []string{"Milk", "Bread", "Butter"}, productNames(catalog), "input is not reordered")
}

func TestSortProducts_PriceTiesKeepOrder(t *testing.T) {
	items := []models.Product{
		{ProductName: "A", Price: 5},
		{ProductName: "B", Price: 5},
	}

	assert.Equal(t, []string{"A", "B"}, productNames(query.SortProducts(items, query.SortPriceAsc)))
	assert.Equal(t, []string{"A", "B"}, productNames(query.SortProducts(items, query.SortPriceDesc)))
}

func TestSortProducts_NameIgnoresCaseAndAccents(t *testing.T) {
	items := []models.Product{
		{ProductName: "eggs"},
		{ProductName: "Éclair"},
		{ProductName: "apple"},
		{ProductName: "Banana"},
	}

	got := query.SortProducts(items, query.SortNameAsc)
	assert.Equal(t, []string{"apple", "Banana", "Éclair", "eggs"}, productNames(got))
}

var staff = []models.User{
	{ID: "1", Name: "Zara", Email: "zara@shop.com", Role: models.RoleStaff},
	{ID: "2", Name: "Asha", Email: "asha@shop.com", Role: models.RoleAdmin},
	{ID: "3", Name: "Ben", Email: "ben@elsewhere.org", Role: models.RoleStaff},
}

func TestFilterUsers(t *testing.T) {
	assert.Equal(t, []string{"Zara", "Asha"}, userNames(query.FilterUsers(staff, "SHOP", "all")))
	assert.Equal(t, []string{"Zara", "Ben"}, userNames(query.FilterUsers(staff, "", "staff")))
	assert.Equal(t, []string{"Ben"}, userNames(query.FilterUsers(staff, "be", "")))
	assert.Empty(t, query.FilterUsers(staff, "", "manager"))
}

func TestSortUsers(t *testing.T) {
	assert.Equal(t, []string{"Zara", "Asha", "Ben"}, userNames(query.SortUsers(staff, query.SortNone)))
	assert.Equal(t, []string{"Asha", "Ben", "Zara"}, userNames(query.SortUsers(staff, query.SortNameAsc)))
	assert.Equal(t, []string{"Zara", "Ben", "Asha"}, userNames(query.SortUsers(staff, query.SortNameDesc)))
	// Admins first, staff keep their relative order.
	assert.Equal(t, []string{"Asha", "Zara", "Ben"}, userNames(query.SortUsers(staff, query.SortRole)))
}

func TestFilterCategories(t *testing.T) {
	categories := []models.Category{{Name: "Dairy"}, {Name: "Bakery"}, {Name: "Frozen"}}

	got := query.FilterCategories(categories, "ry")
	require.Len(t, got, 2)
	assert.Equal(t, "Dairy", got[0].Name)
	assert.Equal(t, "Bakery", got[1].Name)
	assert.Len(t, query.FilterCategories(categories, ""), 3)
}

func TestParseSort(t *testing.T) {
	mode, err := query.ParseProductSort("")
	require.NoError(t, err)
	assert.Equal(t, query.SortNone, mode)

	mode, err = query.ParseProductSort("price-desc")
	require.NoError(t, err)
	assert.Equal(t, query.SortPriceDesc, mode)

	_, err = query.ParseProductSort("role")
	assert.True(t, errors.Is(err, query.ErrUnknownSortMode))

	mode, err = query.ParseUserSort("role")
	require.NoError(t, err)
	assert.Equal(t, query.SortRole, mode)

	_, err = query.ParseUserSort("price-asc")
	assert.ErrorIs(t, err, query.ErrUnknownSortMode)
}
