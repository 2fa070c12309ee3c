package packing_test

import (
	"slices"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/packlist/internal/domain"
	"github.com/pkordes/packlist/internal/packing"
)

func fp(f float64) *float64 { return &f }

func allTitles(cats []domain.Category) []string {
	return lo.FlatMap(cats, func(c domain.Category, _ int) []string { return c.Items })
}

func TestWeatherItems_NoWeatherAddsBaselineAndEssentials(t *testing.T) {
	items := packing.WeatherItems(nil)

	assert.Subset(t, items, []string{"Documents", "Chargers", "Toiletries", "First aid kit"})
	assert.Contains(t, items, "Passport")
	assert.NotContains(t, items, "Umbrella")
}

func TestWeatherItems_TemperatureBands(t *testing.T) {
	tests := []struct {
		name        string
		night, day  domain.TempRange
		contains    []string
		notContains []string
	}{
		{
			name:  "cold",
			night: domain.TempRange{Min: -2, Max: 3}, day: domain.TempRange{Min: 4, Max: 8},
			contains:    []string{"Warm jacket", "Gloves"},
			notContains: []string{"Light jacket or cardigan", "Sunscreen"},
		},
		{
			name:  "mild",
			night: domain.TempRange{Min: 12, Max: 14}, day: domain.TempRange{Min: 18, Max: 22},
			contains:    []string{"Light jacket or cardigan", "Long trousers"},
			notContains: []string{"Warm jacket", "Sunscreen"},
		},
		{
			name:  "hot",
			night: domain.TempRange{Min: 21, Max: 23}, day: domain.TempRange{Min: 28, Max: 33},
			contains:    []string{"Sunscreen", "Shorts", "Sun hat"},
			notContains: []string{"Warm jacket", "Light jacket or cardigan"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &domain.WeatherSummary{NightTempRange: &tt.night, DayTempRange: &tt.day}

			items := packing.WeatherItems(w)

			assert.Subset(t, items, tt.contains)
			for _, s := range tt.notContains {
				assert.NotContains(t, items, s)
			}
			assert.NotContains(t, items, "Passport", "essentials only stand in for missing weather")
		})
	}
}

func TestWeatherItems_Rain(t *testing.T) {
	byDescription := &domain.WeatherSummary{Descriptions: []string{"Light Rain"}}
	byVolume := &domain.WeatherSummary{Descriptions: []string{"overcast clouds"}, TotalPrecip: fp(1.5)}
	dry := &domain.WeatherSummary{Descriptions: []string{"clear sky"}, TotalPrecip: fp(0.4)}

	assert.Contains(t, packing.WeatherItems(byDescription), "Umbrella")
	assert.Contains(t, packing.WeatherItems(byVolume), "Raincoat")
	assert.NotContains(t, packing.WeatherItems(dry), "Umbrella")
}

func TestPurposeItems(t *testing.T) {
	assert.Contains(t, packing.PurposeItems("beach"), "Swimsuit")
	assert.Contains(t, packing.PurposeItems("Business"), "Laptop")
	assert.Equal(t, packing.PurposeItems("hiking"), packing.PurposeItems("active"))
	assert.Equal(t, packing.PurposeItems("sightseeing"), packing.PurposeItems("other"))
	assert.Nil(t, packing.PurposeItems("wellness"), "unknown categories add nothing")
}

func TestDurationItems(t *testing.T) {
	assert.Empty(t, packing.DurationItems(7))

	twelve := packing.DurationItems(12)
	assert.Subset(t, twelve, []string{"Laundry supplies", "Spare glasses or contact lenses", "Extra pair of shoes"})
	assert.NotContains(t, twelve, "Sewing kit")
	assert.NotContains(t, twelve, "Universal charger")
	assert.NotContains(t, twelve, "Spare phone")

	assert.Subset(t, packing.DurationItems(15), []string{"Laundry supplies", "Sewing kit", "Universal charger", "Spare phone"})
}

func TestRuleList_TwelveDayTrip(t *testing.T) {
	cats := packing.RuleList(nil, "other", 12)

	titles := allTitles(cats)
	assert.Contains(t, titles, "Laundry supplies")
	assert.Contains(t, titles, "Extra pair of shoes")
	assert.NotContains(t, titles, "Sewing kit")
	assert.NotContains(t, titles, "Spare phone")
}

func TestRuleList_NoDuplicateTitles(t *testing.T) {
	// Sunscreen and sunglasses come from both the heat band and the beach table.
	w := &domain.WeatherSummary{DayTempRange: &domain.TempRange{Min: 26, Max: 31}, NightTempRange: &domain.TempRange{Min: 19, Max: 21}}

	titles := allTitles(packing.RuleList(w, "beach", 20))

	require.NotEmpty(t, titles)
	assert.Len(t, lo.Uniq(titles), len(titles))
}

func TestCategorize(t *testing.T) {
	cats := packing.Categorize([]string{"Swimsuit", "Passport", "Sunglasses", "Sewing kit", "Beach towel", "Laptop", "Passport", " "})

	assert.Equal(t, []domain.Category{
		{Name: packing.CategoryDocuments, Items: []string{"Passport"}},
		{Name: packing.CategoryClothing, Items: []string{"Swimsuit"}},
		{Name: packing.CategoryElectronics, Items: []string{"Laptop"}},
		{Name: packing.CategoryHygiene, Items: []string{"Beach towel"}},
		{Name: packing.CategoryAccessories, Items: []string{"Sunglasses"}},
		{Name: domain.CategoryOther, Items: []string{"Sewing kit"}},
	}, cats)
}

func TestCategorize_SortsWithinCategory(t *testing.T) {
	cats := packing.Categorize([]string{"Warm socks", "Gloves", "Hat"})

	require.Len(t, cats, 1)
	assert.Equal(t, []string{"Gloves", "Hat", "Warm socks"}, cats[0].Items)
}

func TestCategorize_IsDeterministicAndIdempotent(t *testing.T) {
	items := append(packing.WeatherItems(nil), packing.PurposeItems("hiking")...)
	items = append(items, packing.DurationItems(20)...)

	first := packing.Categorize(items)
	reversed := slices.Clone(items)
	slices.Reverse(reversed)
	second := packing.Categorize(reversed)
	again := packing.Categorize(allTitles(first))

	assert.Equal(t, first, second)
	assert.Equal(t, first, again)
}
