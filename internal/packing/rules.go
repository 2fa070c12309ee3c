package packing

import (
	"strings"

	"github.com/pkordes/packlist/internal/domain"
)

// Temperature bands in °C and the precipitation threshold in mm over the trip.
const (
	coldBelow       = 10.0
	mildBelow       = 20.0
	hotAbove        = 25.0
	rainyTotalAbove = 1.0
)

var (
	baselineItems = []string{"Documents", "Chargers", "Toiletries", "First aid kit"}

	// generalEssentials stand in for weather-driven items when no forecast is known.
	generalEssentials = []string{
		"Passport", "Money", "Bank cards", "Phone", "Phone charger", "Headphones",
		"Toothbrush and toothpaste", "Comb", "Deodorant", "Underwear", "Socks", "Pajamas",
	}

	coldItems = []string{"Warm jacket", "Hat", "Gloves", "Scarf", "Warm socks"}
	mildItems = []string{"Light jacket or cardigan", "Long trousers", "Sweater or hoodie"}
	hotItems  = []string{"Sunscreen", "Sunglasses", "Sun hat", "Light clothing", "Shorts", "T-shirts"}
	rainItems = []string{"Umbrella", "Raincoat", "Waterproof shoes"}

	rainKeywords = []string{"rain", "drizzle", "shower", "thunderstorm", "snow", "sleet"}

	businessItems    = []string{"Laptop", "Business suit", "Business cards", "Notebook and pen", "Laptop bag"}
	beachItems       = []string{"Swimsuit", "Beach towel", "Sunscreen", "Sunglasses", "Flip-flops", "Beach bag"}
	hikingItems      = []string{"Trekking shoes", "Backpack", "Water bottle", "Compass", "Map of the area", "Hiking first aid kit", "Flashlight"}
	sightseeingItems = []string{"Comfortable walking shoes", "Camera", "Guidebook", "Light backpack", "Umbrella"}

	// purposeItems is keyed by purpose category name. Categories not listed
	// contribute nothing.
	purposeItems = map[string][]string{
		"business":    businessItems,
		"beach":       beachItems,
		"hiking":      hikingItems,
		"active":      hikingItems,
		"sightseeing": sightseeingItems,
		"other":       sightseeingItems,
	}

	weekPlusItems      = []string{"Laundry supplies", "Spare glasses or contact lenses", "Extra pair of shoes"}
	fortnightPlusItems = []string{"Sewing kit", "Universal charger", "Spare phone"}
)

// WeatherItems returns the baseline plus the temperature and precipitation
// additions for the summary. A nil summary adds the general essentials.
func WeatherItems(w *domain.WeatherSummary) []string {
	items := append([]string(nil), baselineItems...)
	if w == nil {
		return append(items, generalEssentials...)
	}

	if coldest, ok := w.Coldest(); ok {
		switch {
		case coldest < coldBelow:
			items = append(items, coldItems...)
		case coldest < mildBelow:
			items = append(items, mildItems...)
		}
	}
	if warmest, ok := w.Warmest(); ok && warmest > hotAbove {
		items = append(items, hotItems...)
	}
	if isRainy(w) {
		items = append(items, rainItems...)
	}
	return items
}

func isRainy(w *domain.WeatherSummary) bool {
	if w.TotalPrecip != nil && *w.TotalPrecip > rainyTotalAbove {
		return true
	}
	for _, d := range w.Descriptions {
		d = strings.ToLower(d)
		for _, kw := range rainKeywords {
			if strings.Contains(d, kw) {
				return true
			}
		}
	}
	return false
}

// PurposeItems returns the fixed list for a purpose category, or nil.
func PurposeItems(category string) []string {
	return purposeItems[strings.ToLower(strings.TrimSpace(category))]
}

// DurationItems returns the additions for trips longer than one and two weeks.
func DurationItems(days int) []string {
	var items []string
	if days > 7 {
		items = append(items, weekPlusItems...)
	}
	if days > 14 {
		items = append(items, fortnightPlusItems...)
	}
	return items
}

// RuleList builds the deterministic checklist: the set union of weather,
// purpose and duration items, categorized by keyword.
func RuleList(w *domain.WeatherSummary, purposeCategory string, days int) []domain.Category {
	var all []string
	all = append(all, WeatherItems(w)...)
	all = append(all, PurposeItems(purposeCategory)...)
	all = append(all, DurationItems(days)...)
	return Categorize(all)
}
