package domain

// PurposeOther is the catch-all trip purpose category.
const PurposeOther = "other"

// TripPurpose is an entry in the purpose catalog. Name is the unique,
// lower-case key; base entries are seeded at startup and classifier-proposed
// entries have IsBase false.
type TripPurpose struct {
	Name        string
	Description string
	IsBase      bool
}

// BasePurposes is the seed catalog.
var BasePurposes = []TripPurpose{
	{Name: "beach", Description: "Beach holiday", IsBase: true},
	{Name: "business", Description: "Business trip", IsBase: true},
	{Name: "active", Description: "Active holiday", IsBase: true},
	{Name: "sightseeing", Description: "Sightseeing", IsBase: true},
	{Name: "hiking", Description: "Hiking trip", IsBase: true},
	{Name: "cruise", Description: "Sea trip or cruise", IsBase: true},
	{Name: "cultural", Description: "Cultural trip (museums, exhibitions, concerts)", IsBase: true},
	{Name: "wellness", Description: "Wellness and spa", IsBase: true},
	{Name: "education", Description: "Educational trip", IsBase: true},
	{Name: "sports", Description: "Sporting event", IsBase: true},
	{Name: "religious", Description: "Pilgrimage or religious trip", IsBase: true},
	{Name: "family", Description: "Family holiday", IsBase: true},
	{Name: "medical", Description: "Medical trip", IsBase: true},
	{Name: PurposeOther, Description: "Other", IsBase: true},
}
