package packing

import (
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/pkordes/packlist/internal/domain"
)

// Bucket names used by the rule-based list.
const (
	CategoryDocuments   = "Documents & money"
	CategoryClothing    = "Clothing"
	CategoryElectronics = "Electronics"
	CategoryHygiene     = "Hygiene"
	CategoryAccessories = "Accessories"
)

type bucket struct {
	name     string
	keywords []string
}

// buckets are tested in order; the first keyword hit wins.
var buckets = []bucket{
	{CategoryDocuments, []string{"passport", "visa", "money", "cards", "documents"}},
	{CategoryClothing, []string{
		"jacket", "trousers", "socks", "underwear", "shoes", "suit", "hat", "clothing",
		"gloves", "scarf", "shorts", "shirt", "sweater", "coat", "pajamas", "flip-flops",
	}},
	{CategoryElectronics, []string{"phone", "laptop", "charger", "headphones", "camera", "flashlight"}},
	{CategoryHygiene, []string{"toothbrush", "comb", "deodorant", "shampoo", "towel", "toiletr", "sunscreen", "first aid"}},
	{CategoryAccessories, []string{"glasses", "umbrella", "bag", "backpack", "belt", "bottle"}},
}

// Categorize dedupes items by exact title, files each into the first bucket
// with a keyword contained in its lowercase title (Other when none), sorts
// titles alphabetically and drops empty buckets. Bucket order is fixed.
func Categorize(items []string) []domain.Category {
	titles := lo.Uniq(lo.Compact(lo.Map(items, func(s string, _ int) string { return strings.TrimSpace(s) })))

	grouped := lo.GroupBy(titles, bucketFor)

	order := append(lo.Map(buckets, func(b bucket, _ int) string { return b.name }), domain.CategoryOther)
	out := make([]domain.Category, 0, len(order))
	for _, name := range order {
		group := grouped[name]
		if len(group) == 0 {
			continue
		}
		sort.Strings(group)
		out = append(out, domain.Category{Name: name, Items: group})
	}
	return out
}

func bucketFor(title string) string {
	lower := strings.ToLower(title)
	for _, b := range buckets {
		for _, kw := range b.keywords {
			if strings.Contains(lower, kw) {
				return b.name
			}
		}
	}
	return domain.CategoryOther
}
