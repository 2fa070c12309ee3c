package domain

// Generation methods recorded on a CategorizedList.
const (
	MethodLLM   = "llm"
	MethodRules = "rules"
)

// Category is one named group of item titles in display order.
type Category struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

// CategorizedList is the uniform output of checklist generation.
// Method and FallbackReason are for logs and metrics only.
type CategorizedList struct {
	Categories     []Category
	Method         string
	FallbackReason string
}

// Len returns the total number of items across all categories.
func (l CategorizedList) Len() int {
	n := 0
	for _, c := range l.Categories {
		n += len(c.Items)
	}
	return n
}

// NewItems flattens the list into insert inputs, category by category.
func (l CategorizedList) NewItems() []NewItem {
	items := make([]NewItem, 0, l.Len())
	for _, c := range l.Categories {
		for _, title := range c.Items {
			items = append(items, NewItem{Title: title, Category: c.Name})
		}
	}
	return items
}

// PriorChecklist is a compact view of an earlier checklist of the same user,
// used as personalization context for generation.
type PriorChecklist struct {
	Destination  string
	Purpose      string
	DurationDays int
	Groups       []Category
}
