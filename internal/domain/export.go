package domain

// ChecklistExport is the self-contained, shareable copy of a checklist.
// It carries no owner identity.
type ChecklistExport struct {
	Title    string       `json:"title"`
	Type     string       `json:"type"`
	Metadata TripMetadata `json:"metadata"`
	Items    []ExportItem `json:"items"`
}

// ExportItem is one item of a ChecklistExport, in display order.
// Category is CategoryOther for items saved without one.
type ExportItem struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
	IsCompleted bool   `json:"is_completed"`
}
