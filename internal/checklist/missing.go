package checklist

import "github.com/suretydesk/suretydesk/internal/domain"

// Counter reports how many files are filed under an item id.
type Counter interface {
	Count(itemID string) int
}

// Missing returns every required item with an empty bucket, in display
// order. Files in ERROR or UPLOADING state still count as present.
func Missing(cl domain.Checklist, c Counter) []domain.ChecklistItem {
	var missing []domain.ChecklistItem
	for _, item := range cl.Required() {
		if c.Count(item.ID) == 0 {
			missing = append(missing, item)
		}
	}
	return missing
}

// Labels extracts display labels, used when surfacing a completeness warning.
func Labels(items []domain.ChecklistItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Label
	}
	return out
}
