package domain

// CatchAllItemID is the reserved intake bucket for files that match no
// checklist item.
const CatchAllItemID = "other_materials"

// CatchAllLabel is the display title of the catch-all bucket.
const CatchAllLabel = "其他未分类资料"

type ChecklistItem struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

type ChecklistGroup struct {
	ID    string          `json:"id"`
	Title string          `json:"title"`
	Items []ChecklistItem `json:"items"`
}

// Checklist is the ordered set of document groups generated for one
// (bond category, credit mode) pair. Item ids are unique across groups.
type Checklist []ChecklistGroup

// Items flattens the checklist in display order.
func (c Checklist) Items() []ChecklistItem {
	var items []ChecklistItem
	for _, g := range c {
		items = append(items, g.Items...)
	}
	return items
}

func (c Checklist) IDs() []string {
	items := c.Items()
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

// Item looks up an item by id.
func (c Checklist) Item(id string) (ChecklistItem, bool) {
	for _, g := range c {
		for _, item := range g.Items {
			if item.ID == id {
				return item, true
			}
		}
	}
	return ChecklistItem{}, false
}

// Has reports whether id may be used as an intake bucket key: either an item
// of this checklist or the catch-all id.
func (c Checklist) Has(id string) bool {
	if id == CatchAllItemID {
		return true
	}
	_, ok := c.Item(id)
	return ok
}

// Required returns the required items in display order.
func (c Checklist) Required() []ChecklistItem {
	var out []ChecklistItem
	for _, item := range c.Items() {
		if item.Required {
			out = append(out, item)
		}
	}
	return out
}
