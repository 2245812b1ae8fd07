package stats

// Category identifies a rollup group.
type Category struct {
	ID   uint
	Name string
}

// CategorizedEntry is a response tagged with its survey's category.
type CategorizedEntry struct {
	Entry
	CategoryID uint
}

// CategoryRollup is the per-category aggregate.
type CategoryRollup struct {
	ID           uint         `json:"id"`
	Name         string       `json:"name"`
	Total        int          `json:"total"`
	Average      string       `json:"average"`
	Distribution Distribution `json:"distribution"`
}

// Rollup aggregates filtered entries per category, in the order categories
// are given. Categories without responses report zero totals.
func Rollup(categories []Category, entries []CategorizedEntry, f Filter) []CategoryRollup {
	byCategory := make(map[uint][]Entry, len(categories))
	for _, e := range entries {
		if !f.Keep(e.CreatedAt) {
			continue
		}
		byCategory[e.CategoryID] = append(byCategory[e.CategoryID], e.Entry)
	}

	out := make([]CategoryRollup, 0, len(categories))
	for _, c := range categories {
		total, avg, dist := aggregate(byCategory[c.ID])
		out = append(out, CategoryRollup{
			ID:           c.ID,
			Name:         c.Name,
			Total:        total,
			Average:      avg,
			Distribution: dist,
		})
	}
	return out
}
