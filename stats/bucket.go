package stats

import (
	"fmt"
	"sort"
)

// Bucket is one point of a week or month trend series.
type Bucket struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

// BucketEntries groups entries by ISO week (YYYY-Www) or month (YYYY-MM)
// when the filter asks for it. Any other filter yields an empty series.
func BucketEntries(entries []Entry, f Filter) []Bucket {
	out := make([]Bucket, 0)
	if f.Type != FilterWeek && f.Type != FilterMonth {
		return out
	}

	type acc struct{ count, sum int }
	groups := make(map[string]*acc)
	for _, e := range entries {
		t, ok := ParseTimestamp(e.CreatedAt, f.Location())
		if !ok {
			continue
		}
		var key string
		if f.Type == FilterWeek {
			year, week := t.ISOWeek()
			key = fmt.Sprintf("%d-W%02d", year, week)
		} else {
			key = fmt.Sprintf("%d-%02d", t.Year(), int(t.Month()))
		}
		g, ok := groups[key]
		if !ok {
			g = &acc{}
			groups[key] = g
		}
		g.count++
		g.sum += e.Rating
	}

	labels := make([]string, 0, len(groups))
	for label := range groups {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		g := groups[label]
		avg := 0.0
		if g.count > 0 {
			avg = round2(float64(g.sum) / float64(g.count))
		}
		out = append(out, Bucket{Label: label, Count: g.count, Average: avg})
	}
	return out
}
