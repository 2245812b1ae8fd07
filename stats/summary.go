package stats

import "strconv"

// MinRating and MaxRating bound the rating scale.
const (
	MinRating = 1
	MaxRating = 4
)

// Distribution counts responses per rating value. All scale values are
// always present.
type Distribution map[int]int

func newDistribution() Distribution {
	d := make(Distribution, MaxRating)
	for r := MinRating; r <= MaxRating; r++ {
		d[r] = 0
	}
	return d
}

// Summary is the aggregate view of a filtered response set.
type Summary struct {
	Total        int          `json:"total"`
	Average      string       `json:"average"`
	Distribution Distribution `json:"distribution"`
	Latest       *string      `json:"latest"`
	Buckets      []Bucket     `json:"buckets"`
}

// Summarize filters entries and aggregates the survivors. Buckets are built
// from the unfiltered entries.
func Summarize(entries []Entry, f Filter) Summary {
	filtered := f.Apply(entries)
	total, avg, dist := aggregate(filtered)

	var latest *string
	for _, e := range filtered {
		if latest == nil || e.CreatedAt > *latest {
			ts := e.CreatedAt
			latest = &ts
		}
	}

	return Summary{
		Total:        total,
		Average:      avg,
		Distribution: dist,
		Latest:       latest,
		Buckets:      BucketEntries(entries, f),
	}
}

func aggregate(entries []Entry) (int, string, Distribution) {
	dist := newDistribution()
	sum := 0
	for _, e := range entries {
		sum += e.Rating
		if e.Rating >= MinRating && e.Rating <= MaxRating {
			dist[e.Rating]++
		}
	}
	return len(entries), FormatAverage(sum, len(entries)), dist
}

// FormatAverage renders sum/count with two decimals, or "0.00" for an empty
// set.
func FormatAverage(sum, count int) string {
	if count == 0 || sum == 0 {
		return "0.00"
	}
	return strconv.FormatFloat(float64(sum)/float64(count), 'f', 2, 64)
}

func round2(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return 0
	}
	return r
}
