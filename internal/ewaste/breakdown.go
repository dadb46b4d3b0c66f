package ewaste

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// BreakdownEntry is one category's share of all detections.
type BreakdownEntry struct {
	Category   string  `json:"category"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Aggregate converts per-category counts into percentage shares of total.
// A non-positive total yields 0% for every entry. Entries are ordered by count
// descending, then by category.
func Aggregate(breakdown map[string]int, total int) []BreakdownEntry {
	entries := make([]BreakdownEntry, 0, len(breakdown))
	for category, count := range breakdown {
		entry := BreakdownEntry{Category: category, Count: count}
		if total > 0 {
			entry.Percentage = float64(count) * 100 / float64(total)
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Category < entries[j].Category
	})
	return entries
}

// DisplayName renders a raw category key for humans: "circuit_board" becomes
// "Circuit Board".
func DisplayName(category string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(category, "_", " "))
}
