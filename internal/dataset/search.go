package dataset

import (
	"fmt"
	"strings"
)

const (
	DefaultLimit    = 3
	resultSeparator = "\n\n---\n\n"
)

// SearchColumns are matched against the keyword, in display order.
var SearchColumns = []string{ColServiceDescription, ColServiceType, ColMakeAndModel}

// Search returns up to limit rows where any search column contains keyword,
// case-insensitively, in table order. limit <= 0 means DefaultLimit.
func Search(t *Table, keyword string, limit int) string {
	if limit <= 0 {
		limit = DefaultLimit
	}
	cols := make([]string, 0, len(SearchColumns))
	for _, c := range SearchColumns {
		if t.Has(c) {
			cols = append(cols, c)
		}
	}

	kw := strings.ToLower(keyword)
	var results []string
	for i := 0; i < t.Len() && len(results) < limit; i++ {
		if !rowMatches(t, i, cols, kw) {
			continue
		}
		parts := make([]string, len(cols))
		for j, c := range cols {
			parts[j] = c + ": " + t.Value(i, c)
		}
		results = append(results, strings.Join(parts, ", "))
	}

	if len(results) == 0 {
		return NoRecordsMessage(keyword)
	}
	return strings.Join(results, resultSeparator)
}

func rowMatches(t *Table, i int, cols []string, kw string) bool {
	for _, c := range cols {
		if strings.Contains(strings.ToLower(t.Value(i, c)), kw) {
			return true
		}
	}
	return false
}

// NoRecordsMessage is returned by Search when nothing matches.
func NoRecordsMessage(keyword string) string {
	return fmt.Sprintf("No records found for '%s'.", keyword)
}
