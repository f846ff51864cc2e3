package contributors

import (
	"sort"
	"strings"
)

// Ranked orders contributors by commit count descending, then name, then
// email, so output does not depend on map iteration order.
func Ranked(stats map[Identity]*Stats) []*Stats {
	ranked := make([]*Stats, 0, len(stats))
	for _, s := range stats {
		ranked = append(ranked, s)
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.CommitCount != b.CommitCount {
			return a.CommitCount > b.CommitCount
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Email < b.Email
	})
	return ranked
}

// Find returns the contributors whose name or email equals query, ignoring
// case, in Ranked order. The same person committing under two emails
// produces two matches.
func Find(stats map[Identity]*Stats, query string) []*Stats {
	query = strings.TrimSpace(query)

	var matches []*Stats
	for _, s := range Ranked(stats) {
		if strings.EqualFold(s.Name, query) || strings.EqualFold(s.Email, query) {
			matches = append(matches, s)
		}
	}
	return matches
}
