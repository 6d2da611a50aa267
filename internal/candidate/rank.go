package candidate

import "sort"

// Rank deduplicates by id, keeping the higher score (first seen wins a tie),
// and orders by score descending with id ascending as the tie breaker.
// The input slice is not modified.
func Rank(candidates []Candidate) []Candidate {
	best := make(map[string]int, len(candidates))
	out := make([]Candidate, 0, len(candidates))

	for _, c := range candidates {
		idx, seen := best[c.ID]
		if !seen {
			best[c.ID] = len(out)
			out = append(out, c)
			continue
		}
		if c.MatchScore > out[idx].MatchScore {
			out[idx] = c
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MatchScore != out[j].MatchScore {
			return out[i].MatchScore > out[j].MatchScore
		}
		return out[i].ID < out[j].ID
	})
	return out
}
