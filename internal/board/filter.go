package board

import (
	"fmt"
	"strings"
)

// Filter narrows a board view. Zero values mean "no restriction"; the
// predicates compose in any order with the same result.
type Filter struct {
	Type     PairType
	Assignee string
	Search   string
}

// Match reports whether a pair satisfies every active predicate.
func (f Filter) Match(pair Pair) bool {
	if f.Type != "" && pair.Type != f.Type {
		return false
	}
	if f.Assignee != "" && !strings.EqualFold(pair.Assignee, f.Assignee) {
		return false
	}
	if search := strings.ToLower(strings.TrimSpace(f.Search)); search != "" {
		haystack := strings.ToLower(strings.Join([]string{
			pair.Description,
			pair.Instructions,
			pair.Notes,
			fmt.Sprintf("pair %d", pair.PairNumber),
		}, "\n"))
		if !strings.Contains(haystack, search) {
			return false
		}
	}
	return true
}

// Apply returns the pairs matching the filter, preserving input order.
func (f Filter) Apply(pairs []Pair) []Pair {
	out := make([]Pair, 0, len(pairs))
	for _, pair := range pairs {
		if f.Match(pair) {
			out = append(out, pair)
		}
	}
	return out
}

// Group partitions pairs into one ordered bucket per stage. Every input pair
// lands in exactly one bucket; relative order inside a bucket follows the
// input order. Pairs carrying an unknown stage are dropped rather than
// invented a bucket.
func Group(pairs []Pair) map[Stage][]Pair {
	groups := make(map[Stage][]Pair, len(allStages))
	for _, stage := range allStages {
		groups[stage] = nil
	}
	for _, pair := range pairs {
		if _, ok := stageSet[pair.Stage]; !ok {
			continue
		}
		groups[pair.Stage] = append(groups[pair.Stage], pair)
	}
	return groups
}

// Summary aggregates headline counts for the board footer.
type Summary struct {
	Pairs     int
	Videos    int
	Complete  int
	Delivered int
}

// Summarize computes the board summary over a pair set.
func Summarize(pairs []Pair) Summary {
	summary := Summary{Pairs: len(pairs), Videos: 2 * len(pairs)}
	for _, pair := range pairs {
		if pair.Stage == StageComplete {
			summary.Complete++
		}
		if pair.Delivered {
			summary.Delivered++
		}
	}
	return summary
}
