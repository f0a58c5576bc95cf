// Package rank filters and orders reconciled entries for display.
package rank

import (
	"sort"
	"strings"

	"aipster/pkg/reconcile"
)

// Ranker orders entries using a Scorer for free-text queries.
type Ranker struct {
	scorer Scorer
}

// New creates a Ranker. A nil scorer selects DefaultScorer.
func New(scorer Scorer) *Ranker {
	if scorer == nil {
		scorer = DefaultScorer
	}
	return &Ranker{scorer: scorer}
}

// Scorer returns the scorer in use.
func (r *Ranker) Scorer() Scorer {
	return r.scorer
}

// Rank filters and orders entries. The input is not modified.
//
// With installedOnly set, only entries with a manifest match are kept.
// Without a query, entries are ordered by package name (byte-wise
// ascending). With a query, entries are ordered by descending similarity of
// their name to the query; entries with equal scores keep their relative
// input order. A blank query counts as no query.
func (r *Ranker) Rank(entries []reconcile.Entry, installedOnly bool, query string) []reconcile.Entry {
	filtered := Filter(entries, installedOnly)

	query = NormalizeQuery(query)
	if query == "" {
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Package.Name < filtered[j].Package.Name
		})
		return filtered
	}

	scores := make([]float64, len(filtered))
	for i, e := range filtered {
		scores[i] = r.scorer.Score(e.Package.Name, query)
	}

	sort.Stable(byScore{entries: filtered, scores: scores})
	return filtered
}

// Rank orders entries with the default scorer.
func Rank(entries []reconcile.Entry, installedOnly bool, query string) []reconcile.Entry {
	return New(nil).Rank(entries, installedOnly, query)
}

// Filter returns a copy of entries, keeping only installed ones when
// installedOnly is set.
func Filter(entries []reconcile.Entry, installedOnly bool) []reconcile.Entry {
	filtered := make([]reconcile.Entry, 0, len(entries))
	for _, e := range entries {
		if installedOnly && !e.IsInstalled() {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}

// NormalizeQuery trims surrounding whitespace.
func NormalizeQuery(query string) string {
	return strings.TrimSpace(query)
}

// byScore sorts entries by descending score, keeping both slices aligned.
type byScore struct {
	entries []reconcile.Entry
	scores  []float64
}

func (s byScore) Len() int { return len(s.entries) }

func (s byScore) Less(i, j int) bool { return s.scores[i] > s.scores[j] }

func (s byScore) Swap(i, j int) {
	s.entries[i], s.entries[j] = s.entries[j], s.entries[i]
	s.scores[i], s.scores[j] = s.scores[j], s.scores[i]
}
