package rank

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/sahilm/fuzzy"
)

// Scorer rates how similar a package name is to a search query.
//
// Scores lie in [0, 1]: identical strings score 1, strings sharing no
// characters score 0. Implementations must be deterministic.
type Scorer interface {
	Name() string
	Score(name, query string) float64
}

// EditDistance scores by normalized Levenshtein distance,
// 1 - distance/max(len(name), len(query)), ignoring case.
type EditDistance struct{}

// Name implements Scorer.
func (EditDistance) Name() string { return "levenshtein" }

// Score implements Scorer.
func (EditDistance) Score(name, query string) float64 {
	name = strings.ToLower(name)
	query = strings.ToLower(query)
	if name == query {
		return 1
	}

	longest := utf8.RuneCountInString(name)
	if n := utf8.RuneCountInString(query); n > longest {
		longest = n
	}

	d := levenshtein.ComputeDistance(name, query)
	return clamp(1 - float64(d)/float64(longest))
}

// Subsequence scores names that contain the query's characters in order,
// weighting by how much of the name the query covers. Names that do not
// contain the query as a subsequence score 0.
type Subsequence struct{}

// Name implements Scorer.
func (Subsequence) Name() string { return "subsequence" }

// Score implements Scorer.
func (Subsequence) Score(name, query string) float64 {
	name = strings.ToLower(name)
	query = strings.ToLower(query)
	if name == query {
		return 1
	}
	if query == "" || name == "" {
		return 0
	}

	matches := fuzzy.Find(query, []string{name})
	if len(matches) == 0 {
		return 0
	}

	return clamp(float64(len(matches[0].MatchedIndexes)) / float64(utf8.RuneCountInString(name)))
}

func clamp(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

var scorers = map[string]Scorer{
	EditDistance{}.Name(): EditDistance{},
	Subsequence{}.Name():  Subsequence{},
}

// DefaultScorer is used when no scorer is configured.
var DefaultScorer Scorer = EditDistance{}

// ScorerByName returns the scorer registered under name. An empty name
// selects DefaultScorer.
func ScorerByName(name string) (Scorer, error) {
	if name == "" {
		return DefaultScorer, nil
	}
	if s, ok := scorers[name]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("unknown scorer %q (available: %s)", name, strings.Join(ScorerNames(), ", "))
}

// ScorerNames lists the registered scorer names.
func ScorerNames() []string {
	names := make([]string, 0, len(scorers))
	for name := range scorers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
