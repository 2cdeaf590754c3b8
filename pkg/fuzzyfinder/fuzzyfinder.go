// Package fuzzyfinder ranks search candidates for the company and contact
// search endpoints.
package fuzzyfinder

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

type Rank struct {
	// Source is used as the source for matching.
	Source string

	// Target is the word matched against.
	Target string

	// Distance is the Levenshtein distance between Source and Target.
	Distance int

	// Location of Target in original list
	OriginalIndex int
}

// RankFindNormalized matches query against keys accent-insensitively, which
// matters for pt-BR names ("São Paulo" vs "sao paulo"), and returns matches
// ordered best first.
func RankFindNormalized(keys []string, query string) []Rank {
	ranksLib := fuzzy.RankFindNormalizedFold(query, keys)
	sort.Sort(ranksLib)
	ranks := make([]Rank, ranksLib.Len())
	for i, r := range ranksLib {
		ranks[i] = Rank{
			Source:        r.Source,
			Target:        r.Target,
			Distance:      r.Distance,
			OriginalIndex: r.OriginalIndex,
		}
	}
	return ranks
}

// MatchNormalized reports whether query fuzzily matches target ignoring case
// and accents.
func MatchNormalized(query, target string) bool {
	return fuzzy.MatchNormalizedFold(query, target)
}
