package match

import (
	"cmp"
	"slices"
)

const (
	// DefaultSuggestScore is the minimum similarity for a name to be suggested.
	DefaultSuggestScore = 0.5
	// DefaultSuggestions is the number of suggestions attached to a diagnostic.
	DefaultSuggestions = 3
)

// Candidate is a known name ranked against a requested one.
type Candidate struct {
	// Name is the known name as registered.
	Name string
	// Score is the similarity in [0, 1]; higher is closer.
	Score float64

	NormalizedName   string
	NormalizedTarget string
}

// CandidateList is a ranked list of candidates.
type CandidateList []Candidate

// RankNames scores every known name against target, best first. Ties are
// broken by name so the order is deterministic.
//
// A name scores the better of its plain and suffix-stripped comparisons, so
// "account_id" is a close match for "account".
func RankNames(target string, names []string) CandidateList {
	targetNorm := NormalizeIdent(target)
	targetStripped := NormalizeIdentWithSuffixStrip(target)

	candidates := make(CandidateList, 0, len(names))

	for _, name := range names {
		norm := NormalizeIdent(name)
		score := max(
			LevenshteinNormalized(norm, targetNorm),
			LevenshteinNormalized(NormalizeIdentWithSuffixStrip(name), targetStripped),
		)

		candidates = append(candidates, Candidate{
			Name:             name,
			Score:            score,
			NormalizedName:   norm,
			NormalizedTarget: targetNorm,
		})
	}

	slices.SortFunc(candidates, func(a, b Candidate) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}

		return cmp.Compare(a.Name, b.Name)
	})

	return candidates
}

// Suggest returns up to n known names similar enough to target to be offered
// as "did you mean" hints.
func Suggest(target string, names []string, n int) []string {
	ranked := RankNames(target, names).AboveThreshold(DefaultSuggestScore).Top(n)

	result := make([]string, 0, len(ranked))
	for _, c := range ranked {
		result = append(result, c.Name)
	}

	return result
}

// Top returns at most the first n candidates.
func (c CandidateList) Top(n int) CandidateList {
	return c[:min(n, len(c))]
}

// Best returns the best candidate, or nil if the list is empty.
func (c CandidateList) Best() *Candidate {
	if len(c) == 0 {
		return nil
	}

	return &c[0]
}

// AboveThreshold returns the candidates scoring at least threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	return slices.DeleteFunc(slices.Clone(c), func(cand Candidate) bool {
		return cand.Score < threshold
	})
}
