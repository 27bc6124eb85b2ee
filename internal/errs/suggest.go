package errs

import "fmt"

// Suggest returns a "did you mean X?" hint for query against candidates,
// derived from Levenshtein edit distance. It returns "" when candidates is
// empty or the closest match is more than len(query)/3+1 edits away (a
// threshold past which the suggestion stops being useful).
//
// There is no third-party fuzzy-matching library anywhere in the retrieved
// pack; Levenshtein distance over short identifier strings is a handful of
// lines and does not warrant pulling in a dependency to replace it.
func Suggest(query string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	best := candidates[0]
	bestDist := levenshtein(query, best)
	for _, c := range candidates[1:] {
		if d := levenshtein(query, c); d < bestDist {
			bestDist, best = d, c
		}
	}
	threshold := len(query)/3 + 1
	if bestDist > threshold {
		return ""
	}
	return fmt.Sprintf("did you mean %q?", best)
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			curr[j] = min(del, min(ins, sub))
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
