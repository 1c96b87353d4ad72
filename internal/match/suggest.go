package match

import "sort"

// DefaultThreshold is the minimum Similarity a candidate needs to be suggested.
const DefaultThreshold = 0.5

// Suggest returns up to limit candidates resembling input, best first.
// Candidates equal to input after normalization always rank first; ties keep
// the candidates' original order. A limit <= 0 means no limit.
func Suggest(input string, candidates []string, limit int) []string {
	type scored struct {
		value string
		score float64
		index int
	}

	var ranked []scored

	for i, c := range candidates {
		s := Similarity(input, c)
		if s < DefaultThreshold {
			continue
		}

		ranked = append(ranked, scored{value: c, score: s, index: i})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.value
	}

	return out
}
