package dedup

// DefaultThreshold is the Jaccard similarity at or above which two prompts
// are near-duplicates.
const DefaultThreshold = 0.8

// Jaccard returns |A∩B| / |A∪B| over the token sets of a and b.
// Two empty token sets have similarity 0.
func Jaccard(a, b string) float64 {
	return jaccardSets(tokenSet(a), tokenSet(b))
}

// Judge flags candidates that are too similar to an accepted prompt.
type Judge struct {
	Threshold float64
}

// NewJudge returns a Judge; a non-positive threshold selects DefaultThreshold.
func NewJudge(threshold float64) *Judge {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Judge{Threshold: threshold}
}

// IsNearDuplicate reports whether any accepted prompt has similarity
// >= Threshold with candidate.
func (j *Judge) IsNearDuplicate(candidate string, accepted []string) bool {
	cs := tokenSet(candidate)
	for _, a := range accepted {
		if jaccardSets(cs, tokenSet(a)) >= j.Threshold {
			return true
		}
	}
	return false
}

// MostSimilar returns the accepted prompt closest to candidate and its
// similarity. ok is false when accepted is empty.
func (j *Judge) MostSimilar(candidate string, accepted []string) (match string, score float64, ok bool) {
	cs := tokenSet(candidate)
	for _, a := range accepted {
		s := jaccardSets(cs, tokenSet(a))
		if !ok || s > score {
			match, score, ok = a, s, true
		}
	}
	return match, score, ok
}

func tokenSet(s string) map[string]struct{} {
	tokens := Tokens(s)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

func jaccardSets(a, b map[string]struct{}) float64 {
	inter := 0
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
