package score

// EditDistance returns the Levenshtein distance between a and b: the minimum
// number of single-rune insertions, deletions, and substitutions (all at unit
// cost) required to transform a into b.
//
// Comparison is exact code-point equality. Callers that want case- and
// accent-insensitive distances should run both inputs through [Normalize]
// first; EditDistance itself performs no folding.
//
// The implementation builds the full (len(a)+1) × (len(b)+1) dynamic
// programming table over runes. Cost is O(|a|·|b|) time and space, which is
// fine for the short, human-spoken phrases this package scores.
func EditDistance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	d := make([][]int, len(ra)+1)
	for i := range d {
		d[i] = make([]int, len(rb)+1)
		d[i][0] = i
	}
	for j := 0; j <= len(rb); j++ {
		d[0][j] = j
	}

	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			d[i][j] = min(
				d[i-1][j]+1,      // deletion
				d[i][j-1]+1,      // insertion
				d[i-1][j-1]+cost, // substitution
			)
		}
	}

	return d[len(ra)][len(rb)]
}
