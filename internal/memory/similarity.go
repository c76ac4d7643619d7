package memory

// Similarity scores how alike two strings are, in [0,1]. The store only
// cares that near-duplicates score high; the exact algorithm is pluggable.
type Similarity func(a, b string) float64

// LCSRatio is the default similarity: 2*LCS(a,b) / (len(a)+len(b)),
// the same ratio difflib-style matchers produce for ordered text.
func LCSRatio(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	// Single-row DP over the shorter string to keep allocation small.
	if len(b) > len(a) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	lcs := prev[len(b)]

	return 2.0 * float64(lcs) / float64(len(a)+len(b))
}
