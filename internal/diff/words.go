package diff

import "unicode"

// Tokenize splits s into maximal runs that are either all whitespace or all
// non-whitespace. Joining the tokens yields s.
func Tokenize(s string) []string {
	if s == "" {
		return nil
	}
	var tokens []string
	start := 0
	inSpace := false
	for i, r := range s {
		space := unicode.IsSpace(r)
		if i == 0 {
			inSpace = space
			continue
		}
		if space != inSpace {
			tokens = append(tokens, s[start:i])
			start = i
			inSpace = space
		}
	}
	return append(tokens, s[start:])
}

// Compare marks which tokens of old and new are outside their longest common
// subsequence. Identical inputs yield only unchanged segments.
//
// Cost is proportional to the product of both token counts. Use
// CompareLimited to bound it.
func Compare(old, new string) (oldSegs, newSegs []Segment) {
	return compareTokens(Tokenize(old), Tokenize(new))
}

// CompareLimited behaves like Compare unless either side has more than
// maxTokens tokens, in which case each side becomes a single segment that is
// unchanged only when the lines are equal. maxTokens <= 0 disables the cap.
func CompareLimited(old, new string, maxTokens int) (oldSegs, newSegs []Segment) {
	oldTokens := Tokenize(old)
	newTokens := Tokenize(new)
	if maxTokens > 0 && (len(oldTokens) > maxTokens || len(newTokens) > maxTokens) {
		return wholeLine(old, new)
	}
	return compareTokens(oldTokens, newTokens)
}

func wholeLine(old, new string) (oldSegs, newSegs []Segment) {
	changed := old != new
	if old != "" {
		oldSegs = []Segment{{Text: old, Changed: changed}}
	}
	if new != "" {
		newSegs = []Segment{{Text: new, Changed: changed}}
	}
	return oldSegs, newSegs
}

func compareTokens(oldTokens, newTokens []string) (oldSegs, newSegs []Segment) {
	common := lcs(oldTokens, newTokens)
	oldSegs = make([]Segment, 0, len(oldTokens))
	newSegs = make([]Segment, 0, len(newTokens))
	oi, ni := 0, 0
	for _, tok := range common {
		for oldTokens[oi] != tok {
			oldSegs = append(oldSegs, Segment{Text: oldTokens[oi], Changed: true})
			oi++
		}
		for newTokens[ni] != tok {
			newSegs = append(newSegs, Segment{Text: newTokens[ni], Changed: true})
			ni++
		}
		oldSegs = append(oldSegs, Segment{Text: tok})
		newSegs = append(newSegs, Segment{Text: tok})
		oi++
		ni++
	}
	for _, tok := range oldTokens[oi:] {
		oldSegs = append(oldSegs, Segment{Text: tok, Changed: true})
	}
	for _, tok := range newTokens[ni:] {
		newSegs = append(newSegs, Segment{Text: tok, Changed: true})
	}
	return oldSegs, newSegs
}

// lcs returns the longest common token subsequence of a and b. When both
// neighbours of a cell tie, the backtrack moves along b first so repeated
// runs resolve the same way every time.
func lcs(a, b []string) []string {
	m, n := len(a), len(b)
	if m == 0 || n == 0 {
		return nil
	}
	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if a[i-1] == b[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
			} else {
				dp[i][j] = max(dp[i-1][j], dp[i][j-1])
			}
		}
	}
	out := make([]string, dp[m][n])
	k := len(out)
	for i, j := m, n; i > 0 && j > 0; {
		switch {
		case a[i-1] == b[j-1]:
			k--
			out[k] = a[i-1]
			i--
			j--
		case dp[i-1][j] > dp[i][j-1]:
			i--
		default:
			j--
		}
	}
	return out
}
