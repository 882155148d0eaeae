// Package diff turns parsed hunks into side-by-side rows and computes
// word-level changes between paired lines.
package diff

// Align pairs hunk lines into side-by-side rows. Runs of deletions and
// additions between context lines are paired positionally; leftovers get a
// row with one empty side. Hunk headers and no-newline markers are skipped.
func Align(lines []Line) []AlignedLine {
	var (
		out       []AlignedLine
		deletions []*Line
		additions []*Line
	)
	flush := func() {
		k := min(len(deletions), len(additions))
		for i := range k {
			out = append(out, AlignedLine{Old: deletions[i], New: additions[i]})
		}
		for _, d := range deletions[k:] {
			out = append(out, AlignedLine{Old: d})
		}
		for _, a := range additions[k:] {
			out = append(out, AlignedLine{New: a})
		}
		deletions = deletions[:0]
		additions = additions[:0]
	}
	for i := range lines {
		l := lines[i]
		switch l.Type {
		case LineContext:
			flush()
			out = append(out, AlignedLine{Old: &l, New: &l})
		case LineDeletion:
			deletions = append(deletions, &l)
		case LineAddition:
			additions = append(additions, &l)
		default:
		}
	}
	flush()
	return out
}

// OldSide returns the old-side lines of rows in order, skipping gaps.
func OldSide(rows []AlignedLine) []Line {
	var out []Line
	for _, r := range rows {
		if r.Old != nil {
			out = append(out, *r.Old)
		}
	}
	return out
}

// NewSide returns the new-side lines of rows in order, skipping gaps.
func NewSide(rows []AlignedLine) []Line {
	var out []Line
	for _, r := range rows {
		if r.New != nil {
			out = append(out, *r.New)
		}
	}
	return out
}
