package render

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/thiagokokada/gitk-layout/internal/diff"
)

// Span is a run of text drawn with one style.
type Span struct {
	Text string
	FG   string
	// Changed marks a word-diff change.
	Changed bool
}

func plainSpans(text string) []Span {
	if text == "" {
		return nil
	}
	return []Span{{Text: text}}
}

func segmentSpans(segments []diff.Segment) []Span {
	spans := make([]Span, 0, len(segments))
	for _, s := range segments {
		spans = append(spans, Span{Text: s.Text, Changed: s.Changed})
	}
	return spans
}

func expandTabs(spans []Span, tabWidth int) []Span {
	tab := strings.Repeat(" ", tabWidth)
	for i := range spans {
		spans[i].Text = strings.ReplaceAll(spans[i].Text, "\t", tab)
	}
	return spans
}

// fitSpans truncates spans to width display cells, ending with "…" when
// something was cut, and returns the cells used.
func fitSpans(spans []Span, width int) ([]Span, int) {
	total := 0
	for _, s := range spans {
		total += runewidth.StringWidth(s.Text)
	}
	if total <= width {
		return spans, total
	}
	const tail = "…"
	budget := width - runewidth.StringWidth(tail)
	var out []Span
	used := 0
	for _, s := range spans {
		w := runewidth.StringWidth(s.Text)
		if used+w <= budget {
			out = append(out, s)
			used += w
			continue
		}
		if room := budget - used; room > 0 {
			cut := runewidth.Truncate(s.Text, room, "")
			out = append(out, Span{Text: cut, FG: s.FG, Changed: s.Changed})
			used += runewidth.StringWidth(cut)
		}
		break
	}
	if budget >= 0 {
		out = append(out, Span{Text: tail})
		used += runewidth.StringWidth(tail)
	}
	return out, used
}
