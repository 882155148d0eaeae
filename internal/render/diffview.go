package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/thiagokokada/gitk-layout/internal/diff"
	"github.com/thiagokokada/gitk-layout/internal/git"
)

type DiffMode string

const (
	ModeSideBySide DiffMode = "side"
	ModeInline     DiffMode = "inline"
)

func ParseDiffMode(s string) (DiffMode, error) {
	switch DiffMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeSideBySide:
		return ModeSideBySide, nil
	case ModeInline:
		return ModeInline, nil
	}
	return "", fmt.Errorf("unknown diff mode %q (want %s or %s)", s, ModeSideBySide, ModeInline)
}

const (
	// DefaultWidth is used when the terminal width is unknown.
	DefaultWidth = 160
	numberCells  = 5
	tabWidth     = 4
	minColumn    = 16
)

// FileView is one file of a diff with its hunks already aligned and
// highlighted, Rows[i] belonging to File.Hunks[i].
type FileView struct {
	File git.FileDiff
	Rows [][]diff.Row
}

// DiffView prints aligned diff rows.
type DiffView struct {
	Palette Palette
	Color   bool
	Width   int
	Mode    DiffMode
	// Highlighter colors unchanged code; nil disables syntax colors.
	Highlighter *Highlighter
}

func (v *DiffView) Render(w io.Writer, files []FileView) error {
	st := styler{enabled: v.Color}
	var b strings.Builder
	for _, f := range files {
		v.fileHeader(&b, st, f.File)
		if f.File.Binary {
			b.WriteString("  Binary file differs\n")
			continue
		}
		for i, rows := range f.Rows {
			if i < len(f.File.Hunks) {
				b.WriteString(st.fg(f.File.Hunks[i].Header, v.Palette.DiffHeader))
				b.WriteByte('\n')
			}
			for _, r := range rows {
				if v.Mode == ModeInline {
					v.inlineRow(&b, st, f.File, r)
				} else {
					v.sideRow(&b, st, f.File, r)
				}
			}
		}
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		b.Reset()
	}
	return nil
}

func (v *DiffView) fileHeader(b *strings.Builder, st styler, f git.FileDiff) {
	title := f.Path()
	switch {
	case f.OldPath == "":
		title += " (new)"
	case f.NewPath == "":
		title += " (deleted)"
	case f.OldPath != f.NewPath:
		title = f.OldPath + " → " + f.NewPath
	}
	b.WriteString(st.bold(title))
	b.WriteByte('\n')
}

func (v *DiffView) columnWidth() int {
	width := v.Width
	if width <= 0 {
		width = DefaultWidth
	}
	// Two number gutters, a separator and a space each side of it.
	return max((width-2*numberCells-3)/2, minColumn)
}

func (v *DiffView) sideRow(b *strings.Builder, st styler, f git.FileDiff, r diff.Row) {
	col := v.columnWidth()
	kind := r.Kind()
	v.cell(b, st, f.OldPath, r.Old, r.OldSegments, kind, true, col)
	b.WriteString(" │ ")
	v.cell(b, st, f.NewPath, r.New, r.NewSegments, kind, false, col)
	b.WriteByte('\n')
}

func (v *DiffView) cell(b *strings.Builder, st styler, path string, l *diff.Line, segs []diff.Segment, kind diff.ChangeKind, old bool, width int) {
	if l == nil {
		b.WriteString(strings.Repeat(" ", numberCells+width))
		return
	}
	number := l.NewNumber
	if old {
		number = l.OldNumber
	}
	b.WriteString(st.fg(fmt.Sprintf("%4d ", number), v.Palette.LineNumber))

	spans, used := fitSpans(expandTabs(v.spans(path, l, segs), tabWidth), width)
	bg, word := v.Palette.DiffAdd, v.Palette.DiffAddWord
	if old {
		bg, word = v.Palette.DiffDel, v.Palette.DiffDelWord
	}
	if kind == diff.ChangeContext {
		bg, word = "", ""
	}
	for _, s := range spans {
		if s.Changed {
			b.WriteString(st.paint(s.Text, s.FG, word, true))
		} else {
			b.WriteString(st.paint(s.Text, s.FG, bg, false))
		}
	}
	b.WriteString(st.paint(strings.Repeat(" ", width-used), "", bg, false))
}

// spans picks word segments on modification rows and syntax colors
// everywhere else.
func (v *DiffView) spans(path string, l *diff.Line, segs []diff.Segment) []Span {
	if len(segs) > 0 {
		return segmentSpans(segs)
	}
	return v.Highlighter.Spans(path, l.Content)
}

func (v *DiffView) inlineRow(b *strings.Builder, st styler, f git.FileDiff, r diff.Row) {
	switch r.Kind() {
	case diff.ChangeContext:
		v.inlineLine(b, st, " ", f.NewPath, r.New, nil, "", "")
	case diff.ChangeDeletion:
		v.inlineLine(b, st, "-", f.OldPath, r.Old, nil, v.Palette.DiffDel, "")
	case diff.ChangeAddition:
		v.inlineLine(b, st, "+", f.NewPath, r.New, nil, v.Palette.DiffAdd, "")
	default:
		v.inlineLine(b, st, "-", f.OldPath, r.Old, r.OldSegments, v.Palette.DiffDel, v.Palette.DiffDelWord)
		v.inlineLine(b, st, "+", f.NewPath, r.New, r.NewSegments, v.Palette.DiffAdd, v.Palette.DiffAddWord)
	}
}

func (v *DiffView) inlineLine(b *strings.Builder, st styler, marker, path string, l *diff.Line, segs []diff.Segment, bg, word string) {
	width := v.Width
	if width <= 0 {
		width = DefaultWidth
	}
	spans, _ := fitSpans(expandTabs(v.spans(path, l, segs), tabWidth), max(width-runewidth.StringWidth(marker), minColumn))
	b.WriteString(st.paint(marker, "", bg, false))
	for _, s := range spans {
		if s.Changed {
			b.WriteString(st.paint(s.Text, s.FG, word, true))
		} else {
			b.WriteString(st.paint(s.Text, s.FG, bg, false))
		}
	}
	b.WriteByte('\n')
}
