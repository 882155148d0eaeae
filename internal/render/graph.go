package render

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/thiagokokada/gitk-layout/internal/git"
	"github.com/thiagokokada/gitk-layout/internal/graph"
)

// GraphView prints one text row per laid-out commit.
type GraphView struct {
	Palette Palette
	Color   bool
	// Width truncates rows to this many cells; 0 disables truncation.
	Width int
	// Now anchors relative dates; nil means time.Now.
	Now func() time.Time
}

// Glyphs draws the lane columns of a node, two cells per lane.
//
//	*  the commit
//	|  a lane passing the row
//	/  a lane that ends here (converging) left of the commit, or starts
//	   here right of it from a merge
//	\  the mirror image
func Glyphs(n graph.Node) []string {
	width := n.Width()
	for _, l := range n.Converging {
		width = max(width, l+1)
	}
	cols := make([]string, width)
	for lane := range width {
		cols[lane] = " "
		_, above := graph.ColorOf(n.Continuing, lane)
		_, below := graph.ColorOf(n.Active, lane)
		switch {
		case lane == n.Lane:
			cols[lane] = "*"
		case slices.Contains(n.Converging, lane):
			cols[lane] = slant(lane < n.Lane)
		case above && below:
			cols[lane] = "|"
		case below && connectsTo(n, lane):
			cols[lane] = slant(lane > n.Lane)
		case above || below:
			cols[lane] = "|"
		case connectsTo(n, lane):
			cols[lane] = slant(lane > n.Lane)
		}
	}
	return cols
}

func slant(back bool) string {
	if back {
		return `\`
	}
	return "/"
}

func connectsTo(n graph.Node, lane int) bool {
	for _, c := range n.Connectors {
		if c.ToLane == lane && c.FromLane != lane {
			return true
		}
	}
	return false
}

// glyphColor picks the color id a glyph column is drawn with.
func glyphColor(n graph.Node, lane int) int {
	if lane == n.Lane {
		return n.Color
	}
	if c, ok := graph.ColorOf(n.Active, lane); ok {
		return c
	}
	if c, ok := graph.ColorOf(n.Continuing, lane); ok {
		return c
	}
	return n.Color
}

// Render writes entries[i] next to nodes[i]. labels maps hashes to
// decorations as returned by git.Service.BranchLabels.
func (v *GraphView) Render(w io.Writer, entries []*git.Entry, nodes []graph.Node, labels map[string][]string) error {
	if len(entries) != len(nodes) {
		return fmt.Errorf("render graph: %d entries for %d nodes", len(entries), len(nodes))
	}
	now := time.Now
	if v.Now != nil {
		now = v.Now
	}
	st := styler{enabled: v.Color}

	graphCells := 0
	for _, n := range nodes {
		graphCells = max(graphCells, 2*len(Glyphs(n)))
	}

	for i, n := range nodes {
		e := entries[i]
		var b strings.Builder
		for lane, g := range Glyphs(n) {
			b.WriteString(st.fg(g, v.Palette.LaneHex(glyphColor(n, lane))))
			b.WriteByte(' ')
		}
		b.WriteString(strings.Repeat(" ", graphCells-2*len(Glyphs(n))))

		plain := rowText(e, labels[e.Commit.Hash], now())
		if v.Width > 0 {
			plain = runewidth.Truncate(plain, max(v.Width-graphCells, 1), "…")
		}
		b.WriteString(v.styleRowText(st, plain, e, labels[e.Commit.Hash]))
		b.WriteByte('\n')
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

func rowText(e *git.Entry, labels []string, now time.Time) string {
	var b strings.Builder
	b.WriteString(e.Commit.ShortHash())
	if len(labels) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(labels, ", "))
	}
	b.WriteByte(' ')
	b.WriteString(e.Summary)
	if when := e.Commit.Committer.When; !when.IsZero() {
		fmt.Fprintf(&b, " (%s, %s)", humanize.RelTime(when, now, "ago", "from now"), e.Commit.Author.Name)
	}
	return b.String()
}

// styleRowText colors the hash and labels prefix of an already truncated
// row; whatever truncation removed stays plain.
func (v *GraphView) styleRowText(st styler, plain string, e *git.Entry, labels []string) string {
	if !st.enabled {
		return plain
	}
	hash := e.Commit.ShortHash()
	rest, ok := strings.CutPrefix(plain, hash)
	if !ok {
		return plain
	}
	out := st.fg(hash, v.Palette.DiffHeader)
	if len(labels) > 0 {
		decor := fmt.Sprintf(" (%s)", strings.Join(labels, ", "))
		if after, ok := strings.CutPrefix(rest, decor); ok {
			return out + st.bold(decor) + after
		}
	}
	return out + rest
}
