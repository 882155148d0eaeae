package diff

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Row is an aligned line with optional word segments. Segments are only set
// on modification rows.
type Row struct {
	AlignedLine `yaml:",inline"`
	OldSegments []Segment `json:"old_segments,omitempty" yaml:"old_segments,omitempty"`
	NewSegments []Segment `json:"new_segments,omitempty" yaml:"new_segments,omitempty"`
}

// Highlight attaches word segments to every modification row. A nil cmp
// uses Default.
func Highlight(rows []AlignedLine, cmp Comparer) []Row {
	if cmp == nil {
		cmp = Default
	}
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = Row{AlignedLine: r}
		if r.Kind() != ChangeModification {
			continue
		}
		out[i].OldSegments, out[i].NewSegments = cmp.Compare(r.Old.Content, r.New.Content)
	}
	return out
}

// HighlightParallel aligns and highlights each hunk on its own worker, at
// most workers at a time (GOMAXPROCS when workers <= 0). Results keep the
// hunk order. cmp must be safe for concurrent use.
func HighlightParallel(ctx context.Context, hunks [][]Line, cmp Comparer, workers int) ([][]Row, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	out := make([][]Row, len(hunks))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, lines := range hunks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = Highlight(Align(lines), cmp)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
