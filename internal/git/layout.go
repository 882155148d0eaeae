package git

import "github.com/thiagokokada/gitk-layout/internal/graph"

// LayoutCommits lays out commits in the given order. Parents outside the
// slice are treated as absent.
func LayoutCommits(commits []*Commit) []graph.Node {
	in := make([]graph.Commit, 0, len(commits))
	for _, c := range commits {
		if c == nil {
			continue
		}
		in = append(in, graph.Commit{Hash: c.Hash, Parents: c.ParentHashes})
	}
	return graph.Layout(in)
}

// LayoutEntries is LayoutCommits over Log entries.
func LayoutEntries(entries []*Entry) []graph.Node {
	commits := make([]*Commit, 0, len(entries))
	for _, e := range entries {
		if e != nil {
			commits = append(commits, e.Commit)
		}
	}
	return LayoutCommits(commits)
}
