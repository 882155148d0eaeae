package git

import (
	"fmt"
	"log/slog"
)

// CommitDiff returns the commit named by rev and its changes against the
// first parent. Root commits are diffed against the empty tree.
func (s *Service) CommitDiff(rev string) (*Commit, []FileDiff, error) {
	if rev == "" {
		rev = "HEAD"
	}
	commit, err := s.Commit(rev)
	if err != nil {
		return nil, nil, err
	}
	parent := ""
	if len(commit.ParentHashes) > 0 {
		parent = commit.ParentHashes[0]
	}
	text, err := s.backend.CommitDiffText(commit.Hash, parent)
	if err != nil {
		return nil, nil, fmt.Errorf("diff %s: %w", commit.ShortHash(), err)
	}
	files := ParseUnified(text)
	slog.Debug("CommitDiff",
		slog.String("commit", commit.Hash),
		slog.String("parent", parent),
		slog.Int("files", len(files)),
	)
	return commit, files, nil
}

// WorktreeDiff returns index-to-worktree changes, or HEAD-to-index changes
// when staged is set.
func (s *Service) WorktreeDiff(staged bool) ([]FileDiff, error) {
	if s.backend == nil || s.backend.RepoPath() == "" {
		return nil, fmt.Errorf("repository root not set")
	}
	text, err := s.backend.WorktreeDiffText(staged)
	if err != nil {
		return nil, err
	}
	files := ParseUnified(text)
	slog.Debug("WorktreeDiff", slog.Bool("staged", staged), slog.Int("files", len(files)))
	return files, nil
}

// LocalDiffTitle describes what WorktreeDiff(staged) shows.
func LocalDiffTitle(staged bool) string {
	if staged {
		return "Local changes checked into index but not committed"
	}
	return "Local uncommitted changes, not checked in to index"
}
