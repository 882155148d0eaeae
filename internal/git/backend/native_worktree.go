package backend

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	gitindex "github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/pmezard/go-difflib/difflib"
)

// binarySniffLen matches the prefix git inspects for NUL bytes.
const binarySniffLen = 8000

type localChange struct {
	path string
	from []byte
	to   []byte
}

// WorktreeDiffText diffs HEAD against the index when staged, and the index
// against the working tree otherwise. Untracked files are not reported.
func (n *native) WorktreeDiffText(staged bool) (string, error) {
	wt, err := n.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("open worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return "", fmt.Errorf("worktree status: %w", err)
	}
	idx, err := n.repo.Storer.Index()
	if err != nil {
		return "", fmt.Errorf("read index: %w", err)
	}
	headTree, err := n.headTree()
	if err != nil {
		return "", err
	}

	var paths []string
	for path, st := range status {
		code := st.Worktree
		if staged {
			code = st.Staging
		}
		if code != gitlib.Unmodified && code != gitlib.Untracked {
			paths = append(paths, path)
		}
	}
	slices.Sort(paths)

	var changes []localChange
	for _, path := range paths {
		ch := localChange{path: path}
		if staged {
			if ch.from, err = fileFromTree(headTree, path); err != nil {
				return "", err
			}
			if ch.to, err = n.fileFromIndex(idx, path); err != nil {
				return "", err
			}
		} else {
			if ch.from, err = n.fileFromIndex(idx, path); err != nil {
				return "", err
			}
			if ch.to, err = fileFromWorktree(wt, path); err != nil {
				return "", err
			}
		}
		changes = append(changes, ch)
	}
	return renderLocalDiff(changes)
}

func (n *native) headTree() (*object.Tree, error) {
	ref, err := n.repo.Head()
	if err != nil {
		if err == plumbing.ErrReferenceNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}
	commit, err := n.repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, err
	}
	return commit.Tree()
}

func fileFromTree(tree *object.Tree, path string) ([]byte, error) {
	if tree == nil {
		return nil, nil
	}
	f, err := tree.File(path)
	if err == object.ErrFileNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	content, err := f.Contents()
	if err != nil {
		return nil, err
	}
	return []byte(content), nil
}

func (n *native) fileFromIndex(idx *gitindex.Index, path string) ([]byte, error) {
	entry, err := idx.Entry(path)
	if err == gitindex.ErrEntryNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	blob, err := n.repo.BlobObject(entry.Hash)
	if err != nil {
		return nil, err
	}
	r, err := blob.Reader()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func fileFromWorktree(wt *gitlib.Worktree, path string) ([]byte, error) {
	f, err := wt.Filesystem.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func isBinary(data []byte) bool {
	return bytes.IndexByte(data[:min(len(data), binarySniffLen)], 0) >= 0
}

func renderLocalDiff(changes []localChange) (string, error) {
	var b strings.Builder
	for _, ch := range changes {
		fromName, toName := "a/"+ch.path, "b/"+ch.path
		fmt.Fprintf(&b, "diff --git %s %s\n", fromName, toName)
		if ch.from == nil {
			fromName = "/dev/null"
			b.WriteString("new file mode 100644\n")
		}
		if ch.to == nil {
			toName = "/dev/null"
			b.WriteString("deleted file mode 100644\n")
		}
		if isBinary(ch.from) || isBinary(ch.to) {
			fmt.Fprintf(&b, "Binary files %s and %s differ\n", fromName, toName)
			continue
		}
		text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        splitLines(ch.from),
			B:        splitLines(ch.to),
			FromFile: fromName,
			ToFile:   toName,
			Context:  3,
		})
		if err != nil {
			return "", fmt.Errorf("diff %s: %w", ch.path, err)
		}
		b.WriteString(text)
	}
	return b.String(), nil
}

const noNewlineMarker = "\\ No newline at end of file\n"

// splitLines keeps each line's terminator. An unterminated last line
// carries the marker git prints after it, which also makes it compare
// unequal to the same text with a newline.
func splitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	lines := strings.SplitAfter(string(data), "\n")
	last := len(lines) - 1
	if lines[last] == "" {
		return lines[:last]
	}
	lines[last] += "\n" + noNewlineMarker
	return lines
}
