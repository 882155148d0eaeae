package backend

import (
	"bytes"
	"fmt"
	"log/slog"
	"path/filepath"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	fdiff "github.com/go-git/go-git/v5/plumbing/format/diff"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

type native struct {
	repo *gitlib.Repository
	path string
}

// OpenNative returns a Backend that reads the repository with go-git.
func OpenNative(repoPath string) (Backend, error) {
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, err
	}
	repo, err := gitlib.PlainOpenWithOptions(abs, &gitlib.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	root := abs
	if wt, err := repo.Worktree(); err == nil {
		root = wt.Filesystem.Root()
	}
	slog.Debug("native backend opened", slog.String("root", root))
	return newNative(repo, root), nil
}

func newNative(repo *gitlib.Repository, path string) *native {
	return &native{repo: repo, path: path}
}

func (n *native) RepoPath() string {
	if n == nil {
		return ""
	}
	return n.path
}

type nativeLogStream struct {
	iter object.CommitIter
}

func (n *native) StartLogStream(fromHash string) (LogStream, error) {
	if fromHash == "" {
		return nil, fmt.Errorf("starting commit not specified")
	}
	iter, err := n.repo.Log(&gitlib.LogOptions{
		From:  plumbing.NewHash(fromHash),
		Order: gitlib.LogOrderCommitterTime,
	})
	if err != nil {
		return nil, fmt.Errorf("read commits: %w", err)
	}
	return &nativeLogStream{iter: iter}, nil
}

func (s *nativeLogStream) Next() (*Commit, error) {
	c, err := s.iter.Next()
	if err != nil {
		return nil, err
	}
	return commitFromObject(c), nil
}

func (s *nativeLogStream) Close() error {
	s.iter.Close()
	return nil
}

func commitFromObject(c *object.Commit) *Commit {
	parents := make([]string, len(c.ParentHashes))
	for i, p := range c.ParentHashes {
		parents[i] = p.String()
	}
	return &Commit{
		Hash:         c.Hash.String(),
		ParentHashes: parents,
		Author:       Signature{Name: c.Author.Name, Email: c.Author.Email, When: c.Author.When},
		Committer:    Signature{Name: c.Committer.Name, Email: c.Committer.Email, When: c.Committer.When},
		Message:      c.Message,
	}
}

func (n *native) HeadState() (hash string, headName string, ok bool, err error) {
	ref, err := n.repo.Head()
	if err != nil {
		if err == plumbing.ErrReferenceNotFound {
			return "", "", false, nil
		}
		return "", "", false, fmt.Errorf("resolve HEAD: %w", err)
	}
	headName = "HEAD"
	if ref.Name().IsBranch() {
		headName = ref.Name().Short()
	}
	return ref.Hash().String(), headName, true, nil
}

func (n *native) ResolveRevision(rev string) (string, error) {
	if rev == "" {
		return "", fmt.Errorf("revision not specified")
	}
	h, err := n.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return "", fmt.Errorf("unknown revision %q: %w", rev, err)
	}
	return h.String(), nil
}

func (n *native) ListRefs() ([]Ref, error) {
	iter, err := n.repo.References()
	if err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}
	defer iter.Close()
	var refs []Ref
	err = iter.ForEach(func(r *plumbing.Reference) error {
		if r.Type() != plumbing.HashReference {
			return nil
		}
		ref, ok := refFromName(r.Hash().String(), r.Name().String())
		if !ok {
			return nil
		}
		if ref.Kind == RefKindTag {
			// Annotated tags point at a tag object; label the commit instead.
			if tag, err := n.repo.TagObject(r.Hash()); err == nil {
				if c, err := tag.Commit(); err == nil {
					ref.Hash = c.Hash.String()
				}
			}
		}
		refs = append(refs, ref)
		return nil
	})
	if err != nil && err != storer.ErrStop {
		return nil, err
	}
	return refs, nil
}

func (n *native) CommitDiffText(commitHash string, parentHash string) (string, error) {
	if commitHash == "" {
		return "", fmt.Errorf("commit not specified")
	}
	commit, err := n.repo.CommitObject(plumbing.NewHash(commitHash))
	if err != nil {
		return "", fmt.Errorf("read commit %s: %w", commitHash, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return "", err
	}
	var parentTree *object.Tree
	if parentHash != "" {
		parent, err := n.repo.CommitObject(plumbing.NewHash(parentHash))
		if err != nil {
			return "", fmt.Errorf("read commit %s: %w", parentHash, err)
		}
		if parentTree, err = parent.Tree(); err != nil {
			return "", err
		}
	}
	changes, err := object.DiffTree(parentTree, tree)
	if err != nil {
		return "", fmt.Errorf("diff trees: %w", err)
	}
	if len(changes) == 0 {
		return "", nil
	}
	patch, err := changes.Patch()
	if err != nil {
		return "", fmt.Errorf("build patch: %w", err)
	}
	var buf bytes.Buffer
	if err := fdiff.NewUnifiedEncoder(&buf, fdiff.DefaultContextLines).Encode(patch); err != nil {
		return "", fmt.Errorf("encode patch: %w", err)
	}
	return buf.String(), nil
}
