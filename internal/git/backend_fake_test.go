package git

import (
	"errors"
	"io"

	gitbackend "github.com/thiagokokada/gitk-layout/internal/git/backend"
)

type fakeBackend struct {
	repoPath string

	headStateFunc        func() (hash string, headName string, ok bool, err error)
	resolveRevisionFunc  func(rev string) (string, error)
	listRefsFunc         func() ([]gitbackend.Ref, error)
	commitDiffTextFunc   func(commitHash string, parentHash string) (string, error)
	worktreeDiffTextFunc func(staged bool) (string, error)
	startLogStreamFunc   func(fromHash string) (gitbackend.LogStream, error)

	lastCommitHash  string
	lastParentHash  string
	lastStagedParam *bool
}

func (f *fakeBackend) RepoPath() string { return f.repoPath }

func (f *fakeBackend) StartLogStream(fromHash string) (gitbackend.LogStream, error) {
	if f.startLogStreamFunc != nil {
		return f.startLogStreamFunc(fromHash)
	}
	return nil, errors.New("unexpected StartLogStream call")
}

func (f *fakeBackend) HeadState() (hash string, headName string, ok bool, err error) {
	if f.headStateFunc != nil {
		return f.headStateFunc()
	}
	return "", "", false, errors.New("unexpected HeadState call")
}

func (f *fakeBackend) ResolveRevision(rev string) (string, error) {
	if f.resolveRevisionFunc != nil {
		return f.resolveRevisionFunc(rev)
	}
	return "", errors.New("unexpected ResolveRevision call")
}

func (f *fakeBackend) ListRefs() ([]gitbackend.Ref, error) {
	if f.listRefsFunc != nil {
		return f.listRefsFunc()
	}
	return nil, errors.New("unexpected ListRefs call")
}

func (f *fakeBackend) CommitDiffText(commitHash string, parentHash string) (string, error) {
	f.lastCommitHash = commitHash
	f.lastParentHash = parentHash
	if f.commitDiffTextFunc != nil {
		return f.commitDiffTextFunc(commitHash, parentHash)
	}
	return "", errors.New("unexpected CommitDiffText call")
}

func (f *fakeBackend) WorktreeDiffText(staged bool) (string, error) {
	f.lastStagedParam = &staged
	if f.worktreeDiffTextFunc != nil {
		return f.worktreeDiffTextFunc(staged)
	}
	return "", errors.New("unexpected WorktreeDiffText call")
}

// fakeLogStream yields commits from the first one whose hash is from.
type fakeLogStream struct {
	commits []*gitbackend.Commit
	pos     int
	err     error
	closed  bool
}

func newFakeLogStream(commits []*gitbackend.Commit, from string) *fakeLogStream {
	for i, c := range commits {
		if c.Hash == from {
			return &fakeLogStream{commits: commits[i:]}
		}
	}
	return &fakeLogStream{}
}

func (s *fakeLogStream) Next() (*gitbackend.Commit, error) {
	if s.pos < len(s.commits) {
		c := s.commits[s.pos]
		s.pos++
		return c, nil
	}
	if s.err != nil {
		return nil, s.err
	}
	return nil, io.EOF
}

func (s *fakeLogStream) Close() error {
	s.closed = true
	return nil
}
