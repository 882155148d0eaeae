package backend

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
)

type memRepo struct {
	t    *testing.T
	repo *gitlib.Repository
	fs   billy.Filesystem
	wt   *gitlib.Worktree
	when time.Time
}

func newMemRepo(t *testing.T) *memRepo {
	t.Helper()
	fs := memfs.New()
	repo, err := gitlib.Init(memory.NewStorage(), fs)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree() error = %v", err)
	}
	return &memRepo{t: t, repo: repo, fs: fs, wt: wt, when: time.Unix(1700000000, 0)}
}

func (m *memRepo) write(path, content string) {
	m.t.Helper()
	if err := util.WriteFile(m.fs, path, []byte(content), 0o644); err != nil {
		m.t.Fatalf("WriteFile(%s) error = %v", path, err)
	}
}

func (m *memRepo) add(path string) {
	m.t.Helper()
	if _, err := m.wt.Add(path); err != nil {
		m.t.Fatalf("Add(%s) error = %v", path, err)
	}
}

func (m *memRepo) commit(msg string) plumbing.Hash {
	m.t.Helper()
	m.when = m.when.Add(time.Minute)
	sig := &object.Signature{Name: "Test", Email: "test@example.com", When: m.when}
	h, err := m.wt.Commit(msg, &gitlib.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		m.t.Fatalf("Commit(%q) error = %v", msg, err)
	}
	return h
}

func (m *memRepo) backend() *native {
	return newNative(m.repo, "/repo")
}

func TestNativeHeadStateUnborn(t *testing.T) {
	t.Parallel()

	m := newMemRepo(t)
	_, _, ok, err := m.backend().HeadState()
	if err != nil {
		t.Fatalf("HeadState() error = %v", err)
	}
	if ok {
		t.Fatal("HeadState() ok = true on an empty repository")
	}
}

func TestNativeLogAndHead(t *testing.T) {
	t.Parallel()

	m := newMemRepo(t)
	m.write("a.txt", "hello\n")
	m.add("a.txt")
	first := m.commit("first\n\nbody")
	m.write("a.txt", "hello\nworld\n")
	m.add("a.txt")
	second := m.commit("second")

	b := m.backend()
	hash, name, ok, err := b.HeadState()
	if err != nil || !ok {
		t.Fatalf("HeadState() = %q, %q, %v, %v", hash, name, ok, err)
	}
	if hash != second.String() || name != "master" {
		t.Fatalf("HeadState() = %q, %q; want %q, master", hash, name, second)
	}

	for _, rev := range []string{"HEAD~1", "master~1", first.String()[:7]} {
		got, err := b.ResolveRevision(rev)
		if err != nil {
			t.Fatalf("ResolveRevision(%q) error = %v", rev, err)
		}
		if got != first.String() {
			t.Fatalf("ResolveRevision(%q) = %s, want %s", rev, got, first)
		}
	}
	if _, err := b.ResolveRevision("nope"); err == nil {
		t.Fatal("ResolveRevision(nope) expected error")
	}

	stream, err := b.StartLogStream(hash)
	if err != nil {
		t.Fatalf("StartLogStream() error = %v", err)
	}
	defer stream.Close()

	var got []*Commit
	for {
		c, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		got = append(got, c)
	}
	if len(got) != 2 {
		t.Fatalf("got %d commits, want 2", len(got))
	}
	if got[0].Hash != second.String() || got[1].Hash != first.String() {
		t.Fatalf("unexpected order: %s, %s", got[0].Hash, got[1].Hash)
	}
	if len(got[0].ParentHashes) != 1 || got[0].ParentHashes[0] != first.String() {
		t.Fatalf("parents = %v, want [%s]", got[0].ParentHashes, first)
	}
	if len(got[1].ParentHashes) != 0 {
		t.Fatalf("root commit parents = %v", got[1].ParentHashes)
	}
	if got[1].Subject() != "first" {
		t.Fatalf("Subject() = %q", got[1].Subject())
	}
}

func TestNativeStartLogStreamRequiresHash(t *testing.T) {
	t.Parallel()

	if _, err := newMemRepo(t).backend().StartLogStream(""); err == nil {
		t.Fatal("expected error")
	}
}

func TestNativeListRefs(t *testing.T) {
	t.Parallel()

	m := newMemRepo(t)
	m.write("a.txt", "a\n")
	m.add("a.txt")
	head := m.commit("first")

	if _, err := m.repo.CreateTag("light", head, nil); err != nil {
		t.Fatalf("CreateTag(light) error = %v", err)
	}
	_, err := m.repo.CreateTag("annotated", head, &gitlib.CreateTagOptions{
		Tagger:  &object.Signature{Name: "Test", Email: "test@example.com", When: m.when},
		Message: "release",
	})
	if err != nil {
		t.Fatalf("CreateTag(annotated) error = %v", err)
	}

	refs, err := m.backend().ListRefs()
	if err != nil {
		t.Fatalf("ListRefs() error = %v", err)
	}
	assertHasRef(t, refs, Ref{Hash: head.String(), Kind: RefKindBranch, Name: "master"})
	assertHasRef(t, refs, Ref{Hash: head.String(), Kind: RefKindTag, Name: "light"})
	assertHasRef(t, refs, Ref{Hash: head.String(), Kind: RefKindTag, Name: "annotated"})
}

func TestNativeCommitDiffText(t *testing.T) {
	t.Parallel()

	m := newMemRepo(t)
	m.write("a.txt", "one\ntwo\n")
	m.add("a.txt")
	first := m.commit("first")
	m.write("a.txt", "one\n2\n")
	m.add("a.txt")
	second := m.commit("second")

	b := m.backend()
	root, err := b.CommitDiffText(first.String(), "")
	if err != nil {
		t.Fatalf("CommitDiffText(root) error = %v", err)
	}
	for _, want := range []string{"diff --git a/a.txt b/a.txt", "+one", "+two"} {
		if !strings.Contains(root, want) {
			t.Fatalf("root diff missing %q:\n%s", want, root)
		}
	}

	text, err := b.CommitDiffText(second.String(), first.String())
	if err != nil {
		t.Fatalf("CommitDiffText() error = %v", err)
	}
	for _, want := range []string{"@@ ", " one", "-two", "+2"} {
		if !strings.Contains(text, want) {
			t.Fatalf("diff missing %q:\n%s", want, text)
		}
	}
}

func TestNativeWorktreeDiffText(t *testing.T) {
	t.Parallel()

	m := newMemRepo(t)
	m.write("a.txt", "hello\n")
	m.add("a.txt")
	m.commit("first")

	b := m.backend()
	clean, err := b.WorktreeDiffText(false)
	if err != nil {
		t.Fatalf("WorktreeDiffText(false) error = %v", err)
	}
	if clean != "" {
		t.Fatalf("clean worktree diff = %q", clean)
	}

	m.write("a.txt", "hello\nworld\n")
	unstaged, err := b.WorktreeDiffText(false)
	if err != nil {
		t.Fatalf("WorktreeDiffText(false) error = %v", err)
	}
	for _, want := range []string{"diff --git a/a.txt b/a.txt", "--- a/a.txt", "+++ b/a.txt", " hello", "+world"} {
		if !strings.Contains(unstaged, want) {
			t.Fatalf("unstaged diff missing %q:\n%s", want, unstaged)
		}
	}
	staged, err := b.WorktreeDiffText(true)
	if err != nil {
		t.Fatalf("WorktreeDiffText(true) error = %v", err)
	}
	if staged != "" {
		t.Fatalf("staged diff before add = %q", staged)
	}

	m.add("a.txt")
	staged, err = b.WorktreeDiffText(true)
	if err != nil {
		t.Fatalf("WorktreeDiffText(true) error = %v", err)
	}
	if !strings.Contains(staged, "+world") {
		t.Fatalf("staged diff missing addition:\n%s", staged)
	}
}

func TestRenderLocalDiff(t *testing.T) {
	t.Parallel()

	got, err := renderLocalDiff([]localChange{
		{path: "new.txt", to: []byte("x\n")},
		{path: "gone.txt", from: []byte("y\n")},
		{path: "bin", from: []byte("a\x00b"), to: []byte("a\x00c")},
	})
	if err != nil {
		t.Fatalf("renderLocalDiff() error = %v", err)
	}
	for _, want := range []string{
		"new file mode 100644",
		"--- /dev/null",
		"+x",
		"deleted file mode 100644",
		"+++ /dev/null",
		"-y",
		"Binary files a/bin and b/bin differ",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q:\n%s", want, got)
		}
	}
}

func TestRenderLocalDiffMissingFinalNewline(t *testing.T) {
	t.Parallel()

	got, err := renderLocalDiff([]localChange{
		{path: "f.txt", from: []byte("a\nb"), to: []byte("a\nc")},
		{path: "g.txt", from: []byte("keep\nend"), to: []byte("keep\nend\n")},
		{path: "new.txt", to: []byte("x\n")},
	})
	if err != nil {
		t.Fatalf("renderLocalDiff() error = %v", err)
	}
	for _, want := range []string{
		"@@ -1,2 +1,2 @@\n a\n-b\n\\ No newline at end of file\n+c\n\\ No newline at end of file\n",
		"@@ -1,2 +1,2 @@\n keep\n-end\n\\ No newline at end of file\n+end\ndiff --git a/new.txt",
		"@@ -0,0 +1 @@\n+x\n",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "+x\n+\n") {
		t.Fatalf("terminated last line produced an extra empty line:\n%s", got)
	}
}

func TestSplitLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want []string
	}{
		{in: "", want: nil},
		{in: "a\n", want: []string{"a\n"}},
		{in: "a\nb\n", want: []string{"a\n", "b\n"}},
		{in: "a\nb", want: []string{"a\n", "b\n" + noNewlineMarker}},
		{in: "\n", want: []string{"\n"}},
	}
	for _, tt := range tests {
		got := splitLines([]byte(tt.in))
		if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
			t.Fatalf("splitLines(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
