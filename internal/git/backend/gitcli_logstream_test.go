package backend

import (
	"bufio"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// logRecord renders the fields in gitLogFormat order, without the NUL.
func logRecord(hash, parents, author, authorDate, committer, committerDate, message string) string {
	return strings.Join([]string{
		hash, parents,
		author, strings.ToLower(author) + "@example.com", authorDate,
		committer, strings.ToLower(committer) + "@example.com", committerDate,
		message,
	}, "\n")
}

func TestParseGitLogRecordFields(t *testing.T) {
	t.Parallel()

	hashA := strings.Repeat("a", 40)
	hashB := strings.Repeat("b", 40)
	hashC := strings.Repeat("c", 40)
	tests := []struct {
		name       string
		rec        string
		parents    []string
		message    string
		authorWhen time.Time
		commitWhen time.Time
		zeroAuthor bool
	}{
		{
			name:       "root",
			rec:        logRecord(hashA, "", "Ann", "2024-03-01T10:00:00Z", "Ann", "2024-03-01T10:00:00Z", "init"),
			message:    "init",
			authorWhen: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
			commitWhen: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name:       "merge with offset dates",
			rec:        logRecord(hashA, hashB+" "+hashC, "Ann", "2024-03-01T12:00:00+02:00", "Cid", "2024-03-02T08:30:00-03:00", "Merge branch 'side'\n\n* side:\n  fix\n"),
			parents:    []string{hashB, hashC},
			message:    "Merge branch 'side'\n\n* side:\n  fix\n",
			authorWhen: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
			commitWhen: time.Date(2024, 3, 2, 11, 30, 0, 0, time.UTC),
		},
		{
			name:       "unparsable author date",
			rec:        logRecord(hashA, hashB, "Ann", "yesterday", "Ann", "2024-03-01T10:00:00Z", ""),
			parents:    []string{hashB},
			commitWhen: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
			zeroAuthor: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, err := parseGitLogRecord([]byte(tt.rec))
			if err != nil {
				t.Fatalf("parseGitLogRecord: %v", err)
			}
			if c.Hash != hashA {
				t.Fatalf("hash = %q", c.Hash)
			}
			if strings.Join(c.ParentHashes, ",") != strings.Join(tt.parents, ",") {
				t.Fatalf("parents = %v, want %v", c.ParentHashes, tt.parents)
			}
			if c.Message != tt.message {
				t.Fatalf("message = %q, want %q", c.Message, tt.message)
			}
			if tt.zeroAuthor != c.Author.When.IsZero() {
				t.Fatalf("author when = %v", c.Author.When)
			}
			if !tt.zeroAuthor && !c.Author.When.Equal(tt.authorWhen) {
				t.Fatalf("author when = %v, want %v", c.Author.When, tt.authorWhen)
			}
			if !c.Committer.When.Equal(tt.commitWhen) {
				t.Fatalf("committer when = %v, want %v", c.Committer.When, tt.commitWhen)
			}
			if c.Author.Email != strings.ToLower(c.Author.Name)+"@example.com" {
				t.Fatalf("author = %+v", c.Author)
			}
		})
	}
}

func TestParseGitLogRecordRejectsBrokenRecords(t *testing.T) {
	t.Parallel()

	for _, rec := range []string{
		"",
		"hash\nparents\nname",
		logRecord("  ", "", "Ann", "", "Ann", "", "msg"),
	} {
		if _, err := parseGitLogRecord([]byte(rec)); err == nil {
			t.Fatalf("parseGitLogRecord(%q) succeeded", rec)
		}
	}
}

func TestGitLogStreamSplitsNulRecords(t *testing.T) {
	t.Parallel()

	// git separates records with a newline after the NUL terminator.
	first := logRecord(strings.Repeat("1", 40), strings.Repeat("2", 40), "Ann", "2024-03-01T10:00:00Z", "Ann", "2024-03-01T10:00:00Z", "second\n")
	second := logRecord(strings.Repeat("2", 40), "", "Ann", "2024-03-01T09:00:00Z", "Ann", "2024-03-01T09:00:00Z", "first\n")
	s := &gitLogStream{r: bufio.NewReader(strings.NewReader(first + "\x00\n" + second + "\x00"))}

	c1, err := s.Next()
	if err != nil {
		t.Fatalf("first Next: %v", err)
	}
	c2, err := s.Next()
	if err != nil {
		t.Fatalf("second Next: %v", err)
	}
	if c1.Message != "second\n" || c2.Message != "first\n" {
		t.Fatalf("messages = %q, %q", c1.Message, c2.Message)
	}
	if len(c2.ParentHashes) != 0 || c1.ParentHashes[0] != c2.Hash {
		t.Fatalf("parents = %v, %v", c1.ParentHashes, c2.ParentHashes)
	}
}

func TestGitLogStreamAgainstGit(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git executable not available")
	}
	dir := t.TempDir()
	repo, err := gitlib.PlainInit(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatal(err)
	}
	when := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	var want []string
	for i, msg := range []string{"add readme\n", "edit readme\n\nwith a body\n"} {
		if err := os.WriteFile(filepath.Join(dir, "README"), []byte(msg), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := wt.Add("README"); err != nil {
			t.Fatal(err)
		}
		sig := &object.Signature{Name: "Ann", Email: "ann@example.com", When: when.Add(time.Duration(i) * time.Minute)}
		h, err := wt.Commit(msg, &gitlib.CommitOptions{Author: sig, Committer: sig})
		if err != nil {
			t.Fatal(err)
		}
		want = append([]string{h.String()}, want...)
	}

	b, err := OpenCLI(dir)
	if err != nil {
		t.Skipf("git CLI backend unavailable: %v", err)
	}
	stream, err := b.StartLogStream(want[0])
	if err != nil {
		t.Fatalf("StartLogStream: %v", err)
	}
	defer stream.Close()

	var got []*Commit
	for {
		c, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		got = append(got, c)
	}
	if len(got) != 2 || got[0].Hash != want[0] || got[1].Hash != want[1] {
		t.Fatalf("log = %+v, want hashes %v", got, want)
	}
	if strings.TrimSpace(got[0].Message) != "edit readme\n\nwith a body" {
		t.Fatalf("message = %q", got[0].Message)
	}
	if !got[1].Author.When.Equal(when) || got[0].ParentHashes[0] != want[1] {
		t.Fatalf("second commit = %+v", got[1])
	}
}
