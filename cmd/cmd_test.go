package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/thiagokokada/gitk-layout/internal/render"
)

// initRepo creates a repository with two commits touching hello.txt and
// returns its path plus the commit hashes, newest first.
func initRepo(t *testing.T) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := gitlib.PlainInit(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatal(err)
	}
	var hashes []string
	when := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, content := range []string{"hello world\nsecond\n", "hello gopher\nsecond\n"} {
		if err := os.WriteFile(filepath.Join(dir, "hello.txt"), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := wt.Add("hello.txt"); err != nil {
			t.Fatal(err)
		}
		sig := &object.Signature{Name: "Tester", Email: "tester@example.com", When: when.Add(time.Duration(i) * time.Hour)}
		h, err := wt.Commit([]string{"first commit", "second commit"}[i], &gitlib.CommitOptions{Author: sig, Committer: sig})
		if err != nil {
			t.Fatal(err)
		}
		hashes = append([]string{h.String()}, hashes...)
	}
	return dir, hashes
}

// isolateConfig keeps the user's config file out of the run.
func isolateConfig(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func TestRunGraphJSON(t *testing.T) {
	isolateConfig(t)
	dir, hashes := initRepo(t)

	var out bytes.Buffer
	if err := run(context.Background(), []string{"-color", "never", "graph", "-format", "json", dir}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	var records []render.GraphRecord
	if err := json.Unmarshal(out.Bytes(), &records); err != nil {
		t.Fatalf("decode: %v\n%s", err, out.String())
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Hash != hashes[0] || records[1].Hash != hashes[1] {
		t.Fatalf("hashes = %s, %s", records[0].Hash, records[1].Hash)
	}
	if records[0].Summary != "second commit" || records[0].Lane != 0 {
		t.Fatalf("first record = %+v", records[0])
	}
	if len(records[0].Labels) == 0 || records[0].Labels[0] != "HEAD -> master" {
		t.Fatalf("labels = %v", records[0].Labels)
	}
}

func TestRunGraphTextWithGrep(t *testing.T) {
	isolateConfig(t)
	dir, hashes := initRepo(t)

	var out bytes.Buffer
	if err := run(context.Background(), []string{"graph", "-grep", "first", dir}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1:\n%s", len(lines), out.String())
	}
	if !strings.HasPrefix(lines[0], "* "+hashes[1][:7]+" ") || !strings.Contains(lines[0], "first commit") {
		t.Fatalf("row = %q", lines[0])
	}
}

func TestRunDiffInline(t *testing.T) {
	isolateConfig(t)
	dir, hashes := initRepo(t)

	var out bytes.Buffer
	args := []string{"-color", "never", "diff", "-mode", "inline", "-nosyntax", dir, hashes[0]}
	if err := run(context.Background(), args, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"commit " + hashes[0],
		"    second commit",
		"hello.txt\n",
		"-hello world\n",
		"+hello gopher\n",
		" second\n",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRunDiffWorktreeJSON(t *testing.T) {
	isolateConfig(t)
	dir, _ := initRepo(t)
	if err := os.WriteFile(filepath.Join(dir, "hello.txt"), []byte("hello gopher\nthird\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := run(context.Background(), []string{"diff", "-worktree", "-format", "json", dir}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	var files []render.FileRecord
	if err := json.Unmarshal(out.Bytes(), &files); err != nil {
		t.Fatalf("decode: %v\n%s", err, out.String())
	}
	if len(files) != 1 || files[0].NewPath != "hello.txt" || len(files[0].Hunks) != 1 {
		t.Fatalf("files = %+v", files)
	}
	if !strings.Contains(out.String(), `"kind": "modification"`) {
		t.Fatalf("expected a modification row:\n%s", out.String())
	}
}

func TestRunConfigFileLayering(t *testing.T) {
	isolateConfig(t)
	dir, _ := initRepo(t)
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(cfgPath, []byte("format = \"json\"\nlimit = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := run(context.Background(), []string{"-config", cfgPath, "graph", dir}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	var records []render.GraphRecord
	if err := json.Unmarshal(out.Bytes(), &records); err != nil {
		t.Fatalf("decode: %v\n%s", err, out.String())
	}
	if len(records) != 1 {
		t.Fatalf("limit from config not applied: %d records", len(records))
	}

	out.Reset()
	if err := run(context.Background(), []string{"-config", cfgPath, "graph", "-format", "text", dir}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if strings.HasPrefix(out.String(), "[") {
		t.Fatalf("flag did not override config format:\n%s", out.String())
	}
}

func TestRunErrors(t *testing.T) {
	isolateConfig(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown command", args: []string{"blame"}},
		{name: "bad color", args: []string{"-color", "rainbow", "graph"}},
		{name: "bad format", args: []string{"graph", "-format", "xml", t.TempDir()}},
		{name: "not a repo", args: []string{"graph", t.TempDir()}},
		{name: "extra args", args: []string{"diff", "a", "b", "c"}},
	}
	for _, tt := range tests {
		if err := run(context.Background(), tt.args, &bytes.Buffer{}); err == nil {
			t.Fatalf("%s: expected error", tt.name)
		}
	}
}

func TestDiffTarget(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tests := []struct {
		args       []string
		repo, rev string
	}{
		{args: nil, repo: ".", rev: ""},
		{args: []string{dir}, repo: dir, rev: ""},
		{args: []string{"HEAD~1"}, repo: ".", rev: "HEAD~1"},
		{args: []string{dir, "abc123"}, repo: dir, rev: "abc123"},
	}
	for _, tt := range tests {
		repo, rev, err := diffTarget(tt.args)
		if err != nil || repo != tt.repo || rev != tt.rev {
			t.Fatalf("diffTarget(%q) = %q, %q, %v", tt.args, repo, rev, err)
		}
	}
}

func TestColorEnabled(t *testing.T) {
	t.Parallel()

	if on, err := colorEnabled("always", false); err != nil || !on {
		t.Fatalf("always = %v, %v", on, err)
	}
	if on, err := colorEnabled("never", true); err != nil || on {
		t.Fatalf("never = %v, %v", on, err)
	}
	if on, _ := colorEnabled("auto", false); on {
		t.Fatal("auto without a terminal should be off")
	}
}

func TestRunConfigInitAndPrint(t *testing.T) {
	isolateConfig(t)
	cfgPath := filepath.Join(t.TempDir(), "sub", "config.toml")

	var out bytes.Buffer
	if err := run(context.Background(), []string{"-config", cfgPath, "config", "-init"}, &out); err != nil {
		t.Fatalf("config -init: %v", err)
	}
	if !strings.Contains(out.String(), cfgPath) {
		t.Fatalf("output = %q", out.String())
	}
	if err := run(context.Background(), []string{"-config", cfgPath, "config", "-init"}, &bytes.Buffer{}); err == nil {
		t.Fatal("second -init overwrote the file")
	}

	if err := os.WriteFile(cfgPath, []byte("width = 77\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := run(context.Background(), []string{"-config", cfgPath, "config"}, &out); err != nil {
		t.Fatalf("config: %v", err)
	}
	if !strings.Contains(out.String(), "width = 77") || !strings.Contains(out.String(), "limit = 1000") {
		t.Fatalf("effective config = %q", out.String())
	}
}
