package backend

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
)

type gitCLI struct {
	path string
}

// OpenCLI returns a Backend that runs the git executable inside repoPath.
func OpenCLI(repoPath string) (Backend, error) {
	if err := ensureMinGitVersion(); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, err
	}
	tmp := &gitCLI{path: abs}
	root, err := tmp.runGitCommand([]string{"rev-parse", "--show-toplevel"}, false, "git rev-parse")
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("open repository: git rev-parse returned empty root")
	}
	slog.Debug("git CLI backend opened", slog.String("root", root))
	return &gitCLI{path: root}, nil
}

func (g *gitCLI) RepoPath() string {
	if g == nil {
		return ""
	}
	return g.path
}

// runGitCommand runs git with args. allowExit1 treats exit status 1 with an
// empty stderr as success, which is how git diff reports "has changes".
func (g *gitCLI) runGitCommand(args []string, allowExit1 bool, context string) (string, error) {
	if g == nil || g.path == "" {
		return "", fmt.Errorf("repository root not set")
	}
	cmdArgs := append([]string{"-C", g.path}, args...)
	cmd := exec.Command("git", cmdArgs...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		exit1 := errors.As(err, &exitErr) && exitErr.ExitCode() == 1 && stderr.Len() == 0
		if !allowExit1 || !exit1 {
			if stderr.Len() > 0 {
				return "", fmt.Errorf("%s: %v: %s", context, err, strings.TrimSpace(stderr.String()))
			}
			return "", fmt.Errorf("%s: %w", context, err)
		}
	}
	return stdout.String(), nil
}
