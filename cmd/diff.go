package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/thiagokokada/gitk-layout/internal/config"
	"github.com/thiagokokada/gitk-layout/internal/diff"
	"github.com/thiagokokada/gitk-layout/internal/git"
	"github.com/thiagokokada/gitk-layout/internal/render"
)

func (a *app) diff(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("diff", flag.ContinueOnError)
	flags := config.NewFlags(fs)
	flags.Mode("mode", "diff layout: side or inline")
	flags.Backend("backend", "repository backend: native or gitcli")
	flags.Theme("theme", "color theme: auto, light, or dark")
	flags.NoSyntax("nosyntax", "disable syntax highlighting")
	flags.Width("width", "total width in cells (0 detects the terminal)")
	flags.WordDiffMaxTokens("maxtokens", "skip word diff above this many tokens per line (0 disables the cap)")
	flags.WordDiffCacheSize("cachesize", "number of word diffs to memoize")
	flags.Format("format", "output format: text, json, or yaml")
	worktree := fs.Bool("worktree", false, "show unstaged local changes instead of a commit")
	staged := fs.Bool("staged", false, "show staged local changes instead of a commit")
	if done, err := parseArgs(fs, args); done {
		return err
	}
	repoPath, rev, err := diffTarget(fs.Args())
	if err != nil {
		return err
	}
	local := *worktree || *staged
	if local && rev != "" {
		return fmt.Errorf("diff: commit %q given together with -worktree/-staged", rev)
	}

	cfg := flags.Apply(a.cfg)
	format, err := render.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	mode, err := render.ParseDiffMode(cfg.Mode)
	if err != nil {
		return err
	}
	svc, err := openService(cfg, repoPath)
	if err != nil {
		return err
	}

	var (
		title string
		files []git.FileDiff
	)
	if local {
		title = git.LocalDiffTitle(*staged)
		files, err = svc.WorktreeDiff(*staged)
	} else {
		var commit *git.Commit
		commit, files, err = svc.CommitDiff(rev)
		if commit != nil {
			title = git.FormatCommitHeader(commit)
		}
	}
	if err != nil {
		return err
	}

	cache, err := diff.NewCache(cfg.WordDiffCacheSize, cfg.WordDiffMaxTokens)
	if err != nil {
		return err
	}
	views, err := fileViews(ctx, files, cache)
	if err != nil {
		return err
	}
	if format != render.FormatText {
		return render.Encode(a.stdout, format, render.FileRecords(views))
	}

	palette := render.PaletteFor(render.ThemePreferenceFromString(cfg.Theme))
	view := render.DiffView{
		Palette: palette,
		Color:   a.color,
		Width:   a.outputWidth(cfg.Width),
		Mode:    mode,
	}
	if cfg.Syntax {
		view.Highlighter = render.NewHighlighter(palette)
	}
	if _, err := fmt.Fprintln(a.stdout, title); err != nil {
		return err
	}
	return view.Render(a.stdout, views)
}

// diffTarget splits [repo] [commit]. A lone argument names the repository
// when it is a directory, otherwise a commit in the current one.
func diffTarget(args []string) (repoPath, rev string, err error) {
	switch len(args) {
	case 0:
		return ".", "", nil
	case 1:
		if info, statErr := os.Stat(args[0]); statErr == nil && info.IsDir() {
			return args[0], "", nil
		}
		return ".", args[0], nil
	case 2:
		return args[0], args[1], nil
	}
	return "", "", fmt.Errorf("diff: unexpected arguments %q", args[2:])
}

// fileViews aligns and word-highlights every hunk, a file at a time.
func fileViews(ctx context.Context, files []git.FileDiff, cmp diff.Comparer) ([]render.FileView, error) {
	views := make([]render.FileView, len(files))
	for i, f := range files {
		hunks := make([][]diff.Line, len(f.Hunks))
		for j, h := range f.Hunks {
			hunks[j] = h.Lines
		}
		rows, err := diff.HighlightParallel(ctx, hunks, cmp, 0)
		if err != nil {
			return nil, fmt.Errorf("highlight %s: %w", f.Path(), err)
		}
		views[i] = render.FileView{File: f, Rows: rows}
	}
	return views, nil
}
