package cmd

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/thiagokokada/gitk-layout/internal/config"
	"github.com/thiagokokada/gitk-layout/internal/git"
	"github.com/thiagokokada/gitk-layout/internal/render"
	"github.com/thiagokokada/gitk-layout/internal/watch"
)

const clearScreen = "\x1b[H\x1b[2J"

func (a *app) graph(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("graph", flag.ContinueOnError)
	flags := config.NewFlags(fs)
	flags.Limit("limit", "number of commits to load")
	flags.Backend("backend", "repository backend: native or gitcli")
	flags.Theme("theme", "color theme: auto, light, or dark")
	flags.Watch("watch", "redraw when the repository changes")
	flags.Width("width", "truncate rows to this many cells (0 detects the terminal)")
	flags.Format("format", "output format: text, json, or yaml")
	grep := fs.String("grep", "", "only show commits fuzzy matching every term")
	if done, err := parseArgs(fs, args); done {
		return err
	}
	if fs.NArg() > 1 {
		return fmt.Errorf("graph: unexpected arguments %q", fs.Args()[1:])
	}
	repoPath := "."
	if fs.NArg() == 1 {
		repoPath = fs.Arg(0)
	}

	cfg := flags.Apply(a.cfg)
	format, err := render.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	svc, err := openService(cfg, repoPath)
	if err != nil {
		return err
	}
	palette := render.PaletteFor(render.ThemePreferenceFromString(cfg.Theme))

	draw := func() error {
		entries, head, err := svc.Log(cfg.Limit)
		if err != nil {
			return err
		}
		entries = git.FilterEntries(entries, *grep)
		nodes := git.LayoutEntries(entries)
		labels, err := svc.BranchLabels()
		if err != nil {
			return fmt.Errorf("load refs: %w", err)
		}
		slog.Debug("graph ready", slog.String("head", head), slog.Int("rows", len(nodes)))
		if format != render.FormatText {
			return render.Encode(a.stdout, format, render.GraphRecords(palette, entries, nodes, labels))
		}
		view := render.GraphView{Palette: palette, Color: a.color, Width: a.outputWidth(cfg.Width)}
		return view.Render(a.stdout, entries, nodes, labels)
	}

	if err := draw(); err != nil {
		return err
	}
	if !cfg.Watch {
		return nil
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	return watch.Run(ctx, svc.RepoPath(), watch.DefaultDelay, func() {
		if a.tty && format == render.FormatText {
			fmt.Fprint(a.stdout, clearScreen)
		}
		if err := draw(); err != nil {
			slog.Error("reload failed", slog.Any("error", err))
		}
	})
}
