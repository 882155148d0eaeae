package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/thiagokokada/gitk-layout/internal/buildinfo"
	"github.com/thiagokokada/gitk-layout/internal/config"
	"github.com/thiagokokada/gitk-layout/internal/git"
)

const appName = "gitk-layout"

func Run() error {
	return run(context.Background(), os.Args[1:], os.Stdout)
}

// app carries what every subcommand shares after global flags are parsed.
type app struct {
	cfg config.Config
	// cfgPath is the -config value; empty means the standard location.
	cfgPath string
	stdout  io.Writer
	color   bool
	// tty is set when stdout is a terminal, enabling width detection.
	tty bool
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	verbose := fs.Bool("verbose", false, "enable verbose logging")
	showVersion := fs.Bool("version", false, "print version information and exit")
	configPath := fs.String("config", "", "config file (default $XDG_CONFIG_HOME/"+appName+"/config.toml)")
	colorMode := fs.String("color", "auto", "color output: auto, always, or never")
	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintf(out, "usage: %s [flags] graph [flags] [repo]\n", appName)
		fmt.Fprintf(out, "       %s [flags] diff [flags] [repo] [commit]\n", appName)
		fmt.Fprintf(out, "       %s [flags] config [-init]\n\n", appName)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if *showVersion {
		printVersion(stdout)
		return nil
	}
	if *verbose {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	a := &app{cfg: cfg, cfgPath: *configPath, stdout: stdout, tty: stdout == io.Writer(os.Stdout) && isTerminal(os.Stdout)}
	if a.color, err = colorEnabled(*colorMode, a.tty); err != nil {
		return err
	}

	rest := fs.Args()
	sub := "graph"
	if len(rest) > 0 {
		sub, rest = rest[0], rest[1:]
	}
	switch sub {
	case "graph":
		return a.graph(ctx, rest)
	case "diff":
		return a.diff(ctx, rest)
	case "config":
		return a.configCmd(rest)
	default:
		return fmt.Errorf("unknown command %q (want graph, diff or config)", sub)
	}
}

func printVersion(w io.Writer) {
	fmt.Fprintln(w, buildinfo.Read())
	if v, err := git.GitVersion(); err == nil {
		fmt.Fprintf(w, "git %s (gitcli backend needs >= %s)\n", v, git.MinGitVersion())
	} else {
		slog.Debug("git executable not available", slog.Any("error", err))
	}
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

func colorEnabled(mode string, tty bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return tty && !color.NoColor, nil
	case "always":
		return true, nil
	case "never":
		return false, nil
	}
	return false, fmt.Errorf("unknown color mode %q (want auto, always or never)", mode)
}

func openService(cfg config.Config, repoPath string) (*git.Service, error) {
	kind, err := git.ParseBackendKind(cfg.Backend)
	if err != nil {
		return nil, err
	}
	return git.Open(kind, repoPath)
}

// parseArgs parses a subcommand FlagSet, translating -h into a nil error
// with done set.
func parseArgs(fs *flag.FlagSet, args []string) (done bool, err error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return true, nil
		}
		return true, err
	}
	return false, nil
}
