package cmd

import (
	"flag"
	"fmt"

	"github.com/thiagokokada/gitk-layout/internal/config"
)

// configCmd prints the effective settings as TOML, or with -init writes
// the defaults as a starter file.
func (a *app) configCmd(args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	initFile := fs.Bool("init", false, "write the default settings to the config file if it does not exist")
	if done, err := parseArgs(fs, args); done {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("config: unexpected arguments %q", fs.Args())
	}
	if !*initFile {
		data, err := a.cfg.Marshal()
		if err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		_, err = a.stdout.Write(data)
		return err
	}
	path := a.cfgPath
	if path == "" {
		var err error
		if path, err = config.Path(); err != nil {
			return fmt.Errorf("locate config file: %w", err)
		}
	}
	if err := config.Default().WriteNew(path); err != nil {
		return err
	}
	_, err := fmt.Fprintf(a.stdout, "wrote %s\n", path)
	return err
}
