// Package config loads gitk-layout settings from a TOML file and layers
// command-line flags over them.
package config

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const appName = "gitk-layout"

// Config holds every setting a subcommand may read. The zero value is not
// useful; start from Default.
type Config struct {
	Limit             int    `toml:"limit"`
	Mode              string `toml:"mode"`
	Backend           string `toml:"backend"`
	Theme             string `toml:"theme"`
	Syntax            bool   `toml:"syntax"`
	Watch             bool   `toml:"watch"`
	Width             int    `toml:"width"`
	WordDiffMaxTokens int    `toml:"word_diff_max_tokens"`
	WordDiffCacheSize int    `toml:"word_diff_cache_size"`
	Format            string `toml:"format"`
}

func Default() Config {
	return Config{
		Limit:             1000,
		Mode:              "side",
		Backend:           "native",
		Theme:             "auto",
		Syntax:            true,
		WordDiffMaxTokens: 500,
		WordDiffCacheSize: 4096,
		Format:            "text",
	}
}

// Path returns $XDG_CONFIG_HOME/gitk-layout/config.toml, falling back to
// ~/.config when XDG_CONFIG_HOME is unset.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the config file from the standard location. A missing file
// or an unknown home directory yields Default.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return LoadFromFile(path)
}

// LoadFromFile reads filePath over Default. A missing file is not an
// error; unknown keys are.
func LoadFromFile(filePath string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return cfg, fmt.Errorf("parse config file %s:\n%s", filePath, strict.String())
		}
		var decErr *toml.DecodeError
		if errors.As(err, &decErr) {
			row, col := decErr.Position()
			return cfg, fmt.Errorf("parse config file %s:%d:%d: %w", filePath, row, col, err)
		}
		return cfg, fmt.Errorf("parse config file %s: %w", filePath, err)
	}
	return cfg, nil
}

// Marshal renders cfg as TOML, e.g. for a starter config file.
func (c Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

// WriteNew writes c to filePath, creating parent directories. An existing
// file is left untouched and reported as an error.
func (c Config) WriteNew(filePath string) error {
	data, err := c.Marshal()
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	_, err = f.Write(data)
	return errors.Join(err, f.Close())
}

// Flags binds command-line flags to a Config so they can be layered over
// a loaded file with Apply.
type Flags struct {
	fs     *flag.FlagSet
	values Config
	bound  map[string]func(dst, src *Config)
}

func NewFlags(fs *flag.FlagSet) *Flags {
	return &Flags{fs: fs, values: Default(), bound: map[string]func(dst, src *Config){}}
}

func (f *Flags) Limit(name, usage string) {
	f.fs.IntVar(&f.values.Limit, name, f.values.Limit, usage)
	f.bound[name] = func(dst, src *Config) { dst.Limit = src.Limit }
}

func (f *Flags) Mode(name, usage string) {
	f.fs.StringVar(&f.values.Mode, name, f.values.Mode, usage)
	f.bound[name] = func(dst, src *Config) { dst.Mode = src.Mode }
}

func (f *Flags) Backend(name, usage string) {
	f.fs.StringVar(&f.values.Backend, name, f.values.Backend, usage)
	f.bound[name] = func(dst, src *Config) { dst.Backend = src.Backend }
}

func (f *Flags) Theme(name, usage string) {
	f.fs.StringVar(&f.values.Theme, name, f.values.Theme, usage)
	f.bound[name] = func(dst, src *Config) { dst.Theme = src.Theme }
}

// NoSyntax binds an inverted flag: setting it turns Syntax off.
func (f *Flags) NoSyntax(name, usage string) {
	var off bool
	f.fs.BoolVar(&off, name, false, usage)
	f.bound[name] = func(dst, _ *Config) { dst.Syntax = !off }
}

func (f *Flags) Watch(name, usage string) {
	f.fs.BoolVar(&f.values.Watch, name, f.values.Watch, usage)
	f.bound[name] = func(dst, src *Config) { dst.Watch = src.Watch }
}

func (f *Flags) Width(name, usage string) {
	f.fs.IntVar(&f.values.Width, name, f.values.Width, usage)
	f.bound[name] = func(dst, src *Config) { dst.Width = src.Width }
}

func (f *Flags) WordDiffMaxTokens(name, usage string) {
	f.fs.IntVar(&f.values.WordDiffMaxTokens, name, f.values.WordDiffMaxTokens, usage)
	f.bound[name] = func(dst, src *Config) { dst.WordDiffMaxTokens = src.WordDiffMaxTokens }
}

func (f *Flags) WordDiffCacheSize(name, usage string) {
	f.fs.IntVar(&f.values.WordDiffCacheSize, name, f.values.WordDiffCacheSize, usage)
	f.bound[name] = func(dst, src *Config) { dst.WordDiffCacheSize = src.WordDiffCacheSize }
}

func (f *Flags) Format(name, usage string) {
	f.fs.StringVar(&f.values.Format, name, f.values.Format, usage)
	f.bound[name] = func(dst, src *Config) { dst.Format = src.Format }
}

// Apply returns base with every explicitly set flag copied over it. Call it
// after the FlagSet has been parsed.
func (f *Flags) Apply(base Config) Config {
	out := base
	f.fs.Visit(func(fl *flag.Flag) {
		if set, ok := f.bound[fl.Name]; ok {
			set(&out, &f.values)
		}
	})
	return out
}
