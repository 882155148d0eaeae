package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/thiagokokada/gitk-layout/internal/diff"
	"github.com/thiagokokada/gitk-layout/internal/git"
	"github.com/thiagokokada/gitk-layout/internal/graph"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown format %q (want text, json or yaml)", s)
}

// Encode writes v as JSON or YAML.
func Encode(w io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("format %q is not a structured format", format)
}

// GraphRecord is the structured form of one graph row.
type GraphRecord struct {
	Hash       string            `json:"hash" yaml:"hash"`
	Parents    []string          `json:"parents,omitempty" yaml:"parents,omitempty"`
	Lane       int               `json:"lane" yaml:"lane"`
	Color      int               `json:"color" yaml:"color"`
	ColorHex   string            `json:"color_hex" yaml:"color_hex"`
	Merge      bool              `json:"merge,omitempty" yaml:"merge,omitempty"`
	Connectors []graph.Connector `json:"connectors,omitempty" yaml:"connectors,omitempty"`
	Converging []int             `json:"converging,omitempty" yaml:"converging,omitempty"`
	Labels     []string          `json:"labels,omitempty" yaml:"labels,omitempty"`
	Summary    string            `json:"summary" yaml:"summary"`
	Author     string            `json:"author" yaml:"author"`
	Date       time.Time         `json:"date" yaml:"date"`
}

func GraphRecords(p Palette, entries []*git.Entry, nodes []graph.Node, labels map[string][]string) []GraphRecord {
	out := make([]GraphRecord, 0, len(nodes))
	for i, n := range nodes {
		if i >= len(entries) {
			break
		}
		c := entries[i].Commit
		out = append(out, GraphRecord{
			Hash:       n.Hash,
			Parents:    c.ParentHashes,
			Lane:       n.Lane,
			Color:      n.Color,
			ColorHex:   p.LaneHex(n.Color),
			Merge:      n.Merge,
			Connectors: n.Connectors,
			Converging: n.Converging,
			Labels:     labels[n.Hash],
			Summary:    entries[i].Summary,
			Author:     c.Author.Name,
			Date:       c.Committer.When,
		})
	}
	return out
}

// FileRecord is the structured form of one file of a diff.
type FileRecord struct {
	OldPath string       `json:"old_path,omitempty" yaml:"old_path,omitempty"`
	NewPath string       `json:"new_path,omitempty" yaml:"new_path,omitempty"`
	Binary  bool         `json:"binary,omitempty" yaml:"binary,omitempty"`
	Hunks   []HunkRecord `json:"hunks,omitempty" yaml:"hunks,omitempty"`
}

type HunkRecord struct {
	Header string      `json:"header" yaml:"header"`
	Rows   []RowRecord `json:"rows" yaml:"rows"`
}

type RowRecord struct {
	Kind     diff.ChangeKind `json:"kind" yaml:"kind"`
	diff.Row `yaml:",inline"`
}

func FileRecords(files []FileView) []FileRecord {
	out := make([]FileRecord, 0, len(files))
	for _, f := range files {
		rec := FileRecord{OldPath: f.File.OldPath, NewPath: f.File.NewPath, Binary: f.File.Binary}
		for i, rows := range f.Rows {
			h := HunkRecord{Rows: make([]RowRecord, 0, len(rows))}
			if i < len(f.File.Hunks) {
				h.Header = f.File.Hunks[i].Header
			}
			for _, r := range rows {
				h.Rows = append(h.Rows, RowRecord{Kind: r.Kind(), Row: r})
			}
			rec.Hunks = append(rec.Hunks, h)
		}
		out = append(out, rec)
	}
	return out
}
