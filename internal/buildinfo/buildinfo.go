// Package buildinfo reports how the binary was built.
package buildinfo

import (
	"runtime/debug"
	"strings"
)

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// Info is the subset of the embedded build metadata shown by -version.
type Info struct {
	Version   string
	GoVersion string
	Tags      string
	Revision  string
	Modified  bool
}

// Read collects build metadata. A binary without it reports version "dev".
func Read() Info {
	info := Info{Version: "dev"}
	bi, ok := readBuildInfo()
	if !ok || bi == nil {
		return info
	}
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		info.Version = v
	}
	info.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "-tags":
			info.Tags = s.Value
		case "vcs.revision":
			info.Revision = s.Value
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// String renders "version (rev abc1234+dirty, tags: x, go1.25)", leaving
// out whatever is unknown.
func (i Info) String() string {
	var extra []string
	if i.Revision != "" {
		rev := i.Revision
		if len(rev) > 7 {
			rev = rev[:7]
		}
		if i.Modified {
			rev += "+dirty"
		}
		extra = append(extra, "rev "+rev)
	}
	if i.Tags != "" {
		extra = append(extra, "tags: "+i.Tags)
	}
	if i.GoVersion != "" {
		extra = append(extra, i.GoVersion)
	}
	if len(extra) == 0 {
		return i.Version
	}
	return i.Version + " (" + strings.Join(extra, ", ") + ")"
}
