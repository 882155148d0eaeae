package git

import (
	"strconv"
	"strings"

	"github.com/thiagokokada/gitk-layout/internal/diff"
)

const devNull = "/dev/null"

// FileDiff is one file of a unified diff. A path is empty when the file
// does not exist on that side.
type FileDiff struct {
	OldPath string `json:"old_path,omitempty" yaml:"old_path,omitempty"`
	NewPath string `json:"new_path,omitempty" yaml:"new_path,omitempty"`
	Binary  bool   `json:"binary,omitempty" yaml:"binary,omitempty"`
	Hunks   []Hunk `json:"hunks,omitempty" yaml:"hunks,omitempty"`
}

// Path returns the post-image path, or the pre-image path for deletions.
func (f FileDiff) Path() string {
	if f.NewPath != "" {
		return f.NewPath
	}
	return f.OldPath
}

type Hunk struct {
	Header   string      `json:"header" yaml:"header"`
	OldStart int         `json:"old_start" yaml:"old_start"`
	OldCount int         `json:"old_count" yaml:"old_count"`
	NewStart int         `json:"new_start" yaml:"new_start"`
	NewCount int         `json:"new_count" yaml:"new_count"`
	Lines    []diff.Line `json:"lines" yaml:"lines"`
}

// ParseUnified parses git-style or plain unified diff text. Lines outside
// any hunk other than file headers are ignored.
func ParseUnified(text string) []FileDiff {
	p := unifiedParser{}
	for line := range strings.SplitSeq(text, "\n") {
		p.feed(strings.TrimSuffix(line, "\r"))
	}
	return p.files
}

type unifiedParser struct {
	files []FileDiff

	// Remaining line budget of the open hunk; both zero means no hunk is open.
	oldLeft, newLeft int
	oldNo, newNo     int
}

func (p *unifiedParser) current() *FileDiff {
	if len(p.files) == 0 {
		return nil
	}
	return &p.files[len(p.files)-1]
}

func (p *unifiedParser) inHunk() bool {
	return p.oldLeft > 0 || p.newLeft > 0
}

func (p *unifiedParser) feed(line string) {
	if p.inHunk() {
		p.hunkLine(line)
		return
	}
	cur := p.current()
	switch {
	case strings.HasPrefix(line, "diff --git "):
		oldPath, newPath := parseGitDiffPaths(line)
		p.files = append(p.files, FileDiff{OldPath: oldPath, NewPath: newPath})
	case strings.HasPrefix(line, "--- "):
		if cur == nil || len(cur.Hunks) > 0 {
			p.files = append(p.files, FileDiff{})
			cur = p.current()
		}
		cur.OldPath = headerPath(line[len("--- "):])
	case strings.HasPrefix(line, "+++ "):
		if cur != nil {
			cur.NewPath = headerPath(line[len("+++ "):])
		}
	case strings.HasPrefix(line, "new file mode"):
		if cur != nil {
			cur.OldPath = ""
		}
	case strings.HasPrefix(line, "deleted file mode"):
		if cur != nil {
			cur.NewPath = ""
		}
	case strings.HasPrefix(line, "Binary files "), strings.HasPrefix(line, "GIT binary patch"):
		if cur != nil {
			cur.Binary = true
		}
	case strings.HasPrefix(line, "@@ "):
		p.startHunk(line)
	case strings.HasPrefix(line, `\ `):
		// Trails the last line of a hunk whose budget is already spent.
		if cur != nil && len(cur.Hunks) > 0 {
			h := &cur.Hunks[len(cur.Hunks)-1]
			h.Lines = append(h.Lines, diff.Line{Type: diff.LineNoNewline, Content: line})
		}
	}
}

func (p *unifiedParser) startHunk(line string) {
	oldStart, oldCount, newStart, newCount, ok := parseHunkHeader(line)
	if !ok {
		return
	}
	cur := p.current()
	if cur == nil {
		p.files = append(p.files, FileDiff{})
		cur = p.current()
	}
	cur.Hunks = append(cur.Hunks, Hunk{
		Header:   line,
		OldStart: oldStart,
		OldCount: oldCount,
		NewStart: newStart,
		NewCount: newCount,
	})
	p.oldLeft, p.newLeft = oldCount, newCount
	p.oldNo, p.newNo = oldStart, newStart
}

func (p *unifiedParser) hunkLine(line string) {
	h := &p.current().Hunks[len(p.current().Hunks)-1]
	var l diff.Line
	switch {
	case strings.HasPrefix(line, "-"):
		l = diff.Line{Type: diff.LineDeletion, Content: line[1:], OldNumber: p.oldNo}
		p.oldNo++
		p.oldLeft--
	case strings.HasPrefix(line, "+"):
		l = diff.Line{Type: diff.LineAddition, Content: line[1:], NewNumber: p.newNo}
		p.newNo++
		p.newLeft--
	case strings.HasPrefix(line, `\`):
		l = diff.Line{Type: diff.LineNoNewline, Content: line}
	default:
		// Some tools strip the leading space from empty context lines.
		l = diff.Line{Type: diff.LineContext, Content: strings.TrimPrefix(line, " "), OldNumber: p.oldNo, NewNumber: p.newNo}
		p.oldNo++
		p.newNo++
		p.oldLeft--
		p.newLeft--
	}
	h.Lines = append(h.Lines, l)
	p.oldLeft, p.newLeft = max(p.oldLeft, 0), max(p.newLeft, 0)
}

// parseHunkHeader reads "@@ -a[,b] +c[,d] @@ ...". Omitted counts are 1.
func parseHunkHeader(line string) (oldStart, oldCount, newStart, newCount int, ok bool) {
	rest, found := strings.CutPrefix(line, "@@ -")
	if !found {
		return 0, 0, 0, 0, false
	}
	ranges, _, found := strings.Cut(rest, " @@")
	if !found {
		return 0, 0, 0, 0, false
	}
	oldRange, newRange, found := strings.Cut(ranges, " +")
	if !found {
		return 0, 0, 0, 0, false
	}
	if oldStart, oldCount, ok = parseRange(oldRange); !ok {
		return 0, 0, 0, 0, false
	}
	if newStart, newCount, ok = parseRange(newRange); !ok {
		return 0, 0, 0, 0, false
	}
	return oldStart, oldCount, newStart, newCount, true
}

func parseRange(s string) (start, count int, ok bool) {
	startStr, countStr, hasCount := strings.Cut(s, ",")
	start, err := strconv.Atoi(startStr)
	if err != nil || start < 0 {
		return 0, 0, false
	}
	count = 1
	if hasCount {
		if count, err = strconv.Atoi(countStr); err != nil || count < 0 {
			return 0, 0, false
		}
	}
	return start, count, true
}

func parseGitDiffPaths(line string) (oldPath, newPath string) {
	const prefix = "diff --git "
	tokens := diffLineTokens(strings.TrimSpace(line[len(prefix):]))
	if len(tokens) < 2 {
		return "", ""
	}
	return normalizeDiffPath(tokens[0]), normalizeDiffPath(tokens[1])
}

func headerPath(s string) string {
	// A tab separates an optional timestamp.
	s, _, _ = strings.Cut(s, "\t")
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, `"`) {
		if tokens := diffLineTokens(s); len(tokens) > 0 {
			s = tokens[0]
		}
	}
	if s == "" || s == devNull {
		return ""
	}
	return normalizeDiffPath(s)
}

func diffLineTokens(s string) []string {
	var tokens []string
	for {
		s = strings.TrimLeft(s, " \t")
		if s == "" {
			break
		}
		if s[0] == '"' {
			var buf strings.Builder
			escaped := false
			i := 1
			for i < len(s) {
				ch := s[i]
				if escaped {
					buf.WriteByte(ch)
					escaped = false
					i++
					continue
				}
				if ch == '\\' {
					escaped = true
					i++
					continue
				}
				if ch == '"' {
					i++
					break
				}
				buf.WriteByte(ch)
				i++
			}
			tokens = append(tokens, buf.String())
			s = s[i:]
			continue
		}
		j := 0
		for j < len(s) && s[j] != ' ' && s[j] != '\t' {
			j++
		}
		tokens = append(tokens, s[:j])
		s = s[j:]
	}
	return tokens
}

func normalizeDiffPath(token string) string {
	if token, ok := strings.CutPrefix(token, "a/"); ok {
		return token
	}
	return strings.TrimPrefix(token, "b/")
}
