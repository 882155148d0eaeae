package git

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	gitbackend "github.com/thiagokokada/gitk-layout/internal/git/backend"
)

// DefaultLimit caps Log when no limit is given.
const DefaultLimit = 1000

type Service struct {
	backend Backend
}

type Entry struct {
	Commit     *Commit
	Summary    string
	SearchText string
}

// Open returns a Service backed by the given implementation.
func Open(kind BackendKind, repoPath string) (*Service, error) {
	b, err := gitbackend.Open(kind, repoPath)
	if err != nil {
		return nil, err
	}
	return NewWithBackend(b), nil
}

func NewWithBackend(b Backend) *Service {
	return &Service{backend: b}
}

func (s *Service) RepoPath() string {
	if s == nil || s.backend == nil {
		return ""
	}
	return s.backend.RepoPath()
}

// Log returns up to limit commits reachable from HEAD in date order, plus
// the HEAD name. An unborn HEAD yields no entries and no error.
func (s *Service) Log(limit int) ([]*Entry, string, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	slog.Debug("Log start", slog.Int("limit", limit))
	headHash, headName, ok, err := s.backend.HeadState()
	if err != nil {
		return nil, "", err
	}
	if !ok {
		slog.Debug("Log skipped: HEAD has no commits")
		return nil, "", nil
	}
	stream, err := s.backend.StartLogStream(headHash)
	if err != nil {
		return nil, "", err
	}
	entries, err := readEntries(stream, limit)
	if closeErr := stream.Close(); closeErr != nil {
		err = errors.Join(err, closeErr)
	}
	if err != nil {
		return nil, "", fmt.Errorf("iterate commits: %w", err)
	}
	slog.Debug("Log done",
		slog.Int("returned", len(entries)),
		slog.String("head", headName),
	)
	return entries, headName, nil
}

func readEntries(stream gitbackend.LogStream, limit int) ([]*Entry, error) {
	entries := make([]*Entry, 0, min(limit, 256))
	for len(entries) < limit {
		c, err := stream.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		entries = append(entries, newEntry(c))
	}
	return entries, nil
}

// Commit resolves rev and returns the commit it names.
func (s *Service) Commit(rev string) (*Commit, error) {
	hash, err := s.backend.ResolveRevision(rev)
	if err != nil {
		return nil, err
	}
	stream, err := s.backend.StartLogStream(hash)
	if err != nil {
		return nil, err
	}
	defer stream.Close()
	c, err := stream.Next()
	if err != nil {
		return nil, fmt.Errorf("read commit %s: %w", hash, err)
	}
	return c, nil
}

func FormatCommitHeader(c *Commit) string {
	var b strings.Builder
	fmt.Fprintf(&b, "commit %s\n", c.Hash)
	if len(c.ParentHashes) > 1 {
		short := make([]string, len(c.ParentHashes))
		for i, p := range c.ParentHashes {
			short[i] = (&Commit{Hash: p}).ShortHash()
		}
		fmt.Fprintf(&b, "Merge: %s\n", strings.Join(short, " "))
	}
	appendSignatureLine(&b, "Author", c.Author)
	committer := c.Committer
	if committer.Name == "" && committer.Email == "" && committer.When.IsZero() {
		committer = c.Author
	}
	appendSignatureLine(&b, "Committer", committer)
	b.WriteString("\n")
	message := strings.TrimRight(c.Message, "\n")
	if message == "" {
		b.WriteString("    (no commit message)\n")
		return b.String()
	}
	for line := range strings.SplitSeq(message, "\n") {
		if line == "" {
			b.WriteString("\n")
			continue
		}
		fmt.Fprintf(&b, "    %s\n", line)
	}
	return b.String()
}

func appendSignatureLine(b *strings.Builder, label string, sig Signature) {
	fmt.Fprintf(b, "%s: %s <%s>", label, sig.Name, sig.Email)
	if !sig.When.IsZero() {
		fmt.Fprintf(b, "  %s", sig.When.Format("2006-01-02 15:04:05 -0700"))
	}
	b.WriteByte('\n')
}

func newEntry(c *Commit) *Entry {
	var b strings.Builder
	b.WriteString(strings.ToLower(c.Hash))
	b.WriteByte(' ')
	b.WriteString(strings.ToLower(c.Author.Name))
	b.WriteByte(' ')
	b.WriteString(strings.ToLower(c.Author.Email))
	b.WriteByte(' ')
	b.WriteString(strings.ToLower(c.Message))
	return &Entry{Commit: c, Summary: formatSummary(c), SearchText: b.String()}
}

func formatSummary(c *Commit) string {
	subject := []rune(c.Subject())
	if len(subject) > 80 {
		return string(subject[:77]) + "..."
	}
	return string(subject)
}
