package backend

import (
	"fmt"
	"strings"
)

// emptyTreeHash is the object id of the empty tree in SHA-1 repositories.
const emptyTreeHash = "4b825dc642cb6eb9a060e54bf8d69288fbee4904"

func (g *gitCLI) HeadState() (hash string, headName string, ok bool, err error) {
	if g == nil || g.path == "" {
		return "", "", false, fmt.Errorf("repository root not set")
	}
	out, err := g.runGitCommand([]string{"rev-parse", "-q", "--verify", "HEAD"}, true, "git rev-parse")
	if err != nil {
		return "", "", false, err
	}
	hash = strings.TrimSpace(out)
	if hash == "" {
		return "", "", false, nil
	}
	ref, err := g.runGitCommand([]string{"symbolic-ref", "-q", "--short", "HEAD"}, true, "git symbolic-ref")
	if err != nil {
		return "", "", false, err
	}
	headName = strings.TrimSpace(ref)
	if headName == "" {
		headName = "HEAD"
	}
	return hash, headName, true, nil
}

func (g *gitCLI) ResolveRevision(rev string) (string, error) {
	rev = strings.TrimSpace(rev)
	if rev == "" {
		return "", fmt.Errorf("revision not specified")
	}
	out, err := g.runGitCommand([]string{"rev-parse", "--verify", "--quiet", rev + "^{commit}"}, true, "git rev-parse")
	if err != nil {
		return "", err
	}
	hash := strings.TrimSpace(out)
	if hash == "" {
		return "", fmt.Errorf("unknown revision %q", rev)
	}
	return hash, nil
}

func (g *gitCLI) CommitDiffText(commitHash string, parentHash string) (string, error) {
	commitHash = strings.TrimSpace(commitHash)
	parentHash = strings.TrimSpace(parentHash)
	if commitHash == "" {
		return "", fmt.Errorf("commit not specified")
	}
	if parentHash == "" {
		parentHash = emptyTreeHash
	}
	return g.runGitCommand(
		[]string{"diff", "--no-color", "--no-ext-diff", parentHash, commitHash},
		true,
		"git diff",
	)
}

func (g *gitCLI) WorktreeDiffText(staged bool) (string, error) {
	if g == nil || g.path == "" {
		return "", fmt.Errorf("repository root not set")
	}
	args := []string{"diff", "--no-color", "--no-ext-diff"}
	if staged {
		args = append(args, "--cached")
	}
	return g.runGitCommand(args, true, "git diff")
}

func (g *gitCLI) ListRefs() ([]Ref, error) {
	if g == nil || g.path == "" {
		return nil, nil
	}
	out, err := g.runGitCommand(
		[]string{
			"--no-pager",
			"show-ref",
			"--dereference",
		},
		true,
		"git show-ref",
	)
	if err != nil {
		return nil, err
	}
	return parseRefsFromShowRef(out)
}

func parseRefsFromShowRef(out string) ([]Ref, error) {
	type refEntry struct {
		hash string
		ref  string
	}

	peeledByTagRef := map[string]string{}
	var entries []refEntry

	for rawLine := range strings.SplitSeq(out, "\n") {
		line := strings.TrimRight(rawLine, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) != 2 {
			return nil, fmt.Errorf("unexpected show-ref output line: %q", rawLine)
		}
		hash, refName := parts[0], parts[1]
		if base, ok := strings.CutSuffix(refName, "^{}"); ok {
			if base != "" {
				peeledByTagRef[base] = hash
			}
			continue
		}
		entries = append(entries, refEntry{hash: hash, ref: refName})
	}

	var refs []Ref
	for _, entry := range entries {
		if ref, ok := refFromName(entry.hash, entry.ref); ok {
			if ref.Kind == RefKindTag {
				if peeled := peeledByTagRef[entry.ref]; peeled != "" {
					ref.Hash = peeled
				}
			}
			refs = append(refs, ref)
		}
	}
	return refs, nil
}

// refFromName classifies a full ref name. Refs outside heads, remotes and
// tags are skipped.
func refFromName(hash, refName string) (Ref, bool) {
	prefixes := []struct {
		prefix string
		kind   RefKind
	}{
		{"refs/heads/", RefKindBranch},
		{"refs/remotes/", RefKindRemoteBranch},
		{"refs/tags/", RefKindTag},
	}
	for _, p := range prefixes {
		short, ok := strings.CutPrefix(refName, p.prefix)
		if !ok {
			continue
		}
		if short == "" {
			return Ref{}, false
		}
		return Ref{Hash: hash, Kind: p.kind, Name: short}, true
	}
	return Ref{}, false
}
