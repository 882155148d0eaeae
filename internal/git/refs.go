package git

import (
	"fmt"
	"slices"
	"strings"
)

// BranchLabels maps commit hashes to their decorations. HEAD comes first,
// followed by branches, remote branches and tags in name order.
func (s *Service) BranchLabels() (map[string][]string, error) {
	labels := map[string][]string{}
	if s.backend == nil || s.backend.RepoPath() == "" {
		return labels, nil
	}

	refs, err := s.backend.ListRefs()
	if err != nil {
		return nil, err
	}
	refs = slices.Clone(refs)
	slices.SortStableFunc(refs, func(a, b Ref) int {
		if a.Kind != b.Kind {
			return int(a.Kind) - int(b.Kind)
		}
		return strings.Compare(a.Name, b.Name)
	})
	for _, ref := range refs {
		if ref.Hash == "" || ref.Name == "" {
			continue
		}
		if ref.Kind == RefKindRemoteBranch && strings.HasSuffix(ref.Name, "/HEAD") {
			continue
		}
		label := ref.Name
		if ref.Kind == RefKindTag {
			label = fmt.Sprintf("tag: %s", ref.Name)
		}
		labels[ref.Hash] = append(labels[ref.Hash], label)
	}

	headHash, headName, ok, err := s.backend.HeadState()
	if err != nil {
		return nil, err
	}
	if ok && headHash != "" {
		label := "HEAD"
		if headName != "" && headName != "HEAD" {
			label = fmt.Sprintf("HEAD -> %s", headName)
		}
		labels[headHash] = append([]string{label}, labels[headHash]...)
	}
	return labels, nil
}
