package git

import gitbackend "github.com/thiagokokada/gitk-layout/internal/git/backend"

type (
	Signature = gitbackend.Signature
	Commit    = gitbackend.Commit
	Ref       = gitbackend.Ref
	RefKind   = gitbackend.RefKind
	Backend   = gitbackend.Backend
)

const (
	RefKindBranch       = gitbackend.RefKindBranch
	RefKindRemoteBranch = gitbackend.RefKindRemoteBranch
	RefKindTag          = gitbackend.RefKindTag
)
