package backend

// Backend abstracts access to repository data.
//
// OpenCLI shells out to the git executable and OpenNative reads the
// repository with go-git; callers never see which one they hold.
type Backend interface {
	RepoPath() string
	StartLogStream(fromHash string) (LogStream, error)

	HeadState() (hash string, headName string, ok bool, err error)
	// ResolveRevision turns a revision expression (short hash, branch,
	// tag, HEAD~2) into a full commit hash.
	ResolveRevision(rev string) (string, error)
	ListRefs() ([]Ref, error)

	// CommitDiffText returns unified diff text between parentHash and
	// commitHash. An empty parentHash diffs against the empty tree.
	CommitDiffText(commitHash string, parentHash string) (string, error)
	WorktreeDiffText(staged bool) (string, error)
}

// LogStream yields commits in date order until io.EOF.
type LogStream interface {
	Next() (*Commit, error)
	Close() error
}

// Kind selects a Backend implementation.
type Kind string

const (
	KindNative Kind = "native"
	KindCLI    Kind = "gitcli"
)

// Open returns the backend of the given kind for repoPath.
func Open(kind Kind, repoPath string) (Backend, error) {
	switch kind {
	case KindCLI:
		return OpenCLI(repoPath)
	default:
		return OpenNative(repoPath)
	}
}
