package git

import (
	"fmt"

	gitbackend "github.com/thiagokokada/gitk-layout/internal/git/backend"
)

// BackendKind names a repository access implementation.
type BackendKind = gitbackend.Kind

const (
	BackendNative = gitbackend.KindNative
	BackendCLI    = gitbackend.KindCLI
)

// ParseBackendKind validates a -backend flag or config value.
func ParseBackendKind(s string) (BackendKind, error) {
	switch BackendKind(s) {
	case "", BackendNative:
		return BackendNative, nil
	case BackendCLI:
		return BackendCLI, nil
	}
	return "", fmt.Errorf("unknown backend %q (want %s or %s)", s, BackendNative, BackendCLI)
}

func GitVersion() (string, error) {
	return gitbackend.GitVersion()
}

func MinGitVersion() string {
	return gitbackend.MinGitVersion()
}
